package reconciler_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// TestReconcilerScenarios is the entry point for the Ginkgo scenario specs.
func TestReconcilerScenarios(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Reconciler Scenario Suite")
}
