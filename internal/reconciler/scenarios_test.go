package reconciler_test

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/nifcloud-lb/internal/platform/nifcloud"
	"github.com/imamik/nifcloud-lb/internal/reconciler"
	itesting "github.com/imamik/nifcloud-lb/internal/testing"
)

var _ = Describe("Reconciler", func() {
	var (
		fake *itesting.FakeNifcloud
		clk  *itesting.SleepClock
		ctx  context.Context
		rec  *reconciler.Reconciler
	)

	BeforeEach(func() {
		fake = itesting.NewFakeNifcloud(GinkgoT(), itesting.TestSecretKey)
		clk = itesting.NewSleepClock(time.Unix(0, 0))
		logger := funcr.New(func(prefix, args string) {
			GinkgoWriter.Println(prefix, args)
		}, funcr.Options{Verbosity: 1})
		ctx = logr.NewContext(context.Background(), logger)
		rec = reconciler.New(fake.Client(itesting.TestAccessKey), reconciler.WithClock(clk))
	})

	Context("when the load balancer does not exist", func() {
		It("creates it and synchronizes the filter", func() {
			By("reconciling an absent load balancer with a filter")
			target := reconciler.TargetFromConfig(itesting.NewConfigBuilder().
				WithFilter(1, true, "192.168.0.1", "192.168.0.2").
				Build())

			result, err := rec.Reconcile(ctx, target)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Changed).To(BeTrue())
			Expect(result.State).To(Equal(reconciler.StatePresent))

			listener := fake.Listener("lb001", 80, 80)
			Expect(listener).NotTo(BeNil())
			Expect(listener.FilterIPs).To(ConsistOf("192.168.0.1", "192.168.0.2"))

			By("reconciling again")
			result, err = rec.Reconcile(ctx, target)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Changed).To(BeFalse())
		})

		It("gives up when the load balancer never appears", func() {
			fake.SetConvergeAfter(-1)

			result, err := rec.Reconcile(ctx, reconciler.TargetFromConfig(itesting.NewConfigBuilder().Build()))

			var timeout *reconciler.ConvergenceTimeoutError
			Expect(errors.As(err, &timeout)).To(BeTrue())
			Expect(result.Changed).To(BeFalse())
			Expect(clk.Sleeps()).To(HaveLen(10))
			Expect(result.Report().Msg).To(Equal("changes failed (create)"))
		})
	})

	Context("when the load balancer has another listener", func() {
		BeforeEach(func() {
			fake.AddLoadBalancer(itesting.FakeLoadBalancer{
				Name: "lb001",
				Listeners: []*itesting.FakeListener{
					{Port: 443, InstancePort: 443, BalancingType: 1},
				},
			})
		})

		It("registers the missing port and keeps the existing one", func() {
			result, err := rec.Reconcile(ctx, reconciler.TargetFromConfig(itesting.NewConfigBuilder().Build()))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Changed).To(BeTrue())
			Expect(fake.CallCount(nifcloud.ActionRegisterPortWithLoadBalancer)).To(Equal(1))
			Expect(fake.Listener("lb001", 443, 443)).NotTo(BeNil())
		})
	})

	Context("when the listener already exists", func() {
		BeforeEach(func() {
			fake.AddLoadBalancer(itesting.FakeLoadBalancer{
				Name: "lb001",
				Listeners: []*itesting.FakeListener{{
					Port: 80, InstancePort: 80, BalancingType: 1,
					FilterType: 2,
					FilterIPs:  []string{"111.111.111.111", "111.111.111.112"},
					Instances:  []string{"test001"},
				}},
			})
		})

		DescribeTable("synchronizes the filter",
			func(purge bool, want []string) {
				_, err := rec.Reconcile(ctx, reconciler.TargetFromConfig(itesting.NewConfigBuilder().
					WithFilter(2, purge, "192.168.0.1", "111.111.111.111").
					Build()))
				Expect(err).NotTo(HaveOccurred())
				Expect(fake.Listener("lb001", 80, 80).FilterIPs).To(ConsistOf(want))
			},
			Entry("with purge", true, []string{"111.111.111.111", "192.168.0.1"}),
			Entry("without purge", false, []string{"111.111.111.111", "111.111.111.112", "192.168.0.1"}),
		)

		It("leaves registered instances alone when they are not managed", func() {
			_, err := rec.Reconcile(ctx, reconciler.TargetFromConfig(itesting.NewConfigBuilder().
				WithFilter(2, true, "111.111.111.111", "111.111.111.112").
				Build()))
			Expect(err).NotTo(HaveOccurred())
			Expect(fake.Listener("lb001", 80, 80).Instances).To(ConsistOf("test001"))
			Expect(fake.CallCount(nifcloud.ActionSetFilterForLoadBalancer)).To(BeZero())
		})

		It("reports a rejected filter change with its code", func() {
			fake.Fail(nifcloud.ActionSetFilterForLoadBalancer, itesting.FakeFailure{
				Status: 400, Code: "Client.InvalidParameter", Message: "invalid address",
			})

			result, err := rec.Reconcile(ctx, reconciler.TargetFromConfig(itesting.NewConfigBuilder().
				WithFilter(1, true).
				Build()))
			Expect(err).To(HaveOccurred())

			report := result.Report()
			Expect(report.Failed).To(BeTrue())
			Expect(report.Msg).To(Equal("changes failed (filter-sync)"))
			Expect(report.ErrorCode).To(Equal("Client.InvalidParameter"))
			Expect(report.ErrorMessage).To(Equal("invalid address"))
		})
	})
})
