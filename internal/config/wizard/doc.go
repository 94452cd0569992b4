// Package wizard provides the interactive configuration wizard behind
// nifcloud-lb init.
//
// It uses charmbracelet/huh for form-based input collection. RunWizard
// returns a WizardResult, BuildConfig turns it into a config.Config and
// WriteConfig renders the YAML file with a header explaining how to supply
// credentials.
package wizard
