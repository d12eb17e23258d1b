// Package wizard provides the interactive configuration wizard for
// `eksforge init`.
//
// It guides users through creating a cluster descriptor with
// charmbracelet/huh question groups. RunWizard collects answers into a
// WizardResult, BuildConfig converts them to a full Config, and
// WriteConfig generates the commented YAML output file.
package wizard
