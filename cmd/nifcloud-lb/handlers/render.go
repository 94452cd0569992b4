package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/imamik/nifcloud-lb/internal/reconciler"
)

// Output formats of the apply command.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorYellow = lipgloss.Color("#eab308")
	colorRed    = lipgloss.Color("#ef4444")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	okStyle      = lipgloss.NewStyle().Foreground(colorGreen)
	changedStyle = lipgloss.NewStyle().Foreground(colorYellow)
	failedStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

// isInteractiveTTY is replaced in tests.
var isInteractiveTTY = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func validateOutput(format string) error {
	switch format {
	case OutputText, OutputJSON, OutputYAML:
		return nil
	}
	return fmt.Errorf("unsupported output format %q (want text, json or yaml)", format)
}

func renderResult(w io.Writer, format string, report reconciler.Report) error {
	switch format {
	case OutputJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case OutputYAML:
		data, err := sigsyaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		_, err := io.WriteString(w, renderText(report, isInteractiveTTY()))
		return err
	}
}

// renderText produces the human readable summary. Styles are only applied
// when styled is set.
func renderText(report reconciler.Report, styled bool) string {
	style := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	b.WriteString(style(titleStyle, "nifcloud-lb: "+report.LoadBalancerName))
	b.WriteString("\n")
	b.WriteString(style(dimStyle, strings.Repeat("─", 30)))
	b.WriteString("\n")

	outcome := style(okStyle, "ok")
	switch {
	case report.Failed:
		outcome = style(failedStyle, "failed")
	case report.Changed:
		outcome = style(changedStyle, "changed")
	}
	fmt.Fprintf(&b, "  result:  %s\n", outcome)
	fmt.Fprintf(&b, "  status:  %s\n", report.Status)
	fmt.Fprintf(&b, "  changed: %t\n", report.Changed)

	if report.Failed {
		fmt.Fprintf(&b, "  msg:     %s\n", style(failedStyle, report.Msg))
		if report.ErrorCode != "" {
			fmt.Fprintf(&b, "  code:    %s\n", report.ErrorCode)
		}
		fmt.Fprintf(&b, "  error:   %s\n", report.ErrorMessage)
	}
	return b.String()
}
