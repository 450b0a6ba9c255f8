// Package cliui provides reusable terminal UI helpers (status marks,
// prompt styles, markdown rendering) for spool CLI commands.
package cliui

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	SuccessMark = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✓")
	FailMark    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")

	KeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	NameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	DimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	TokenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// Mark returns a ✓ for nil errors or ✗ for non-nil errors.
func Mark(err error) string {
	if err != nil {
		return FailMark
	}
	return SuccessMark
}

// RenderMarkdown renders markdown content for terminal display using
// glamour. On failure the raw content is returned alongside the error
// so callers can fall back to plain output.
func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return content, err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content, err
	}

	return rendered, nil
}
