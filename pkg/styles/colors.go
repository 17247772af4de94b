/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

// Package styles holds the terminal colours and text styles used by envctl.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	ColorNeutral = lipgloss.Color("#737373")
	ColorCoffee  = lipgloss.Color("#c0803f")
	ColorGreen   = lipgloss.Color("#28a745")
	ColorBlue    = lipgloss.Color("#2d90dc")
	ColorRed     = lipgloss.Color("#ef4444")
	ColorYellow  = lipgloss.Color("#ffff55")
	ColorWhite   = lipgloss.Color("#fafafa")
	ColorOlive   = lipgloss.Color("#6a8759")

	StyleTitle     = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)
	StyleBright    = lipgloss.NewStyle().Foreground(ColorWhite).Bold(true)
	StyleSuccess   = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleError     = lipgloss.NewStyle().Foreground(ColorRed)
	StyleWarning   = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleTechnical = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleMuted     = lipgloss.NewStyle().Foreground(ColorNeutral)
	StylePrompt    = lipgloss.NewStyle().Foreground(ColorCoffee).Bold(true)
	StyleComment   = lipgloss.NewStyle().Foreground(ColorOlive)

	// Production variants are highlighted so they are hard to mistake for
	// development ones.
	StyleProduction  = lipgloss.NewStyle().Foreground(ColorCoffee).Bold(true)
	StyleDevelopment = lipgloss.NewStyle().Foreground(ColorGreen)

	ListStyle = lipgloss.NewStyle().Width(70)
)
