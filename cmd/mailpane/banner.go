package main

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))
	linkStyle = lipgloss.NewStyle().Underline(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// banner is printed to the terminal once the UI is reachable.
func banner(uiURL, apiURL string) string {
	return titleStyle.Render("mailpane") + "  " + linkStyle.Render(uiURL) + "\n" +
		dimStyle.Render("mail api: "+apiURL)
}
