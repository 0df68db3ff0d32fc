package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	// titleStyle for section headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// errorStyle for failure output
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// codeStyle for generated script display
	codeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("108"))

	// answerBoxStyle frames the final answer
	answerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
)

// formatFrameInfo renders one loaded dataset's shape line.
func formatFrameInfo(w io.Writer, name string, rows, cols int) {
	fmt.Fprintf(w, "%s %s %s\n",
		dimStyle.Render("Loaded:"),
		titleStyle.Render(name),
		dimStyle.Render(fmt.Sprintf("(%d rows, %d columns)", rows, cols)))
}

// formatCode renders the generated script.
func formatCode(w io.Writer, code string) {
	fmt.Fprintln(w, dimStyle.Render("Generated script:"))
	fmt.Fprintln(w, codeStyle.Render(code))
	fmt.Fprintln(w)
}

// formatAnswer renders the final answer box.
func formatAnswer(w io.Writer, answer string) {
	content := titleStyle.Render("Answer") + "\n" + answer
	fmt.Fprintln(w, answerBoxStyle.Render(content))
}

// formatError renders a failure message.
func formatError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render(msg))
}
