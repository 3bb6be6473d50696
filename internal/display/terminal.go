package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const faceWidth = 36

var (
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("0")).Bold(true)
	timeStyle      = lipgloss.NewStyle().Bold(true).Width(faceWidth - 4).Align(lipgloss.Right)
	sideStyle      = lipgloss.NewStyle().Bold(true).Width(3)
	dateStyle      = lipgloss.NewStyle().Bold(true).Width(faceWidth).Align(lipgloss.Center)
	labelStyle     = lipgloss.NewStyle().Bold(true).Width(3)
	cellStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("0")).Width(faceWidth / 7).Align(lipgloss.Center)
	todayCellStyle = cellStyle.Bold(true).Reverse(true)
	faceStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Terminal draws the watchface as a boxed block of text.
type Terminal struct {
	w     io.Writer
	clear bool
}

// NewTerminal returns a Terminal writing to w. With clear set, every frame
// starts by clearing the terminal so the face redraws in place.
func NewTerminal(w io.Writer, clear bool) *Terminal {
	return &Terminal{w: w, clear: clear}
}

// Render draws s.
func (t *Terminal) Render(s Screen) {
	frame := Draw(s)
	if t.clear {
		frame = "\x1b[H\x1b[2J" + frame
	}
	fmt.Fprintln(t.w, frame)
}

// Draw lays out a screen without writing it anywhere.
func Draw(s Screen) string {
	status := statusStyle.Width(faceWidth).Render(
		fmt.Sprintf("%-8s%s", FormatBattery(s.Battery), s.Link),
	)

	clock := lipgloss.JoinHorizontal(lipgloss.Top,
		timeStyle.Render(s.Time),
		" ",
		lipgloss.JoinVertical(lipgloss.Left,
			sideStyle.Render(s.AmPm),
			sideStyle.Render(s.Seconds),
		),
	)

	forecast := lipgloss.JoinVertical(lipgloss.Left,
		s.CurrentWeather,
		labelStyle.Render(s.TodayLabel)+s.TodayForecast,
		labelStyle.Render(s.NextLabel)+s.NextForecast,
	)

	return faceStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		status,
		clock,
		dateStyle.Render(s.Date),
		forecast,
		"",
		calendarRow(s.Calendar[:7]),
		calendarRow(s.Calendar[7:]),
	))
}

// FormatBattery renders the charge state as " 80%", with "+" while charging.
func FormatBattery(b Battery) string {
	out := fmt.Sprintf(" %d%%", b.Percent)
	if b.Charging {
		out += "+"
	}
	return out
}

func calendarRow(cells []CalendarCell) string {
	parts := make([]string, 0, len(cells))
	for _, c := range cells {
		style := cellStyle
		if c.Today {
			style = todayCellStyle
		}
		parts = append(parts, style.Render(strings.TrimSpace(c.Label)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

var _ Display = (*Terminal)(nil)
