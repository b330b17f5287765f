// Package label provides the status line that mirrors the scene theme.
package label

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// Label is a single line of status text with a theme color.
type Label interface {
	// SetColor sets the text color.
	SetColor(c colorful.Color)

	// SetText sets the text.
	SetText(text string)

	// Set replaces the color and the text together, so a change to both shows once.
	//
	// Parameters:
	//   - c: the text color
	//   - text: the text
	Set(c colorful.Color, text string)

	// Color returns the current text color.
	Color() colorful.Color

	// Text returns the current text.
	Text() string
}

// terminalLabel writes the label to a terminal as one styled line per change.
type terminalLabel struct {
	mu  *sync.Mutex
	out *termenv.Output

	color colorful.Color
	text  string

	rendered      bool
	renderedColor colorful.Color
	renderedText  string
	renders       int
}

// TerminalLabel is a Label that writes to a terminal.
type TerminalLabel interface {
	Label

	// Renders returns how many lines have been written.
	Renders() int
}

var _ TerminalLabel = &terminalLabel{}

// NewTerminalLabel creates a label that writes termenv-styled lines. Setting the same color or text
// again does not re-render; the line is written only when what it shows changes.
//
// Parameters:
//   - options: a variadic list of TerminalLabelBuilderOption functions
//
// Returns:
//   - TerminalLabel: the label
func NewTerminalLabel(options ...TerminalLabelBuilderOption) TerminalLabel {
	l := &terminalLabel{
		mu:    &sync.Mutex{},
		color: colorful.Color{R: 1, G: 1, B: 1},
	}
	for _, opt := range options {
		opt(l)
	}
	if l.out == nil {
		l.out = termenv.NewOutput(os.Stdout)
	}
	return l
}

func (l *terminalLabel) SetColor(c colorful.Color) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = c
	l.render()
}

func (l *terminalLabel) SetText(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.text = text
	l.render()
}

func (l *terminalLabel) Set(c colorful.Color, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = c
	l.text = text
	l.render()
}

func (l *terminalLabel) Color() colorful.Color {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *terminalLabel) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

func (l *terminalLabel) Renders() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.renders
}

// render must be called with mu held.
func (l *terminalLabel) render() {
	if l.text == "" {
		return
	}
	if l.rendered && l.renderedText == l.text && l.renderedColor == l.color {
		return
	}
	styled := l.out.String(l.text).Foreground(l.out.Color(l.color.Hex()))
	fmt.Fprintln(l.out, styled.String())

	l.rendered = true
	l.renderedText = l.text
	l.renderedColor = l.color
	l.renders++
}

// TerminalLabelBuilderOption is a functional option for configuring a terminal label.
type TerminalLabelBuilderOption func(*terminalLabel)

// WithWriter writes to w using the given color profile.
//
// Parameters:
//   - w: the destination writer
//   - profile: the termenv color profile, termenv.Ascii disables styling
//
// Returns:
//   - TerminalLabelBuilderOption: a function that applies the writer option to a terminal label
func WithWriter(w io.Writer, profile termenv.Profile) TerminalLabelBuilderOption {
	return func(l *terminalLabel) {
		l.out = termenv.NewOutput(w, termenv.WithProfile(profile))
	}
}
