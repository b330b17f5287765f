package panel

import (
	"github.com/Carmen-Shannon/oxy-flock/common"
)

// Field selects which parameter the keyboard edits.
type Field int

const (
	FieldCount Field = iota
	FieldSpreadX
	FieldSpreadY
	FieldSpreadZ
)

func (f Field) String() string {
	switch f {
	case FieldCount:
		return "count"
	case FieldSpreadX:
		return "spread.x"
	case FieldSpreadY:
		return "spread.y"
	case FieldSpreadZ:
		return "spread.z"
	}
	return "unknown"
}

type keyboardAdapter struct {
	panel      Panel
	field      Field
	countStep  int
	spreadStep int
	stepping   bool
}

// KeyboardAdapter drives a Panel from key events: 1 to 4 select a field, Q and E step it down and up
// while held (each key-down, including repeats, stages one step), and releasing Q or E commits.
// It is meant to be called from the window's key callbacks.
type KeyboardAdapter interface {
	// KeyDown handles a key press or repeat.
	//
	// Parameters:
	//   - keyCode: the virtual key code
	KeyDown(keyCode uint32)

	// KeyUp handles a key release.
	//
	// Parameters:
	//   - keyCode: the virtual key code
	KeyUp(keyCode uint32)

	// Field returns the selected field.
	Field() Field
}

var _ KeyboardAdapter = &keyboardAdapter{}

// NewKeyboardAdapter creates a keyboard adapter for p with the count field selected.
//
// Parameters:
//   - p: the panel to edit
//   - options: a variadic list of KeyboardAdapterBuilderOption functions
//
// Returns:
//   - KeyboardAdapter: the new adapter
func NewKeyboardAdapter(p Panel, options ...KeyboardAdapterBuilderOption) KeyboardAdapter {
	k := &keyboardAdapter{
		panel:      p,
		countStep:  10,
		spreadStep: 10,
	}
	for _, opt := range options {
		opt(k)
	}
	return k
}

func (k *keyboardAdapter) Field() Field {
	return k.field
}

func (k *keyboardAdapter) KeyDown(keyCode uint32) {
	switch keyCode {
	case common.Key1:
		k.field = FieldCount
	case common.Key2:
		k.field = FieldSpreadX
	case common.Key3:
		k.field = FieldSpreadY
	case common.Key4:
		k.field = FieldSpreadZ
	case common.KeyQ:
		k.step(-1)
	case common.KeyE:
		k.step(1)
	}
}

func (k *keyboardAdapter) KeyUp(keyCode uint32) {
	if keyCode != common.KeyQ && keyCode != common.KeyE {
		return
	}
	if k.stepping {
		k.stepping = false
		k.panel.Commit()
	}
}

func (k *keyboardAdapter) step(sign int) {
	p := k.panel.Staged()
	switch k.field {
	case FieldCount:
		p.Count += sign * k.countStep
	default:
		p.Spread[k.field-FieldSpreadX] += sign * k.spreadStep
	}
	k.panel.Stage(p)
	k.stepping = true
}

// KeyboardAdapterBuilderOption is a functional option for configuring a KeyboardAdapter.
type KeyboardAdapterBuilderOption func(*keyboardAdapter)

// WithSteps sets how far one key press moves the count and spread fields.
//
// Parameters:
//   - count: the count step
//   - spread: the spread step
//
// Returns:
//   - KeyboardAdapterBuilderOption: a function that applies the steps option to a keyboard adapter
func WithSteps(count, spread int) KeyboardAdapterBuilderOption {
	return func(k *keyboardAdapter) {
		k.countStep = count
		k.spreadStep = spread
	}
}
