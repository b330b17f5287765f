package window

// WindowBuilderOption is a functional option for configuring a window before it opens.
type WindowBuilderOption func(w *hostWindow)

// WithTitle sets the title bar text.
func WithTitle(title string) WindowBuilderOption {
	return func(w *hostWindow) {
		w.title = title
	}
}

// WithSize sets the requested client size in screen coordinates. Non-positive values keep the
// default 1280x720.
//
// Parameters:
//   - width: requested width
//   - height: requested height
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *hostWindow) {
		if width > 0 && height > 0 {
			w.width, w.height = width, height
		}
	}
}

// WithMinSize stops the user from resizing the window below width x height. Zero leaves a
// dimension unbounded.
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *hostWindow) {
		w.minWidth, w.minHeight = width, height
	}
}

// WithResizable controls whether the user can resize the window. Windows are resizable by default.
func WithResizable(resizable bool) WindowBuilderOption {
	return func(w *hostWindow) {
		w.resizable = resizable
	}
}
