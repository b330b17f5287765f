package input

// StateBuilderOption is a functional option for configuring a State via NewState.
type StateBuilderOption func(*state)

// WithViewport sets the initial viewport size.
//
// Parameters:
//   - width: the viewport width in pixels
//   - height: the viewport height in pixels
//
// Returns:
//   - StateBuilderOption: a function that applies the viewport option to a state
func WithViewport(width, height int) StateBuilderOption {
	return func(s *state) {
		s.width = max(width, 0)
		s.height = max(height, 0)
	}
}

// WithSections sets the number of scroll sections. The page scrolls through sections-1 viewport heights.
func WithSections(n int) StateBuilderOption {
	return func(s *state) {
		s.sections = n
	}
}

// WithScrollSpeed sets how many pixels one wheel unit scrolls.
func WithScrollSpeed(pixels float32) StateBuilderOption {
	return func(s *state) {
		s.scrollSpeed = pixels
	}
}

// WithPixelRatio sets the initial device pixel ratio.
func WithPixelRatio(ratio float32) StateBuilderOption {
	return func(s *state) {
		if ratio > 0 {
			s.pixelRatio = ratio
		}
	}
}
