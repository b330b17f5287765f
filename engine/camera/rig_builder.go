package camera

// RigBuilderOption is a functional option for configuring a Rig via NewRig.
type RigBuilderOption func(*rigImpl)

// WithParallaxGain sets the factor from normalized pointer position to world-space target offset.
//
// Parameters:
//   - gain: the parallax gain
//
// Returns:
//   - RigBuilderOption: a function that applies the gain option to a rig
func WithParallaxGain(gain float32) RigBuilderOption {
	return func(r *rigImpl) {
		r.parallaxGain = gain
	}
}

// WithSmoothing sets the exponential smoothing rate in 1/seconds.
func WithSmoothing(smoothing float32) RigBuilderOption {
	return func(r *rigImpl) {
		r.smoothing = max(smoothing, 0)
	}
}

// WithMaxDelta sets the longest frame time, in seconds, a single update may integrate.
func WithMaxDelta(maxDelta float32) RigBuilderOption {
	return func(r *rigImpl) {
		r.maxDelta = max(maxDelta, 0)
	}
}

// WithObjectDistance sets the world-space height scrolled per viewport.
func WithObjectDistance(d float32) RigBuilderOption {
	return func(r *rigImpl) {
		r.objectDistance = d
	}
}
