package islet

// SignalSink receives outbound notifications. Implementations must not block;
// signals are fire-and-forget.
type SignalSink interface {
	EmitSignal(sig Signal)
}

// SignalKind identifies an outbound notification.
type SignalKind uint8

const (
	SignalFrameAdvanced   SignalKind = iota // a player moved to Frame
	SignalAnimationEnded                    // a non-looping animation reached its end
	SignalLoadingFinished                   // every load attempt settled
)

func (k SignalKind) String() string {
	switch k {
	case SignalFrameAdvanced:
		return "frame-advanced"
	case SignalAnimationEnded:
		return "animation-ended"
	case SignalLoadingFinished:
		return "loading-finished"
	}
	return "unknown"
}

// Signal carries one outbound notification.
type Signal struct {
	Kind SignalKind
	// Source names the emitter, e.g. a FramePlayer's name.
	Source string
	// Frame is the frame index for SignalFrameAdvanced and SignalAnimationEnded.
	Frame int
	// Failed counts failed items for SignalLoadingFinished.
	Failed int
}

// SignalFunc adapts a function to a SignalSink.
type SignalFunc func(Signal)

// EmitSignal calls f(sig).
func (f SignalFunc) EmitSignal(sig Signal) { f(sig) }

func emit(sink SignalSink, sig Signal) {
	if sink != nil {
		sink.EmitSignal(sig)
	}
}
