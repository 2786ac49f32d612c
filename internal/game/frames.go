package game

// FrameID names a ship hull class. Size rank drives initiative tie-breaks
// and self-damage assignment.
type FrameID string

const (
	FrameInterceptor FrameID = "interceptor"
	FrameCruiser     FrameID = "cruiser"
	FrameDreadnought FrameID = "dreadnought"
)

// SizeRank returns 1 for interceptors, 2 for cruisers and 3 for
// dreadnoughts. Unknown frames rank like an interceptor.
func (f FrameID) SizeRank() int {
	switch f {
	case FrameDreadnought:
		return 3
	case FrameCruiser:
		return 2
	default:
		return 1
	}
}
