package convert

import "github.com/pkg/errors"

var (
	ErrInvalidTrackIndex = errors.New("invalid track index")
	ErrNoSuitableTrack   = errors.New("no suitable melody track")
	ErrNoEvents          = errors.New("no events on track")
	ErrMalformedInput    = errors.New("malformed midi input")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// IsSkip reports whether err means the file was readable but had nothing
// usable in it.
func IsSkip(err error) bool {
	return errors.Is(err, ErrNoSuitableTrack) ||
		errors.Is(err, ErrNoEvents) ||
		errors.Is(err, ErrInvalidTrackIndex)
}
