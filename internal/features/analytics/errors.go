package analytics

import "errors"

var (
	// ErrInvalidArgument covers bad windows, periods, scopes and top-N values
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMisalignedSeries is returned when comparison series differ in length
	ErrMisalignedSeries = errors.New("misaligned series")
)
