package pmt

import (
	"errors"
	"fmt"
)

// ErrNoSignal is wrapped by DataError when a histogram carries no weight
// after thresholding or noise-floor filtering.
var ErrNoSignal = errors.New("no signal above threshold")

// CalibrationError is returned when a channel's estimated position is too far
// from every known PMT slot.
type CalibrationError struct {
	Channel    int
	DistanceSq float64
	Nearest    int
}

func (e *CalibrationError) Error() string {
	return fmt.Sprintf("channel %d is %g from closest PMT location (position %d)", e.Channel, e.DistanceSq, e.Nearest)
}

// DataError represents a missing, empty or unusable histogram.
type DataError struct {
	Source    string
	Histogram string
	Reason    string
	Err       error
}

func (e *DataError) Error() string {
	msg := e.Reason
	if e.Histogram != "" {
		msg = fmt.Sprintf("histogram %q: %s", e.Histogram, msg)
	}
	if e.Source != "" {
		msg = fmt.Sprintf("source %q: %s", e.Source, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *DataError) Unwrap() error {
	return e.Err
}
