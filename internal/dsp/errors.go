package dsp

import "fmt"

// ShortInputError reports that a DSP stage received fewer samples than its
// minimum viable input length.
type ShortInputError struct {
	Stage  string
	Got    int
	Needed int
}

func (e *ShortInputError) Error() string {
	return fmt.Sprintf("%s: need at least %d samples, got %d", e.Stage, e.Needed, e.Got)
}

func errTooShort(stage string, got, needed int) error {
	return &ShortInputError{Stage: stage, Got: got, Needed: needed}
}
