package scoring

import "errors"

// ErrInsufficientSignals indicates a signal set with no usable data.
// Callers must surface this distinctly from a low score: it means
// "not enough data yet", not "no risk".
var ErrInsufficientSignals = errors.New("insufficient signals to compute risk score")
