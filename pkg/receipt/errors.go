package receipt

import "errors"

// ErrNoText is returned when no recognition pass produced any text. Callers
// should surface this as a retake-the-photo condition, not a server fault.
var ErrNoText = errors.New("no text extracted from image")
