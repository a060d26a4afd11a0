package render

import "errors"

// ErrWrite reports a failure writing rendered output.
var ErrWrite = errors.New("write output")
