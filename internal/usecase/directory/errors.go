package directory

import (
	"errors"
)

var (
	ErrAuthRequired   = errors.New("sign in required")
	ErrAlreadyApplied = errors.New("already applied")
	ErrNotFound       = errors.New("job not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrBackend        = errors.New("backend error")
)

// Error carries the notice shown to the user next to the failure kind.
type Error struct {
	Err    error
	Notice string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Err.Error() + ": " + e.Cause.Error()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Err != nil {
		out = append(out, e.Err)
	}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}

// NoticeOf returns the user-facing text attached to err, if any.
func NoticeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Notice
	}
	return ""
}
