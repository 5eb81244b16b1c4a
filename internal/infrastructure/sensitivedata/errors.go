package sensitivedata

import "errors"

// SafeError returns err with tracked values removed from its message. An
// error that needs no scrubbing is returned unchanged so errors.As keeps
// working on it.
func SafeError(err error, p *Provider) error {
	if err == nil || p == nil {
		return err
	}
	msg := err.Error()
	scrubbed := p.Scrub(msg)
	if scrubbed == msg {
		return err
	}
	return &scrubbedError{msg: scrubbed, err: err}
}

// scrubbedError keeps the original chain for errors.Is/As but never prints it.
type scrubbedError struct {
	msg string
	err error
}

func (e *scrubbedError) Error() string { return e.msg }

func (e *scrubbedError) Unwrap() error { return e.err }

// IsScrubbed reports whether err was rewritten by SafeError.
func IsScrubbed(err error) bool {
	var s *scrubbedError
	return errors.As(err, &s)
}
