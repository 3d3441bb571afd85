package main

import "errors"

type errKind int

const (
	kindInvalid errKind = iota + 1
	kindNotFound
	kindUnauthenticated
	kindVoteLimit
)

// opError is an expected operation outcome with a caller-facing message.
// Storage faults are not opErrors; they bubble up as plain wrapped errors
// and the HTTP layer answers 500 for anything without a kind.
type opError struct {
	kind errKind
	msg  string
}

func (e *opError) Error() string { return e.msg }

func errInvalid(msg string) error         { return &opError{kindInvalid, msg} }
func errNotFound(msg string) error        { return &opError{kindNotFound, msg} }
func errUnauthenticated(msg string) error { return &opError{kindUnauthenticated, msg} }
func errVoteLimit(msg string) error       { return &opError{kindVoteLimit, msg} }

// kindOf reports the operation outcome kind, or 0 for unexpected errors.
func kindOf(err error) errKind {
	var oe *opError
	if errors.As(err, &oe) {
		return oe.kind
	}
	return 0
}
