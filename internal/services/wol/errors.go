package wol

import (
	"errors"
	"fmt"
	"strings"
)

// Kinds of dispatch failure. Every *DispatchError returned by Send matches
// exactly one of them with errors.Is.
var (
	ErrInvalidMAC           = errors.New("invalid MAC address")
	ErrInvalidAddress       = errors.New("invalid IP address")
	ErrBindFailed           = errors.New("failed to bind UDP socket")
	ErrBroadcastUnsupported = errors.New("failed to set socket to broadcast mode")
	ErrSendFailed           = errors.New("failed to send magic packet")
)

// DispatchError describes why a wake request could not be transmitted.
type DispatchError struct {
	Kind  error
	Field string // "bind" or "broadcast" when Kind is ErrInvalidAddress
	Input string // offending input or socket address
	Cause error
}

func (e *DispatchError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())

	switch {
	case e.Field != "":
		fmt.Fprintf(&b, " for %s address %q", e.Field, e.Input)
	case e.Input != "":
		fmt.Fprintf(&b, " %q", e.Input)
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

// Unwrap exposes both the kind and the underlying cause to errors.Is and errors.As.
func (e *DispatchError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}
