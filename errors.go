package portgate

import (
	"errors"
	"fmt"
)

var (
	ErrAddressInUse     = errors.New("listener: address already in use")
	ErrInvalidAddress   = errors.New("listener: invalid listen address")
	ErrPermissionDenied = errors.New("listener: permission denied")
	ErrAcceptFailed     = errors.New("listener: accept failed")
)

// BindError reports a failed bind attempt. Kind is one of the bind
// sentinels above and is matched by errors.Is.
type BindError struct {
	Addr  string
	Kind  error
	cause error
}

func NewBindError(addr string, kind error, cause error) *BindError {
	return &BindError{Addr: addr, Kind: kind, cause: cause}
}

func (e *BindError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Addr)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind.Error(), e.Addr, e.cause)
}

func (e *BindError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

func (e *BindError) Unwrap() error {
	return e.cause
}
