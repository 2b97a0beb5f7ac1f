// Package engine - errors.go
package engine

// eerr is a lightweight comparable error type.
type eerr string

func (e eerr) Error() string { return string(e) }

var (
	ErrJoinInFlight  = eerr("join already in progress for this barber")
	ErrLeaveInFlight = eerr("leave already in progress")
)
