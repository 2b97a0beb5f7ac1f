// Package barberboard - errors.go
package barberboard

type berr string

func (e berr) Error() string { return string(e) }

var ErrRemovalInFlight = berr("a removal is already in progress")
