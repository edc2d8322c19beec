package realtime

import "errors"

// ErrRegistryClosed is returned when a connection is registered after the
// registry has been shut down.
var ErrRegistryClosed = errors.New("connection registry is shut down")
