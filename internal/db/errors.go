package db

import "errors"

// ErrAlreadyClaimed is returned when a pairing code is used to claim a device
// that already belongs to a user. Endpoints map it to a conflict response.
var ErrAlreadyClaimed = errors.New("device already claimed")
