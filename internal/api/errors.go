package api

import "errors"

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrBadStatus   = errors.New("unexpected server status")
)
