package services

import "errors"

var (
	ErrUnknownFilterKey   = errors.New("unknown filter key")
	ErrInvalidFilterValue = errors.New("invalid filter value")
	ErrInvalidThreshold   = errors.New("minimum project count must not be negative")
	ErrProjectNotFound    = errors.New("project not found")
)

// ErrNotLoaded is returned while the dataset load is still in flight.
var ErrNotLoaded = errors.New("dataset not loaded")
