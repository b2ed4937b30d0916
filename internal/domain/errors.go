package domain

import "errors"

var (
	// ErrRecordNotFound is returned when a record id does not exist in the store
	ErrRecordNotFound = errors.New("record not found")

	// ErrInvalidStatus is returned for status strings outside the known set
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidMessage is returned when a job message body cannot be decoded
	ErrInvalidMessage = errors.New("invalid job message")

	// ErrUnknownAction is returned for job messages with an unsupported action
	ErrUnknownAction = errors.New("unknown job action")
)
