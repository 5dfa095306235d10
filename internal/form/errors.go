package form

import "errors"

var (
	// ErrRowNotFound is returned when no row carries the given id.
	ErrRowNotFound = errors.New("row not found")

	// ErrSundryIndex is returned for a sundry position outside the list.
	ErrSundryIndex = errors.New("sundry entry index out of range")

	// ErrSundryDisabled is returned when sundry entries are edited while the section is off.
	ErrSundryDisabled = errors.New("sundry section is disabled")

	// ErrInvalidSundry is returned when a submitted sundry entry fails the entry check.
	ErrInvalidSundry = errors.New("invalid sundry entry")

	// ErrUnknownSortKey is returned for a reference column that cannot be sorted.
	ErrUnknownSortKey = errors.New("unknown sort key")

	// ErrPersistFailed is returned when the persistence collaborator rejects a bill.
	ErrPersistFailed = errors.New("bill could not be persisted")
)
