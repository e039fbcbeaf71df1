package record

import "errors"

// Errors raised by the catalog and purchase transitions. Storage-level
// conditions (address collisions, missing records, declined transfers) are
// reported by the database layer and classified by the HTTP handlers.
var (
	// ErrUnauthorized indicates the caller is not the shop admin.
	ErrUnauthorized = errors.New("record: caller is not the shop admin")
	// ErrInvalidHistoryOwner indicates the loaded history does not belong to the buyer.
	ErrInvalidHistoryOwner = errors.New("record: history does not belong to the buyer")
	// ErrCapacityExceeded indicates an append would exceed the history's fixed allocation.
	ErrCapacityExceeded = errors.New("record: purchase history capacity exhausted")
	// ErrMetadataTooLong indicates a metadata URI does not fit the item layout.
	ErrMetadataTooLong = errors.New("record: metadata uri exceeds item capacity")
)
