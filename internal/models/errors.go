package models

import "errors"

// Pipeline error taxonomy. The HTTP layer maps these onto status codes;
// everything else surfaces as a 500.
var (
	// ErrProductNotFound aborts the whole pricing operation; no partial quote
	// is produced.
	ErrProductNotFound = errors.New("product not found")

	// ErrProductInactive is reported for catalog rows that exist but are no
	// longer sellable.
	ErrProductInactive = errors.New("product inactive")

	// ErrInsufficientStock names the offending product in its wrapped message.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrSessionNotFound covers both missing and expired sessions; callers
	// must not distinguish the two.
	ErrSessionNotFound = errors.New("checkout session not found")

	// ErrOrderNotFound is returned for unknown order numbers.
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidOrderStatus rejects status values outside the order lifecycle.
	ErrInvalidOrderStatus = errors.New("invalid order status")
)
