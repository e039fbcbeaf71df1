// Package models defines the data structures exchanged over the API.
// It includes request and response payloads for authentication, catalog
// management, purchases, and account information, plus the account type
// backing the asset ledger.
package models

import "shop_ledger/internal/record"

// AuthRequest represents the authentication request payload.
// It contains the username and password provided by the user.
type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse represents the authentication response payload.
// It contains the generated token upon successful authentication.
type AuthResponse struct {
	Token string `json:"token"`
}

// ErrorResponse represents a generic error response payload.
// It contains a string describing the encountered error.
type ErrorResponse struct {
	Errors string `json:"errors"`
}

// Account represents a ledger account. It holds the derived identity, the
// credentials, and the current asset balance in smallest units.
type Account struct {
	Identity record.Identity
	Username string
	Password string
	Balance  int64
}

// AddItemRequest represents the payload for publishing a catalog item.
type AddItemRequest struct {
	ID          uint64 `json:"id"`
	Price       uint64 `json:"price"`
	MetadataURI string `json:"metadataUri"`
}

// ShopResponse describes the shop singleton after initialization.
type ShopResponse struct {
	Admin     string `json:"admin"`
	ItemCount uint64 `json:"itemCount"`
}

// ItemResponse describes a published catalog item.
type ItemResponse struct {
	ID          uint64 `json:"id"`
	Price       uint64 `json:"price"`
	MetadataURI string `json:"metadataUri"`
}

// PurchaseResponse describes one recorded purchase.
type PurchaseResponse struct {
	ItemID    uint64 `json:"itemId"`
	Timestamp int64  `json:"timestamp"`
}

// InfoResponse represents the response payload for the /api/info endpoint.
// It contains the caller's balance and purchase history in insertion order.
type InfoResponse struct {
	Balance   int64              `json:"balance"`
	Purchases []PurchaseResponse `json:"purchases"`
}
