// Package authz holds the authorization predicates applied at the top of the
// catalog and purchase transitions: the admin check and the history-ownership
// check. Both compare the caller against an identity stored in a record.
package authz

import "shop_ledger/internal/record"

// IsAdmin reports whether the caller is the stored shop admin.
func IsAdmin(shop *record.Shop, caller record.Identity) bool {
	return shop.Admin == caller
}

// OwnsHistory reports whether the loaded history belongs to the buyer.
// The history address is itself derived from the buyer, so a mismatch marks
// a tampered or corrupt record rather than an expected condition.
func OwnsHistory(history *record.PurchaseHistory, buyer record.Identity) bool {
	return history.Owner == buyer
}
