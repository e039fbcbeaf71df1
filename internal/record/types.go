// Package record defines the three persisted record kinds of the shop ledger
// (Shop, Item, PurchaseHistory), the deterministic derivation of their storage
// addresses, and the fixed-capacity binary layouts they are stored in.
// Every record is allocated with a byte capacity chosen at creation time;
// a payload never grows past that allocation.
package record

import (
	"encoding/hex"
	"fmt"
)

// IdentitySize is the byte length of an account identity.
const IdentitySize = 32

// AddressSize is the byte length of a derived record address.
const AddressSize = 32

// Identity is an unforgeable account identifier. The hosting environment
// authenticates it; this package only compares and serializes it.
type Identity [IdentitySize]byte

// String returns the hex text form of the identity.
func (id Identity) String() string {
	return hex.EncodeToString(id[:])
}

// ParseIdentity decodes the hex text form of an identity.
func ParseIdentity(s string) (Identity, error) {
	var id Identity
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, err
	}
	if len(raw) != IdentitySize {
		return id, fmt.Errorf("record: identity must be %d bytes, got %d", IdentitySize, len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

// Address is the derived storage location of a record.
type Address [AddressSize]byte

// String returns the hex text form of the address.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// Kind tags one of the three record kinds. The tag namespaces address
// derivation so records of different kinds can never collide.
type Kind uint8

const (
	KindShop Kind = iota + 1
	KindItem
	KindHistory
)

// Record is one independently addressed, fixed-capacity persisted structure.
// Capacity is set when the record is allocated and never changes.
type Record struct {
	Kind     Kind
	Address  Address
	Capacity int
	Payload  []byte
}

// Shop is the singleton catalog root. Admin is set once at initialization;
// ItemCount is advisory bookkeeping, not an index.
type Shop struct {
	Admin     Identity
	ItemCount uint64
}

// Item is a priced catalog entry. Items are immutable after creation.
type Item struct {
	ID          uint64
	Price       uint64
	MetadataURI string
}

// PurchaseRecord is one entry of a purchase history. It is embedded in the
// history record, never addressed on its own.
type PurchaseRecord struct {
	ItemID    uint64
	Timestamp int64
}

// PurchaseHistory is the append-only purchase list of a single buyer.
// Owner is set once at creation; insertion order is chronological order.
type PurchaseHistory struct {
	Owner     Identity
	Purchases []PurchaseRecord
}
