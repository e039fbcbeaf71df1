package record

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// Per-kind namespace tags. Distinct tags partition the address space, so two
// records of different kinds cannot derive the same address even from equal
// key bytes.
var (
	shopTag    = []byte("shop")
	itemTag    = []byte("item")
	historyTag = []byte("history")
	accountTag = []byte("account")
)

// shopSeed is the fixed key of the shop singleton. The shop address depends
// on nothing caller-supplied.
var shopSeed = []byte("shop")

// derive computes BLAKE2b-256 over the key bytes, keyed with the kind tag.
func derive(tag, key []byte) [32]byte {
	h, err := blake2b.New256(tag)
	if err != nil {
		// Tags are short compile-time constants; New256 only rejects keys
		// longer than 64 bytes.
		panic(err)
	}
	h.Write(key)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// DeriveShopAddress returns the address of the shop singleton.
func DeriveShopAddress() Address {
	return Address(derive(shopTag, shopSeed))
}

// DeriveItemAddress returns the address of the item with the given id.
// The id uniquely determines the storage location.
func DeriveItemAddress(id uint64) Address {
	var key [8]byte
	binary.LittleEndian.PutUint64(key[:], id)
	return Address(derive(itemTag, key[:]))
}

// DeriveHistoryAddress returns the address of the purchase history owned by
// the given identity. Each identity has at most one history.
func DeriveHistoryAddress(owner Identity) Address {
	return Address(derive(historyTag, owner[:]))
}

// DeriveIdentity maps a username to its ledger identity.
func DeriveIdentity(username string) Identity {
	return Identity(derive(accountTag, []byte(username)))
}
