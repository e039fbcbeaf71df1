package record

import (
	"encoding/binary"
	"fmt"
)

const (
	// MaxMetadataURILen bounds the metadata URI stored in an item record.
	MaxMetadataURILen = 200
	// HistoryCapacity is the number of purchase records a history is
	// allocated for at creation.
	HistoryCapacity = 10

	purchaseRecordSize = 8 + 8                       // itemID + timestamp
	shopSize           = IdentitySize + 8            // admin + itemCount
	itemSize           = 8 + 8 + 2 + MaxMetadataURILen // id + price + uriLen + uri
	historyHeaderSize  = IdentitySize + 2            // owner + count
	historySize        = historyHeaderSize + HistoryCapacity*purchaseRecordSize
)

// All layouts are little-endian with fixed offsets. Payloads are always
// encoded to the record's full allocation, zero padded, so capacity equals
// payload length and untouched bytes stay byte-for-byte stable.

// EncodeShop serializes a shop into its fixed layout.
func EncodeShop(s *Shop) []byte {
	buf := make([]byte, shopSize)
	copy(buf[:IdentitySize], s.Admin[:])
	binary.LittleEndian.PutUint64(buf[IdentitySize:], s.ItemCount)
	return buf
}

// DecodeShop parses a shop payload.
func DecodeShop(payload []byte) (*Shop, error) {
	if len(payload) < shopSize {
		return nil, fmt.Errorf("record: shop payload is %d bytes, want %d", len(payload), shopSize)
	}
	s := &Shop{}
	copy(s.Admin[:], payload[:IdentitySize])
	s.ItemCount = binary.LittleEndian.Uint64(payload[IdentitySize:])
	return s, nil
}

// EncodeItem serializes an item. It fails with ErrMetadataTooLong instead of
// truncating a URI that does not fit the allocation.
func EncodeItem(item *Item) ([]byte, error) {
	if len(item.MetadataURI) > MaxMetadataURILen {
		return nil, ErrMetadataTooLong
	}
	buf := make([]byte, itemSize)
	binary.LittleEndian.PutUint64(buf[0:8], item.ID)
	binary.LittleEndian.PutUint64(buf[8:16], item.Price)
	binary.LittleEndian.PutUint16(buf[16:18], uint16(len(item.MetadataURI)))
	copy(buf[18:], item.MetadataURI)
	return buf, nil
}

// DecodeItem parses an item payload.
func DecodeItem(payload []byte) (*Item, error) {
	const header = 18
	if len(payload) < header {
		return nil, fmt.Errorf("record: item payload is %d bytes, want at least %d", len(payload), header)
	}
	uriLen := int(binary.LittleEndian.Uint16(payload[16:18]))
	if uriLen > len(payload)-header {
		return nil, fmt.Errorf("record: item uri length %d exceeds payload", uriLen)
	}
	return &Item{
		ID:          binary.LittleEndian.Uint64(payload[0:8]),
		Price:       binary.LittleEndian.Uint64(payload[8:16]),
		MetadataURI: string(payload[header : header+uriLen]),
	}, nil
}

// encodeHistory serializes a history into a payload of exactly capacity bytes.
func encodeHistory(h *PurchaseHistory, capacity int) ([]byte, error) {
	if historyHeaderSize+len(h.Purchases)*purchaseRecordSize > capacity {
		return nil, ErrCapacityExceeded
	}
	buf := make([]byte, capacity)
	copy(buf[:IdentitySize], h.Owner[:])
	binary.LittleEndian.PutUint16(buf[IdentitySize:], uint16(len(h.Purchases)))
	off := historyHeaderSize
	for _, p := range h.Purchases {
		binary.LittleEndian.PutUint64(buf[off:], p.ItemID)
		binary.LittleEndian.PutUint64(buf[off+8:], uint64(p.Timestamp))
		off += purchaseRecordSize
	}
	return buf, nil
}

// DecodeHistory parses a history payload. Entry count beyond what the
// allocation admits marks a corrupt record.
func DecodeHistory(payload []byte) (*PurchaseHistory, error) {
	if len(payload) < historyHeaderSize {
		return nil, fmt.Errorf("record: history payload is %d bytes, want at least %d", len(payload), historyHeaderSize)
	}
	h := &PurchaseHistory{}
	copy(h.Owner[:], payload[:IdentitySize])
	count := int(binary.LittleEndian.Uint16(payload[IdentitySize:]))
	maxEntries := (len(payload) - historyHeaderSize) / purchaseRecordSize
	if count > maxEntries {
		return nil, fmt.Errorf("record: history count %d exceeds allocation for %d", count, maxEntries)
	}
	h.Purchases = make([]PurchaseRecord, 0, count)
	off := historyHeaderSize
	for i := 0; i < count; i++ {
		h.Purchases = append(h.Purchases, PurchaseRecord{
			ItemID:    binary.LittleEndian.Uint64(payload[off:]),
			Timestamp: int64(binary.LittleEndian.Uint64(payload[off+8:])),
		})
		off += purchaseRecordSize
	}
	return h, nil
}

// AppendPurchase appends one entry to an encoded history record. The payload
// is rewritten only when the entry fits the record's allocated capacity;
// on ErrCapacityExceeded the existing payload is untouched.
func AppendPurchase(rec *Record, p PurchaseRecord) error {
	h, err := DecodeHistory(rec.Payload)
	if err != nil {
		return err
	}
	maxEntries := (rec.Capacity - historyHeaderSize) / purchaseRecordSize
	if len(h.Purchases) >= maxEntries {
		return ErrCapacityExceeded
	}
	h.Purchases = append(h.Purchases, p)
	payload, err := encodeHistory(h, rec.Capacity)
	if err != nil {
		return err
	}
	rec.Payload = payload
	return nil
}

// NewShopRecord allocates the shop singleton record.
func NewShopRecord(s *Shop) *Record {
	return &Record{
		Kind:     KindShop,
		Address:  DeriveShopAddress(),
		Capacity: shopSize,
		Payload:  EncodeShop(s),
	}
}

// NewItemRecord allocates an item record at the address derived from its id.
func NewItemRecord(item *Item) (*Record, error) {
	payload, err := EncodeItem(item)
	if err != nil {
		return nil, err
	}
	return &Record{
		Kind:     KindItem,
		Address:  DeriveItemAddress(item.ID),
		Capacity: itemSize,
		Payload:  payload,
	}, nil
}

// NewHistoryRecord allocates a buyer's history record holding its first
// entry, with headroom for HistoryCapacity entries total.
func NewHistoryRecord(owner Identity, first PurchaseRecord) *Record {
	h := &PurchaseHistory{Owner: owner, Purchases: []PurchaseRecord{first}}
	// A single entry always fits the fresh allocation.
	payload, _ := encodeHistory(h, historySize)
	return &Record{
		Kind:     KindHistory,
		Address:  DeriveHistoryAddress(owner),
		Capacity: historySize,
		Payload:  payload,
	}
}
