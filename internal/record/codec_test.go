package record

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShopRoundTrip(t *testing.T) {
	shop := &Shop{Admin: DeriveIdentity("admin"), ItemCount: 7}

	decoded, err := DecodeShop(EncodeShop(shop))
	require.NoError(t, err)
	assert.Equal(t, shop, decoded)
}

func TestItemRoundTrip(t *testing.T) {
	item := &Item{ID: 1, Price: 100, MetadataURI: "ipfs://bafybeigdyrzt5example"}

	payload, err := EncodeItem(item)
	require.NoError(t, err)
	assert.Len(t, payload, itemSize)

	decoded, err := DecodeItem(payload)
	require.NoError(t, err)
	assert.Equal(t, item, decoded)
}

func TestItemMetadataBound(t *testing.T) {
	item := &Item{ID: 1, Price: 100, MetadataURI: strings.Repeat("a", MaxMetadataURILen)}
	_, err := EncodeItem(item)
	require.NoError(t, err)

	item.MetadataURI = strings.Repeat("a", MaxMetadataURILen+1)
	_, err = EncodeItem(item)
	assert.ErrorIs(t, err, ErrMetadataTooLong)
}

func TestNewHistoryRecordHoldsFirstPurchase(t *testing.T) {
	owner := DeriveIdentity("alice")
	rec := NewHistoryRecord(owner, PurchaseRecord{ItemID: 1, Timestamp: 1700000000})

	assert.Equal(t, KindHistory, rec.Kind)
	assert.Equal(t, DeriveHistoryAddress(owner), rec.Address)
	assert.Equal(t, historySize, rec.Capacity)
	assert.Len(t, rec.Payload, rec.Capacity)

	history, err := DecodeHistory(rec.Payload)
	require.NoError(t, err)
	assert.Equal(t, owner, history.Owner)
	require.Len(t, history.Purchases, 1)
	assert.Equal(t, PurchaseRecord{ItemID: 1, Timestamp: 1700000000}, history.Purchases[0])
}

func TestAppendPurchaseKeepsInsertionOrder(t *testing.T) {
	owner := DeriveIdentity("alice")
	rec := NewHistoryRecord(owner, PurchaseRecord{ItemID: 0, Timestamp: 1700000000})

	for i := 1; i < HistoryCapacity; i++ {
		err := AppendPurchase(rec, PurchaseRecord{ItemID: uint64(i), Timestamp: 1700000000 + int64(i)})
		require.NoError(t, err)
	}

	history, err := DecodeHistory(rec.Payload)
	require.NoError(t, err)
	require.Len(t, history.Purchases, HistoryCapacity)
	for i, p := range history.Purchases {
		assert.Equal(t, uint64(i), p.ItemID)
		assert.Equal(t, 1700000000+int64(i), p.Timestamp)
	}
}

func TestAppendPurchaseCapacityBoundary(t *testing.T) {
	owner := DeriveIdentity("alice")
	rec := NewHistoryRecord(owner, PurchaseRecord{ItemID: 0, Timestamp: 1700000000})
	for i := 1; i < HistoryCapacity; i++ {
		require.NoError(t, AppendPurchase(rec, PurchaseRecord{ItemID: uint64(i), Timestamp: 1700000000 + int64(i)}))
	}

	full := make([]byte, len(rec.Payload))
	copy(full, rec.Payload)

	err := AppendPurchase(rec, PurchaseRecord{ItemID: 99, Timestamp: 1800000000})
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.True(t, bytes.Equal(full, rec.Payload), "failed append must leave the payload untouched")

	history, err := DecodeHistory(rec.Payload)
	require.NoError(t, err)
	require.Len(t, history.Purchases, HistoryCapacity)
	for i, p := range history.Purchases {
		assert.Equal(t, uint64(i), p.ItemID)
	}
}

func TestDecodeHistoryRejectsOverflowedCount(t *testing.T) {
	owner := DeriveIdentity("alice")
	rec := NewHistoryRecord(owner, PurchaseRecord{ItemID: 1, Timestamp: 1700000000})

	// Forge a count larger than the allocation admits.
	rec.Payload[IdentitySize] = 0xFF
	rec.Payload[IdentitySize+1] = 0xFF

	_, err := DecodeHistory(rec.Payload)
	assert.Error(t, err)
}
