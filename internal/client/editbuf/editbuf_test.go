package editbuf

import (
	"testing"

	"github.com/rogerio-castellano/invoice-pricelist/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded() *Buffer {
	b := New()
	b.Load([]models.ProductRecord{
		{ID: "aaa1111", Product: "Lamp", Price: "20", Unit: "piece", InStock: "3", InPrice: "10"},
		{ID: "bbb2222", Product: "Rug", Price: "99", Unit: "piece", InStock: "1", InPrice: "50"},
	})
	return b
}

func TestRecordEditLastWriteWins(t *testing.T) {
	b := seeded()
	var notified []Key
	b.OnChange(func(k Key) { notified = append(notified, k) })

	require.NoError(t, b.RecordEdit("aaa1111", models.FieldPrice, "21"))
	require.NoError(t, b.RecordEdit("aaa1111", models.FieldPrice, "22"))
	require.NoError(t, b.RecordEdit("aaa1111", models.FieldPrice, "23"))

	key := Key{RowID: "aaa1111", Field: models.FieldPrice}
	assert.Equal(t, []Key{key}, b.PendingKeys())
	e, ok := b.Pending(key)
	require.True(t, ok)
	assert.Equal(t, "23", e.Value)
	assert.Len(t, notified, 3)

	row, _ := b.Row("aaa1111")
	assert.Equal(t, "23", row.Price, "local row shows the edit immediately")
}

func TestRecordEditUnknownTargets(t *testing.T) {
	b := seeded()
	assert.ErrorIs(t, b.RecordEdit("zzz", models.FieldPrice, "1"), ErrUnknownRow)
	assert.ErrorIs(t, b.RecordEdit("aaa1111", "id", "1"), ErrUnknownField)
	assert.False(t, b.HasPending())
}

func TestPendingKeysOrder(t *testing.T) {
	b := seeded()
	_ = b.RecordEdit("bbb2222", models.FieldUnit, "set")
	_ = b.RecordEdit("aaa1111", models.FieldPrice, "1")
	_ = b.RecordEdit("aaa1111", models.FieldInStock, "4")

	assert.Equal(t, []Key{
		{RowID: "aaa1111", Field: models.FieldInStock},
		{RowID: "aaa1111", Field: models.FieldPrice},
		{RowID: "bbb2222", Field: models.FieldUnit},
	}, b.PendingKeys())

	b.Clear(Key{RowID: "bbb2222", Field: models.FieldUnit})
	assert.Len(t, b.PendingKeys(), 2)
}

func TestClearIfUnchangedKeepsNewerEdits(t *testing.T) {
	b := seeded()
	_ = b.RecordEdit("aaa1111", models.FieldPrice, "30")
	snap := b.Snapshot()
	require.Len(t, snap, 1)

	_ = b.RecordEdit("aaa1111", models.FieldPrice, "31")

	assert.False(t, b.ClearIfUnchanged(snap[0].Key, snap[0].Version))
	e, ok := b.Pending(snap[0].Key)
	require.True(t, ok)
	assert.Equal(t, "31", e.Value)

	latest := b.Snapshot()[0]
	assert.True(t, b.ClearIfUnchanged(latest.Key, latest.Version))
	assert.False(t, b.HasPending())
}

func TestApplyServerSkipsDirtyFields(t *testing.T) {
	b := seeded()
	_ = b.RecordEdit("aaa1111", models.FieldPrice, "25")

	b.ApplyServer(models.ProductRecord{ID: "aaa1111", Product: "Lamp XL", Price: "24", Unit: "set", InStock: "3", InPrice: "10"})

	row, _ := b.Row("aaa1111")
	assert.Equal(t, "Lamp XL", row.Product)
	assert.Equal(t, "set", row.Unit)
	assert.Equal(t, "25", row.Price)
}

func TestUnsyncedFlags(t *testing.T) {
	b := seeded()
	b.SetUnsynced("bbb2222", true)
	b.SetUnsynced("aaa1111", true)
	assert.Equal(t, []string{"aaa1111", "bbb2222"}, b.Unsynced())

	b.SetUnsynced("aaa1111", false)
	assert.False(t, b.IsUnsynced("aaa1111"))
	assert.True(t, b.IsUnsynced("bbb2222"))
}

func TestLoadResetsState(t *testing.T) {
	b := seeded()
	_ = b.RecordEdit("aaa1111", models.FieldPrice, "25")
	b.SetUnsynced("aaa1111", true)

	b.Load([]models.ProductRecord{{ID: "ccc3333", Product: "Desk"}})
	assert.False(t, b.HasPending())
	assert.Empty(t, b.Unsynced())
	assert.Len(t, b.Rows(), 1)

	b.AddRow(models.ProductRecord{ID: "ddd4444", Product: "Chair"})
	rows := b.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "ddd4444", rows[1].ID)
}
