// Package editbuf holds the price-list rows shown to the user together with
// the edits that have not reached the server yet.
package editbuf

import (
	"errors"
	"sort"
	"sync"

	"github.com/rogerio-castellano/invoice-pricelist/internal/models"
)

var (
	ErrUnknownRow   = errors.New("unknown row")
	ErrUnknownField = errors.New("unknown field")
)

// Key identifies one editable cell.
type Key struct {
	RowID string
	Field string
}

// Edit is a pending value. Version increases every time the key is written.
type Edit struct {
	Key
	Value   string
	Version uint64
}

// Buffer is safe for concurrent use. Listeners run after the buffer lock is
// released, on the goroutine that made the change.
type Buffer struct {
	mu        sync.Mutex
	rows      map[string]*models.ProductRecord
	order     []string
	pending   map[Key]Edit
	unsynced  map[string]bool
	version   uint64
	listeners []func(Key)
}

func New() *Buffer {
	return &Buffer{
		rows:     map[string]*models.ProductRecord{},
		pending:  map[Key]Edit{},
		unsynced: map[string]bool{},
	}
}

// Load replaces all rows and drops every pending edit.
func (b *Buffer) Load(records []models.ProductRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rows = make(map[string]*models.ProductRecord, len(records))
	b.order = b.order[:0]
	for _, r := range records {
		if _, dup := b.rows[r.ID]; !dup {
			b.order = append(b.order, r.ID)
		}
		b.rows[r.ID] = &r
	}
	b.pending = map[Key]Edit{}
	b.unsynced = map[string]bool{}
}

// AddRow appends a row created on the server.
func (b *Buffer) AddRow(r models.ProductRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.rows[r.ID]; !ok {
		b.order = append(b.order, r.ID)
	}
	b.rows[r.ID] = &r
}

// OnChange registers fn to be called after every RecordEdit.
func (b *Buffer) OnChange(fn func(Key)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}

// RecordEdit stores value as the pending value of the cell and shows it in
// the local row right away. A later edit of the same cell overwrites it.
func (b *Buffer) RecordEdit(rowID, field, value string) error {
	b.mu.Lock()
	row, ok := b.rows[rowID]
	if !ok {
		b.mu.Unlock()
		return ErrUnknownRow
	}
	if !row.Set(field, value) {
		b.mu.Unlock()
		return ErrUnknownField
	}

	b.version++
	key := Key{RowID: rowID, Field: field}
	b.pending[key] = Edit{Key: key, Value: value, Version: b.version}
	listeners := append([]func(Key){}, b.listeners...)
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(key)
	}
	return nil
}

// PendingKeys returns the dirty cells ordered by row then field.
func (b *Buffer) PendingKeys() []Key {
	b.mu.Lock()
	defer b.mu.Unlock()

	keys := make([]Key, 0, len(b.pending))
	for k := range b.pending {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].RowID != keys[j].RowID {
			return keys[i].RowID < keys[j].RowID
		}
		return keys[i].Field < keys[j].Field
	})
	return keys
}

func (b *Buffer) Pending(key Key) (Edit, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.pending[key]
	return e, ok
}

func (b *Buffer) HasPending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending) > 0
}

// Clear forgets the pending value of key.
func (b *Buffer) Clear(key Key) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pending, key)
}

// Snapshot copies the pending edits.
func (b *Buffer) Snapshot() []Edit {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Edit, 0, len(b.pending))
	for _, e := range b.pending {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out
}

// ClearIfUnchanged drops key only if it still holds the given version.
// It reports whether the key was cleared.
func (b *Buffer) ClearIfUnchanged(key Key, version uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if e, ok := b.pending[key]; ok && e.Version == version {
		delete(b.pending, key)
		return true
	}
	return false
}

// Row returns a copy of the displayed row.
func (b *Buffer) Row(id string) (models.ProductRecord, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	r, ok := b.rows[id]
	if !ok {
		return models.ProductRecord{}, false
	}
	return *r, true
}

// Rows returns copies of all rows in load order.
func (b *Buffer) Rows() []models.ProductRecord {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]models.ProductRecord, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, *b.rows[id])
	}
	return out
}

// ApplyServer copies the server's record into the local row, leaving cells
// that still have a pending edit untouched.
func (b *Buffer) ApplyServer(rec models.ProductRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()

	row, ok := b.rows[rec.ID]
	if !ok {
		return
	}
	for _, f := range models.EditableFields {
		if _, dirty := b.pending[Key{RowID: rec.ID, Field: f}]; dirty {
			continue
		}
		row.Set(f, rec.Get(f))
	}
}

// SetUnsynced flags or unflags a row whose last save failed.
func (b *Buffer) SetUnsynced(id string, unsynced bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if unsynced {
		b.unsynced[id] = true
	} else {
		delete(b.unsynced, id)
	}
}

func (b *Buffer) IsUnsynced(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unsynced[id]
}

// Unsynced returns the flagged row ids, sorted.
func (b *Buffer) Unsynced() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]string, 0, len(b.unsynced))
	for id := range b.unsynced {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
