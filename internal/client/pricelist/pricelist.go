// Package pricelist is the price-list screen without its rendering: rows
// loaded from the server, inline edits saved in the background and the
// add-product form.
package pricelist

import (
	"context"
	"strings"

	"github.com/rogerio-castellano/invoice-pricelist/internal/client/editbuf"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/form"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/scheduler"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/syncer"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/validate"
	"github.com/rogerio-castellano/invoice-pricelist/internal/models"
)

// Gateway is the part of the API client the screen needs.
type Gateway interface {
	ListProducts(ctx context.Context) ([]models.ProductRecord, error)
	CreateProduct(ctx context.Context, draft models.ProductRecord) (models.ProductRecord, error)
	syncer.Updater
}

// Row is a displayed product with its save state.
type Row struct {
	models.ProductRecord
	Dirty    bool
	Unsynced bool
}

type View struct {
	gw   Gateway
	buf  *editbuf.Buffer
	sync *syncer.Syncer
}

func New(gw Gateway, sched *scheduler.Scheduler, opts ...syncer.Option) *View {
	buf := editbuf.New()
	return &View{
		gw:   gw,
		buf:  buf,
		sync: syncer.New(buf, gw, sched, opts...),
	}
}

// Load fetches every product, replacing what is shown.
func (v *View) Load(ctx context.Context) error {
	records, err := v.gw.ListProducts(ctx)
	if err != nil {
		return err
	}
	v.buf.Load(records)
	return nil
}

func (v *View) Rows() []Row {
	return v.rows(v.buf.Rows())
}

// Search filters rows by article number and product name. Both match
// case-insensitively anywhere in the value; empty terms match everything.
func (v *View) Search(article, product string) []Row {
	article = strings.ToLower(strings.TrimSpace(article))
	product = strings.ToLower(strings.TrimSpace(product))

	var matched []models.ProductRecord
	for _, r := range v.buf.Rows() {
		if !strings.Contains(strings.ToLower(r.ID), article) {
			continue
		}
		if !strings.Contains(strings.ToLower(r.Product), product) {
			continue
		}
		matched = append(matched, r)
	}
	return v.rows(matched)
}

func (v *View) rows(records []models.ProductRecord) []Row {
	dirty := map[string]bool{}
	for _, k := range v.buf.PendingKeys() {
		dirty[k.RowID] = true
	}

	out := make([]Row, len(records))
	for i, r := range records {
		out[i] = Row{
			ProductRecord: r,
			Dirty:         dirty[r.ID],
			Unsynced:      v.buf.IsUnsynced(r.ID),
		}
	}
	return out
}

// Edit changes one cell. The change shows immediately and is saved after
// the quiet period.
func (v *View) Edit(id, field, value string) error {
	return v.buf.RecordEdit(id, field, value)
}

// Add submits the add-product form and appends the created row.
func (v *View) Add(ctx context.Context, f *form.Form) error {
	return f.Submit(ctx, func(ctx context.Context, values validate.Values) error {
		created, err := v.gw.CreateProduct(ctx, form.ProductRecord(values))
		if err != nil {
			return err
		}
		v.buf.AddRow(created)
		return nil
	})
}

// Pending lists the cells waiting to be saved.
func (v *View) Pending() []editbuf.Key {
	return v.buf.PendingKeys()
}

// Unsynced lists rows whose last save failed.
func (v *View) Unsynced() []string {
	return v.buf.Unsynced()
}

// Flush saves pending edits now.
func (v *View) Flush(ctx context.Context) error {
	return v.sync.Flush(ctx)
}

// Close stops background saving. Saves already running complete.
func (v *View) Close() {
	v.sync.Stop()
}
