// Package syncer saves inline price-list edits once the user pauses typing.
//
// Every change to the edit buffer restarts a quiet-period timer. When it
// fires, each row with pending cells is sent as one full-record update.
// A row never has more than one update in flight: a row that is still being
// saved is skipped and picked up by a new cycle once its request settles.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rogerio-castellano/invoice-pricelist/internal/client/editbuf"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/gateway"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/scheduler"
	"github.com/rogerio-castellano/invoice-pricelist/internal/models"
	"github.com/rogerio-castellano/invoice-pricelist/internal/obs"
)

const (
	DefaultDelay          = time.Second
	DefaultRequestTimeout = 10 * time.Second
)

// Updater replaces a product on the server and returns the stored version.
type Updater interface {
	UpdateProduct(ctx context.Context, id string, record models.ProductRecord) (models.ProductRecord, error)
}

type Option func(*Syncer)

func WithDelay(d time.Duration) Option {
	return func(s *Syncer) {
		if d > 0 {
			s.delay = d
		}
	}
}

func WithRequestTimeout(d time.Duration) Option {
	return func(s *Syncer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithObserver registers fn to be told how every row update ended.
func WithObserver(fn func(rowID string, err error)) Option {
	return func(s *Syncer) {
		s.observer = fn
	}
}

type Syncer struct {
	buf      *editbuf.Buffer
	api      Updater
	sched    *scheduler.Scheduler
	delay    time.Duration
	timeout  time.Duration
	observer func(string, error)

	mu       sync.Mutex
	inFlight map[string]bool
	deferred map[string]bool
	idle     *sync.Cond
	stopped  bool
}

// New wires a syncer to buf. Edits recorded in buf from now on are saved
// through api after the quiet period.
func New(buf *editbuf.Buffer, api Updater, sched *scheduler.Scheduler, opts ...Option) *Syncer {
	s := &Syncer{
		buf:      buf,
		api:      api,
		sched:    sched,
		delay:    DefaultDelay,
		timeout:  DefaultRequestTimeout,
		inFlight: map[string]bool{},
		deferred: map[string]bool{},
	}
	s.idle = sync.NewCond(&s.mu)
	for _, opt := range opts {
		opt(s)
	}
	buf.OnChange(func(editbuf.Key) { s.kick() })
	return s
}

func (s *Syncer) kick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.sched.Schedule(s.delay, s.fire)
}

func (s *Syncer) fire() {
	s.cycle(context.Background())
}

// cycle starts one update per dirty row that is not already in flight. The
// returned func waits for the started updates and returns their errors.
func (s *Syncer) cycle(ctx context.Context) (wait func() []error, skipped int) {
	byRow := map[string][]editbuf.Edit{}
	var rowOrder []string
	for _, e := range s.buf.Snapshot() {
		if _, seen := byRow[e.RowID]; !seen {
			rowOrder = append(rowOrder, e.RowID)
		}
		byRow[e.RowID] = append(byRow[e.RowID], e)
	}

	var (
		wg   sync.WaitGroup
		emu  sync.Mutex
		errs []error
	)

	s.mu.Lock()
	for _, id := range rowOrder {
		if s.inFlight[id] {
			s.deferred[id] = true
			skipped++
			obs.Logger.Debug("row busy, deferring save", "row_id", id)
			continue
		}
		s.inFlight[id] = true
		wg.Add(1)

		go func(id string, edits []editbuf.Edit) {
			defer wg.Done()
			if err := s.syncRow(ctx, id, edits); err != nil {
				emu.Lock()
				errs = append(errs, fmt.Errorf("row %s: %w", id, err))
				emu.Unlock()
			}
		}(id, byRow[id])
	}
	s.mu.Unlock()

	return func() []error {
		wg.Wait()
		emu.Lock()
		defer emu.Unlock()
		return errs
	}, skipped
}

func (s *Syncer) syncRow(ctx context.Context, id string, edits []editbuf.Edit) (err error) {
	defer s.settle(id, &err)

	record, ok := s.buf.Row(id)
	if !ok {
		return editbuf.ErrUnknownRow
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	saved, err := s.api.UpdateProduct(ctx, id, record)
	if err != nil {
		obs.Logger.Warn("save row failed, keeping edits",
			"row_id", id,
			"pending", len(edits),
			"retryable", gateway.IsRetryable(err),
			"error", err,
		)
		s.buf.SetUnsynced(id, true)
		return err
	}

	for _, e := range edits {
		s.buf.ClearIfUnchanged(e.Key, e.Version)
	}
	saved.ID = id
	s.buf.ApplyServer(saved)
	s.buf.SetUnsynced(id, false)
	obs.Logger.Debug("row saved", "row_id", id, "fields", len(edits))
	return nil
}

func (s *Syncer) settle(id string, err *error) {
	s.mu.Lock()
	delete(s.inFlight, id)
	if len(s.inFlight) == 0 {
		s.idle.Broadcast()
	}
	again := s.deferred[id]
	delete(s.deferred, id)
	stopped := s.stopped
	s.mu.Unlock()

	if s.observer != nil {
		s.observer(id, *err)
	}
	if again && !stopped {
		s.kick()
	}
}

// Stop cancels the pending timer. Updates already in flight complete.
func (s *Syncer) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.sched.Cancel()
}

// Flush saves every pending row now and waits for the result, including
// rows that were in flight when it was called.
func (s *Syncer) Flush(ctx context.Context) error {
	s.sched.Cancel()

	var errs []error
	for {
		wait, skipped := s.cycle(ctx)
		errs = append(errs, wait()...)
		if skipped == 0 {
			break
		}
		s.Wait()
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
	}
	s.sched.Cancel()
	return errors.Join(errs...)
}

// Wait blocks until no update is in flight.
func (s *Syncer) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.inFlight) > 0 {
		s.idle.Wait()
	}
}

// InFlight reports whether an update for the row is running.
func (s *Syncer) InFlight(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[id]
}
