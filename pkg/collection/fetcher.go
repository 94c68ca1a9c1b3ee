// Package collection loads paged CRM lists and tracks their loading state.
//
// Every request carries a sequence number. Starting a request cancels the
// one in flight, and a response that is not the latest dispatched request is
// discarded, so the most recent page, search or status change always wins.
package collection

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/merocrm/mero-crm/pkg/apperror"
	"github.com/merocrm/mero-crm/pkg/crmclient"
	"github.com/merocrm/mero-crm/pkg/notify"
	"github.com/merocrm/mero-crm/pkg/pagination"
)

// ErrSuperseded is returned for a fetch whose result was discarded because
// a newer fetch was dispatched
var ErrSuperseded = errors.New("collection: fetch superseded by a newer request")

// Lister loads one page of a collection
type Lister[T any] interface {
	List(ctx context.Context, q crmclient.ListQuery) (*pagination.Page[T], error)
}

// ListerFunc adapts a function to Lister
type ListerFunc[T any] func(ctx context.Context, q crmclient.ListQuery) (*pagination.Page[T], error)

// List calls f
func (f ListerFunc[T]) List(ctx context.Context, q crmclient.ListQuery) (*pagination.Page[T], error) {
	return f(ctx, q)
}

// Status is the loading state of a collection
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
	// StatusForbidden replaces StatusError on sensitive collections when the
	// user lacks permission; it is shown as a blocking screen, not a toast.
	StatusForbidden
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	case StatusForbidden:
		return "forbidden"
	}
	return "unknown"
}

// Snapshot is the observable state of a Fetcher
type Snapshot[T any] struct {
	Status Status
	Query  crmclient.ListQuery
	// Page is the last successfully loaded page; it is kept while a new
	// request is loading or after it fails.
	Page *pagination.Page[T]
	Err  error
	Seq  uint64
}

// TotalPages returns the page count of the loaded page, 0 when nothing is loaded
func (s Snapshot[T]) TotalPages() int {
	if s.Page == nil {
		return 0
	}
	return s.Page.TotalPages()
}

// Option configures a Fetcher
type Option func(*config)

type config struct {
	notifier     notify.Notifier
	logger       *slog.Logger
	delay        time.Duration
	sensitive    bool
	errorMessage string
}

// WithNotifier sets where failure toasts go
func WithNotifier(n notify.Notifier) Option {
	return func(c *config) { c.notifier = n }
}

// WithLogger sets the logger for discarded and failed fetches
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithSearchDelay overrides the search debounce delay
func WithSearchDelay(d time.Duration) Option {
	return func(c *config) { c.delay = d }
}

// WithErrorMessage sets the toast text used when the server sends no message
func WithErrorMessage(msg string) Option {
	return func(c *config) { c.errorMessage = msg }
}

// Sensitive marks the collection as permission gated (users, tickets)
func Sensitive() Option {
	return func(c *config) { c.sensitive = true }
}

// Fetcher loads pages of one collection. Its methods are safe for
// concurrent use. Subscribers never see a snapshot older than one already
// delivered; they may read Snapshot but must not start fetches synchronously.
type Fetcher[T any] struct {
	lister Lister[T]
	cfg    config
	search *Debouncer

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	query  crmclient.ListQuery
	state  Snapshot[T]
	subs   map[int]func(Snapshot[T])
	nextID int

	emitMu  sync.Mutex
	emitted uint64
}

// New creates a fetcher over lister
func New[T any](lister Lister[T], opts ...Option) *Fetcher[T] {
	cfg := config{
		notifier:     notify.Discard,
		logger:       slog.Default(),
		delay:        DefaultSearchDelay,
		errorMessage: apperror.GenericMessage,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Fetcher[T]{
		lister: lister,
		cfg:    cfg,
		search: NewDebouncer(cfg.delay),
		query:  crmclient.ListQuery{Page: pagination.DefaultPage, Limit: pagination.DefaultLimit},
		subs:   make(map[int]func(Snapshot[T])),
	}
}

// Fetch loads the given page. page defaults to 1 and limit to 10; empty
// search and status are not sent.
func (f *Fetcher[T]) Fetch(ctx context.Context, page, limit int, search, status string) (*pagination.Page[T], error) {
	return f.Load(ctx, crmclient.ListQuery{Page: page, Limit: limit, Search: search, Status: status})
}

// Load dispatches q, superseding any fetch in flight, and waits for the
// result. It returns ErrSuperseded if a newer fetch was dispatched meanwhile.
func (f *Fetcher[T]) Load(ctx context.Context, q crmclient.ListQuery) (*pagination.Page[T], error) {
	q = normalize(q)

	f.mu.Lock()
	f.seq++
	seq := f.seq
	if f.cancel != nil {
		f.cancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.query = q
	f.state = Snapshot[T]{Status: StatusLoading, Query: q, Page: f.state.Page, Seq: seq}
	snap, subs := f.state, f.subscribers()
	f.mu.Unlock()
	f.emit(snap, subs)

	page, err := f.lister.List(reqCtx, q)

	f.mu.Lock()
	if seq != f.seq {
		f.mu.Unlock()
		cancel()
		f.cfg.logger.Debug("discarded superseded fetch", "seq", seq, "latest", f.latest())
		return nil, ErrSuperseded
	}
	f.cancel = nil
	cancel()

	var toast string
	switch {
	case err == nil:
		if page == nil {
			page = pagination.NewPage[T](nil, &pagination.Params{Page: q.Page, Limit: q.Limit}, 0)
		}
		f.state = Snapshot[T]{Status: StatusSuccess, Query: q, Page: page, Seq: seq}
	case apperror.KindOf(err) == apperror.KindCanceled:
		f.state = Snapshot[T]{Status: StatusIdle, Query: q, Page: f.state.Page, Seq: seq}
	case f.cfg.sensitive && apperror.IsForbidden(err):
		f.state = Snapshot[T]{Status: StatusForbidden, Query: q, Page: nil, Err: err, Seq: seq}
	default:
		f.state = Snapshot[T]{Status: StatusError, Query: q, Page: f.state.Page, Err: err, Seq: seq}
		toast = apperror.UserMessage(err, f.cfg.errorMessage)
	}
	snap, subs = f.state, f.subscribers()
	f.mu.Unlock()
	f.emit(snap, subs)

	if toast != "" {
		f.cfg.logger.Warn("list fetch failed", "seq", seq, "kind", apperror.KindOf(err).String(), "error", err)
		notify.Error(f.cfg.notifier, toast)
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Refresh reloads the current query
func (f *Fetcher[T]) Refresh(ctx context.Context) (*pagination.Page[T], error) {
	return f.Load(ctx, f.Query())
}

// SetPage loads page, clamped into the known page range
func (f *Fetcher[T]) SetPage(ctx context.Context, page int) (*pagination.Page[T], error) {
	f.mu.Lock()
	q := f.query
	if f.state.Page != nil {
		page = pagination.Clamp(page, f.state.TotalPages())
	}
	f.mu.Unlock()

	q.Page = page
	return f.Load(ctx, q)
}

// NextPage moves one page forward, staying on the last page
func (f *Fetcher[T]) NextPage(ctx context.Context) (*pagination.Page[T], error) {
	return f.SetPage(ctx, f.Query().Page+1)
}

// PrevPage moves one page back, staying on the first page
func (f *Fetcher[T]) PrevPage(ctx context.Context) (*pagination.Page[T], error) {
	return f.SetPage(ctx, f.Query().Page-1)
}

// SetLimit changes the page size and returns to the first page
func (f *Fetcher[T]) SetLimit(ctx context.Context, limit int) (*pagination.Page[T], error) {
	q := f.Query()
	q.Limit = limit
	q.Page = pagination.DefaultPage
	return f.Load(ctx, q)
}

// SetStatus changes the status filter and returns to the first page
func (f *Fetcher[T]) SetStatus(ctx context.Context, status string) (*pagination.Page[T], error) {
	q := f.Query()
	q.Status = status
	q.Page = pagination.DefaultPage
	return f.Load(ctx, q)
}

// SetSearch schedules a search once typing pauses. Each call restarts the
// delay, so only the last value is fetched. The result is delivered to
// subscribers.
func (f *Fetcher[T]) SetSearch(ctx context.Context, search string) {
	f.search.Trigger(func() {
		q := f.Query()
		q.Search = search
		q.Page = pagination.DefaultPage
		// errors are reported through state and toasts
		_, _ = f.Load(ctx, q)
	})
}

// Query returns the query of the latest dispatched fetch
func (f *Fetcher[T]) Query() crmclient.ListQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}

// Snapshot returns the current state
func (f *Fetcher[T]) Snapshot() Snapshot[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Subscribe registers fn for state changes and returns a function that removes it
func (f *Fetcher[T]) Subscribe(fn func(Snapshot[T])) (unsubscribe func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

// Close cancels the pending search and the fetch in flight
func (f *Fetcher[T]) Close() {
	f.search.Cancel()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

func (f *Fetcher[T]) latest() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seq
}

func (f *Fetcher[T]) subscribers() []func(Snapshot[T]) {
	subs := make([]func(Snapshot[T]), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	return subs
}

// emit delivers snap unless a snapshot of a newer fetch was already delivered
func (f *Fetcher[T]) emit(snap Snapshot[T], subs []func(Snapshot[T])) {
	f.emitMu.Lock()
	defer f.emitMu.Unlock()
	if snap.Seq < f.emitted {
		return
	}
	f.emitted = snap.Seq
	for _, fn := range subs {
		fn(snap)
	}
}

func normalize(q crmclient.ListQuery) crmclient.ListQuery {
	if q.Page < 1 {
		q.Page = pagination.DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = pagination.DefaultLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	q.Status = strings.TrimSpace(q.Status)
	return q
}
