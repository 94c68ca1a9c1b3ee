package collection

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/merocrm/mero-crm/pkg/apperror"
	"github.com/merocrm/mero-crm/pkg/crmclient"
	"github.com/merocrm/mero-crm/pkg/notify"
	"github.com/merocrm/mero-crm/pkg/pagination"
)

type invoice struct {
	ID string
}

func pageOf(q crmclient.ListQuery, total int64, ids ...string) *pagination.Page[invoice] {
	items := make([]invoice, len(ids))
	for i, id := range ids {
		items[i] = invoice{ID: id}
	}
	return pagination.NewPage(items, &pagination.Params{Page: q.Page, Limit: q.Limit}, total)
}

// recordingLister answers immediately and remembers every query
type recordingLister struct {
	mu      sync.Mutex
	queries []crmclient.ListQuery
	total   int64
	err     error
}

func (l *recordingLister) List(_ context.Context, q crmclient.ListQuery) (*pagination.Page[invoice], error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queries = append(l.queries, q)
	if l.err != nil {
		return nil, l.err
	}
	return pageOf(q, l.total, "inv-"+q.Search), nil
}

func (l *recordingLister) calls() []crmclient.ListQuery {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]crmclient.ListQuery, len(l.queries))
	copy(out, l.queries)
	return out
}

func TestFetchDefaults(t *testing.T) {
	l := &recordingLister{total: 1}
	f := New[invoice](l)

	page, err := f.Fetch(context.Background(), 0, 0, "", "")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	q := l.calls()[0]
	if q.Page != 1 || q.Limit != 10 || q.Search != "" || q.Status != "" {
		t.Errorf("query = %+v", q)
	}
	if page.Page != 1 || page.Limit != 10 {
		t.Errorf("page = %+v", page)
	}
	if got := f.Snapshot().Status; got != StatusSuccess {
		t.Errorf("Status = %s, want success", got)
	}
}

func TestSupersededFetchIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	firstStarted := make(chan struct{})
	var firstCanceled atomic.Bool

	lister := ListerFunc[invoice](func(ctx context.Context, q crmclient.ListQuery) (*pagination.Page[invoice], error) {
		if q.Page == 1 {
			close(firstStarted)
			<-release
			if ctx.Err() != nil {
				firstCanceled.Store(true)
			}
			return pageOf(q, 30, "stale"), nil
		}
		return pageOf(q, 30, "fresh"), nil
	})

	rec := &notify.Recorder{}
	f := New[invoice](lister, WithNotifier(rec))

	var states []Status
	var mu sync.Mutex
	f.Subscribe(func(s Snapshot[invoice]) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, s.Status)
	})

	firstErr := make(chan error, 1)
	go func() {
		_, err := f.Fetch(context.Background(), 1, 10, "", "")
		firstErr <- err
	}()
	<-firstStarted

	page, err := f.Fetch(context.Background(), 2, 10, "", "")
	if err != nil {
		t.Fatalf("second Fetch() error = %v", err)
	}
	if page.Data[0].ID != "fresh" {
		t.Errorf("second page = %+v", page)
	}

	close(release)
	if err := <-firstErr; !errors.Is(err, ErrSuperseded) {
		t.Errorf("first Fetch() error = %v, want ErrSuperseded", err)
	}
	if !firstCanceled.Load() {
		t.Error("superseded request context was not canceled")
	}

	snap := f.Snapshot()
	if snap.Status != StatusSuccess || snap.Page.Data[0].ID != "fresh" || snap.Query.Page != 2 {
		t.Errorf("snapshot = %+v", snap)
	}
	if len(rec.Toasts()) != 0 {
		t.Errorf("toasts = %+v", rec.Toasts())
	}

	mu.Lock()
	defer mu.Unlock()
	if states[len(states)-1] != StatusSuccess {
		t.Errorf("last delivered status = %s", states[len(states)-1])
	}
}

func TestFetchErrorRaisesToast(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		sensitive bool
		want      Status
		wantToast string
	}{
		{
			name:      "server message",
			err:       apperror.NewBadRequestError("Invalid status filter"),
			want:      StatusError,
			wantToast: "Invalid status filter",
		},
		{
			name:      "transport falls back",
			err:       &apperror.TransportError{Op: "GET", URL: "http://api", Err: errors.New("connection refused")},
			want:      StatusError,
			wantToast: "Could not load invoices",
		},
		{
			name:      "forbidden on regular list",
			err:       apperror.NewAppError(http.StatusForbidden, "Insufficient permissions"),
			want:      StatusError,
			wantToast: "Insufficient permissions",
		},
		{
			name:      "forbidden on sensitive list blocks without toast",
			err:       apperror.NewAppError(http.StatusForbidden, "Insufficient permissions"),
			sensitive: true,
			want:      StatusForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &notify.Recorder{}
			opts := []Option{WithNotifier(rec), WithErrorMessage("Could not load invoices")}
			if tt.sensitive {
				opts = append(opts, Sensitive())
			}
			f := New[invoice](&recordingLister{err: tt.err}, opts...)

			if _, err := f.Fetch(context.Background(), 1, 10, "", ""); err == nil {
				t.Fatal("Fetch() error = nil")
			}
			if got := f.Snapshot().Status; got != tt.want {
				t.Errorf("Status = %s, want %s", got, tt.want)
			}
			toasts := rec.Toasts()
			if tt.wantToast == "" {
				if len(toasts) != 0 {
					t.Errorf("toasts = %+v, want none", toasts)
				}
				return
			}
			if len(toasts) != 1 || toasts[0].Message != tt.wantToast || toasts[0].Level != notify.LevelError {
				t.Errorf("toasts = %+v, want one %q", toasts, tt.wantToast)
			}
		})
	}
}

func TestSingleAttempt(t *testing.T) {
	l := &recordingLister{err: errors.New("boom")}
	f := New[invoice](l)
	_, _ = f.Fetch(context.Background(), 1, 10, "", "")
	if n := len(l.calls()); n != 1 {
		t.Errorf("List called %d times, want 1", n)
	}
}

func TestPageControlsClamp(t *testing.T) {
	l := &recordingLister{total: 25}
	f := New[invoice](l)
	ctx := context.Background()

	if _, err := f.Fetch(ctx, 3, 10, "", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := f.NextPage(ctx); err != nil {
		t.Fatal(err)
	}
	if got := f.Query().Page; got != 3 {
		t.Errorf("page after NextPage on last page = %d, want 3", got)
	}

	if _, err := f.SetPage(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := f.PrevPage(ctx); err != nil {
		t.Fatal(err)
	}
	if got := f.Query().Page; got != 1 {
		t.Errorf("page after PrevPage on first page = %d, want 1", got)
	}

	if _, err := f.SetPage(ctx, 99); err != nil {
		t.Fatal(err)
	}
	if got := f.Query().Page; got != 3 {
		t.Errorf("SetPage(99) page = %d, want 3", got)
	}
}

func TestFilterChangesResetPage(t *testing.T) {
	l := &recordingLister{total: 100}
	f := New[invoice](l)
	ctx := context.Background()

	if _, err := f.Fetch(ctx, 4, 10, "", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := f.SetStatus(ctx, "paid"); err != nil {
		t.Fatal(err)
	}
	q := f.Query()
	if q.Page != 1 || q.Status != "paid" {
		t.Errorf("after SetStatus query = %+v", q)
	}

	if _, err := f.SetLimit(ctx, 50); err != nil {
		t.Fatal(err)
	}
	q = f.Query()
	if q.Page != 1 || q.Limit != 50 || q.Status != "paid" {
		t.Errorf("after SetLimit query = %+v", q)
	}
}

func TestSetSearchDebounced(t *testing.T) {
	l := &recordingLister{total: 1}
	f := New[invoice](l, WithSearchDelay(30*time.Millisecond))

	done := make(chan Snapshot[invoice], 1)
	f.Subscribe(func(s Snapshot[invoice]) {
		if s.Status == StatusSuccess {
			select {
			case done <- s:
			default:
			}
		}
	})

	for _, text := range []string{"a", "ac", "acm", "acme"} {
		f.SetSearch(context.Background(), text)
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case s := <-done:
		if s.Query.Search != "acme" || s.Query.Page != 1 {
			t.Errorf("query = %+v", s.Query)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("debounced search never fired")
	}

	time.Sleep(60 * time.Millisecond)
	calls := l.calls()
	if len(calls) != 1 || calls[0].Search != "acme" {
		t.Errorf("List calls = %+v, want a single search for acme", calls)
	}
}

func TestDebouncerCancel(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(10 * time.Millisecond)
	d.Trigger(func() { fired.Add(1) })
	if !d.Pending() {
		t.Error("Pending() = false after Trigger")
	}
	d.Cancel()
	time.Sleep(40 * time.Millisecond)
	if fired.Load() != 0 {
		t.Errorf("fired %d times after Cancel", fired.Load())
	}
}

func TestCallerCancelReturnsToIdle(t *testing.T) {
	lister := ListerFunc[invoice](func(ctx context.Context, q crmclient.ListQuery) (*pagination.Page[invoice], error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	rec := &notify.Recorder{}
	f := New[invoice](lister, WithNotifier(rec))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := f.Fetch(ctx, 1, 10, "", "")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() error = %v, want context.Canceled", err)
	}
	if got := f.Snapshot().Status; got != StatusIdle {
		t.Errorf("Status = %s, want idle", got)
	}
	if len(rec.Toasts()) != 0 {
		t.Errorf("toasts = %+v", rec.Toasts())
	}
}
