package crmclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/merocrm/mero-crm/pkg/apperror"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	session := NewSession()
	session.SetTokens("access-1", "refresh-1")
	session.SetAppSession("app-1")
	return New(srv.URL+"/api/v1", session)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListQueryValues(t *testing.T) {
	tests := []struct {
		name string
		q    ListQuery
		want url.Values
	}{
		{
			name: "defaults",
			q:    ListQuery{},
			want: url.Values{"page": {"1"}, "limit": {"10"}},
		},
		{
			name: "empty search and status omitted",
			q:    ListQuery{Page: 2, Limit: 25, Search: "", Status: ""},
			want: url.Values{"page": {"2"}, "limit": {"25"}},
		},
		{
			name: "blank search omitted",
			q:    ListQuery{Search: "   "},
			want: url.Values{"page": {"1"}, "limit": {"10"}},
		},
		{
			name: "search and status sent",
			q:    ListQuery{Page: 3, Limit: 5, Search: "acme", Status: "draft"},
			want: url.Values{"page": {"3"}, "limit": {"5"}, "search": {"acme"}, "status": {"draft"}},
		},
		{
			name: "filters",
			q:    ListQuery{Filters: map[string]string{"client_id": "c1", "invoice_id": ""}},
			want: url.Values{"page": {"1"}, "limit": {"10"}, "client_id": {"c1"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.q.Values()
			if got.Encode() != tt.want.Encode() {
				t.Errorf("Values() = %s, want %s", got.Encode(), tt.want.Encode())
			}
		})
	}
}

func TestListOmitsEmptySearch(t *testing.T) {
	var gotQuery url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    []map[string]any{{"id": "c1", "name": "Acme"}},
			"total":   1,
			"page":    1,
			"limit":   10,
		})
	})

	page, err := c.Clients().List(context.Background(), ListQuery{Search: ""})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if _, ok := gotQuery["search"]; ok {
		t.Errorf("search parameter sent: %v", gotQuery)
	}
	if _, ok := gotQuery["status"]; ok {
		t.Errorf("status parameter sent: %v", gotQuery)
	}
	if page.Total != 1 || len(page.Data) != 1 || page.Data[0].Name != "Acme" {
		t.Errorf("page = %+v", page)
	}
}

func TestAuthHeaders(t *testing.T) {
	var auth, app, path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		app = r.Header.Get(AppSessionHeader)
		path = r.URL.Path
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"id": "i1", "total": 138}})
	})

	inv, err := c.Invoices().Get(context.Background(), "i1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if auth != "Bearer access-1" {
		t.Errorf("Authorization = %q", auth)
	}
	if app != "app-1" {
		t.Errorf("%s = %q", AppSessionHeader, app)
	}
	if path != "/api/v1/crm/invoices/i1" {
		t.Errorf("path = %q", path)
	}
	if inv.Total != 138 {
		t.Errorf("Total = %v", inv.Total)
	}
}

func TestLockedSessionOmitsHeader(t *testing.T) {
	var app string
	var present bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		app = r.Header.Get(AppSessionHeader)
		_, present = r.Header[AppSessionHeader]
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})
	c.Session().SetAppSession("")

	if err := c.Clients().Delete(context.Background(), "c1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if present || app != "" {
		t.Errorf("app session header sent while locked: %q", app)
	}
}

func TestErrorDecoding(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     any
		wantKind apperror.Kind
		wantMsg  string
	}{
		{"forbidden", http.StatusForbidden, map[string]any{"success": false, "message": "Insufficient permissions"}, apperror.KindForbidden, "Insufficient permissions"},
		{"validation", http.StatusUnprocessableEntity, map[string]any{"success": false, "message": "Validation failed", "errors": []map[string]string{{"field": "name", "message": "required"}}}, apperror.KindValidation, "Validation failed"},
		{"not found", http.StatusNotFound, map[string]any{"success": false, "message": "Client not found"}, apperror.KindNotFound, "Client not found"},
		{"no body", http.StatusBadGateway, nil, apperror.KindServer, "Bad Gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.body == nil {
					w.WriteHeader(tt.status)
					return
				}
				writeJSON(w, tt.status, tt.body)
			})
			_, err := c.Clients().Get(context.Background(), "c1")
			if got := apperror.KindOf(err); got != tt.wantKind {
				t.Errorf("KindOf() = %s, want %s", got, tt.wantKind)
			}
			if got := apperror.UserMessage(err, ""); got != tt.wantMsg {
				t.Errorf("UserMessage() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	session := NewSession()
	session.SetTokens("a", "r")
	c := New(srv.URL, session)

	_, err := c.Clients().List(context.Background(), ListQuery{})
	var transportErr *apperror.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("error = %v, want TransportError", err)
	}
	if apperror.KindOf(err) != apperror.KindTransport {
		t.Errorf("KindOf() = %s", apperror.KindOf(err))
	}
}

func TestNotSignedIn(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.Clients().List(context.Background(), ListQuery{})
	if apperror.KindOf(err) != apperror.KindUnauthorized {
		t.Errorf("KindOf() = %s, want unauthorized", apperror.KindOf(err))
	}
	if called {
		t.Error("request reached the server without a session")
	}
}

func TestLoginAndUnlock(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("login sent Authorization header")
		}
		var in LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Email != "owner@acme.test" {
			t.Errorf("email = %q", in.Email)
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{
			"access_token": "tok", "refresh_token": "ref", "tenant_id": "t1", "role": "owner",
		}})
	})
	mux.HandleFunc("/auth/app-session", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("unlock Authorization = %q", r.Header.Get("Authorization"))
		}
		if r.Method == http.MethodDelete {
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": map[string]any{"token": "app-xyz"}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, nil)
	ctx := context.Background()
	if _, err := c.Auth().Login(ctx, LoginRequest{Email: "owner@acme.test", Password: "secret"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if c.Session().AccessToken() != "tok" || c.Session().Role() != "owner" {
		t.Errorf("session = %+v", c.Session().State())
	}
	if !c.Session().Locked() {
		t.Error("session should start locked")
	}
	if _, err := c.Auth().Unlock(ctx, "secret"); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if c.Session().AppSession() != "app-xyz" {
		t.Errorf("AppSession() = %q", c.Session().AppSession())
	}
	if err := c.Auth().Lock(ctx); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	if !c.Session().Locked() {
		t.Error("session should be locked after Lock()")
	}
}

func TestConvertToInvoice(t *testing.T) {
	var method, path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": map[string]any{"id": "inv-9", "converted_from_quote_id": "q1"}})
	})

	inv, err := c.Quotes().ConvertToInvoice(context.Background(), "q1")
	if err != nil {
		t.Fatalf("ConvertToInvoice() error = %v", err)
	}
	if method != http.MethodPost || path != "/api/v1/crm/quotes/q1/convert-to-invoice" {
		t.Errorf("request = %s %s", method, path)
	}
	if inv.ID != "inv-9" || inv.ConvertedFromQuoteID != "q1" {
		t.Errorf("invoice = %+v", inv)
	}
}

func TestSettingsPut(t *testing.T) {
	var body map[string]json.RawMessage
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/v1/crm/settings/invoice_prefix" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"key": "invoice_prefix", "value": "INV"}})
	})

	s, err := c.Settings().Put(context.Background(), "invoice_prefix", "INV")
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if string(body["value"]) != `"INV"` {
		t.Errorf("value sent = %s", body["value"])
	}
	if string(s.Value) != `"INV"` {
		t.Errorf("Value = %s", s.Value)
	}
}
