package service

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/pkg/access"
	"github.com/merocrm/mero-crm/pkg/totals"
)

func TestUpdateMemberRole(t *testing.T) {
	env := newTestEnv(t)
	ids := map[string]uuid.UUID{
		"owner":  env.ownerID,
		"admin":  env.addMember(t, "admin@acme.test", access.RoleAdmin),
		"admin2": env.addMember(t, "admin2@acme.test", access.RoleAdmin),
		"member": env.addMember(t, "member@acme.test", access.RoleMember),
	}

	tests := []struct {
		name   string
		actor  string
		target string
		role   string
		code   int
	}{
		{"owner promotes member", "owner", "member", "manager", 0},
		{"admin demotes manager", "admin", "member", "viewer", 0},
		{"admin cannot touch peer", "admin", "admin2", "member", http.StatusForbidden},
		{"admin cannot grant admin", "admin", "member", "admin", http.StatusForbidden},
		{"owner role never assigned", "owner", "member", "owner", http.StatusForbidden},
		{"owner cannot be changed", "admin", "owner", "member", http.StatusForbidden},
		{"self change", "admin", "admin", "viewer", http.StatusForbidden},
		{"unknown role", "owner", "member", "emperor", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			member, err := env.org.UpdateMemberRole(env.ctx, ids[tt.actor], ids[tt.target], tt.role)
			if tt.code != 0 {
				wantCode(t, err, tt.code)
				return
			}
			if err != nil {
				t.Fatalf("UpdateMemberRole() error = %v", err)
			}
			if string(member.Role) != tt.role {
				t.Errorf("role = %s, want %s", member.Role, tt.role)
			}
		})
	}
}

func TestRemoveMemberRevokesSessions(t *testing.T) {
	env := newTestEnv(t)
	managerID := env.addMember(t, "manager@acme.test", access.RoleManager)
	viewerID := env.addMember(t, "viewer@acme.test", access.RoleViewer)

	session, err := env.auth.Unlock(env.ctx, viewerID, env.tenantID, "member password")
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}

	err = env.org.RemoveMember(env.ctx, viewerID, managerID)
	wantCode(t, err, http.StatusForbidden)

	if err := env.org.RemoveMember(env.ctx, managerID, viewerID); err != nil {
		t.Fatalf("RemoveMember() error = %v", err)
	}

	err = env.auth.CheckAppSession(env.ctx, session.Token, viewerID, env.tenantID)
	wantCode(t, err, http.StatusUnauthorized)

	page, err := env.org.ListMembers(env.ctx, &ListInput{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 {
		t.Errorf("members = %d, want 2", page.Total)
	}
}

func TestAnalytics(t *testing.T) {
	env := newTestEnv(t)
	env.addMember(t, "member@acme.test", access.RoleMember)
	client := env.newClient(t, "Acme Buyer")

	inv, err := env.invoices.CreateInvoice(env.ctx, env.ownerID, &DocumentInput{
		ClientID: ptr(client.ID.String()),
		Items:    items(totals.LineItem{Description: "Work", Quantity: 2, UnitPrice: 50}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.payments.CreatePayment(env.ctx, env.ownerID, &PaymentInput{InvoiceID: ptr(inv.ID.String()), Amount: ptr(25.0)}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.pipeline.CreateDeal(env.ctx, env.ownerID, &DealInput{Title: ptr("Renewal")}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.pipeline.CreateDeal(env.ctx, env.ownerID, &DealInput{Title: ptr("Old"), Stage: ptr("won")}); err != nil {
		t.Fatal(err)
	}

	a, err := env.org.GetAnalytics(env.ctx)
	if err != nil {
		t.Fatalf("GetAnalytics() error = %v", err)
	}
	if a.Members != 2 || a.MembersByRole[access.RoleOwner] != 1 {
		t.Errorf("members = %d %v", a.Members, a.MembersByRole)
	}
	if a.Clients != 1 || a.Invoices != 1 || a.UnpaidInvoices != 1 || a.OpenDeals != 1 {
		t.Errorf("counts = %+v", a)
	}
	if !near(a.InvoicedTotal, 100) || !near(a.PaidTotal, 25) || !near(a.OutstandingTotal, 75) {
		t.Errorf("totals = %v %v %v", a.InvoicedTotal, a.PaidTotal, a.OutstandingTotal)
	}
}

func TestPutSetting(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.settings.PutSetting(env.ctx, &PutSettingInput{Key: "theme", Value: json.RawMessage(`{bad`)})
	wantCode(t, err, http.StatusUnprocessableEntity)

	_, err = env.settings.PutSetting(env.ctx, &PutSettingInput{Key: SettingCurrency, Value: json.RawMessage(`42`)})
	wantCode(t, err, http.StatusUnprocessableEntity)

	for _, v := range []string{`{"dark":true}`, `{"dark":false}`} {
		if _, err := env.settings.PutSetting(env.ctx, &PutSettingInput{Key: "theme", Value: json.RawMessage(v), Category: "ui"}); err != nil {
			t.Fatalf("PutSetting() error = %v", err)
		}
	}

	setting, err := env.settings.GetSetting(env.ctx, "theme")
	if err != nil {
		t.Fatal(err)
	}
	if string(setting.Value) != `{"dark":false}` || setting.Category != "ui" {
		t.Errorf("setting = %s %s", setting.Value, setting.Category)
	}

	all, err := env.settings.ListSettings(env.ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("settings = %d, want 1", len(all))
	}

	_, err = env.settings.GetSetting(env.ctx, "missing")
	wantCode(t, err, http.StatusNotFound)
}
