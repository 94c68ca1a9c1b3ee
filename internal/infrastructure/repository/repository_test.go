package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	domainRepo "github.com/merocrm/mero-crm/internal/domain/repository"
	"github.com/merocrm/mero-crm/internal/infrastructure/database"
	"github.com/merocrm/mero-crm/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.NewSQLiteDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), logger.Silent)
	if err != nil {
		t.Fatalf("NewSQLiteDB() error = %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// newTenant stores an organization with its owner and one client and
// returns a context scoped to it
func newTenant(t *testing.T, db *gorm.DB, slug string) (context.Context, *entity.Tenant, *entity.Client) {
	t.Helper()
	owner := &entity.User{FirstName: "Olive", LastName: "Owner", Email: slug + "@acme.test"}
	if err := db.Create(owner).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	tenant := &entity.Tenant{Name: slug, Slug: slug, OwnerID: owner.ID}
	if err := db.Create(tenant).Error; err != nil {
		t.Fatalf("create tenant: %v", err)
	}
	client := &entity.Client{TenantID: tenant.ID, Name: "Acme Corp"}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}
	return WithTenant(context.Background(), tenant.ID), tenant, client
}

func TestIdempotencyKeysArePerUser(t *testing.T) {
	repo := NewIdempotencyRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ann, ben := uuid.New(), uuid.New()

	for _, ikey := range []*entity.IdempotencyKey{
		{UserID: ann, Key: "create-1", Endpoint: "POST /api/v1/crm/clients", ResponseCode: 201, ResponseBody: `{"ann":true}`, ExpiresAt: now.Add(time.Hour)},
		{UserID: ben, Key: "create-1", Endpoint: "POST /api/v1/crm/leads", ResponseCode: 201, ResponseBody: `{"ben":true}`, ExpiresAt: now.Add(time.Hour)},
	} {
		if err := repo.Remember(ctx, ikey, now); err != nil {
			t.Fatalf("Remember() for %s error = %v", ikey.UserID, err)
		}
	}

	got, err := repo.FindLive(ctx, ben, "create-1", now)
	if err != nil || got == nil {
		t.Fatalf("FindLive() = %v, %v", got, err)
	}
	if got.ResponseBody != `{"ben":true}` || !got.Replays("POST /api/v1/crm/leads", now) {
		t.Errorf("ben's key = %+v", got)
	}

	dup := &entity.IdempotencyKey{UserID: ann, Key: "create-1", Endpoint: "POST /api/v1/crm/clients", ResponseCode: 201, ExpiresAt: now.Add(time.Hour)}
	if err := repo.Remember(ctx, dup, now); err == nil {
		t.Error("Remember() of a live key for the same user succeeded")
	}
}

func TestIdempotencyExpiredKeyIsReplaced(t *testing.T) {
	repo := NewIdempotencyRepository(newTestDB(t))
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	user := uuid.New()

	first := &entity.IdempotencyKey{UserID: user, Key: "k", Endpoint: "POST /api/v1/crm/clients", ResponseCode: 201, ResponseBody: "old", ExpiresAt: start.Add(time.Hour)}
	if err := repo.Remember(ctx, first, start); err != nil {
		t.Fatalf("Remember() error = %v", err)
	}

	later := start.Add(2 * time.Hour)
	if got, err := repo.FindLive(ctx, user, "k", later); err != nil || got != nil {
		t.Fatalf("FindLive() after expiry = %+v, %v, want nil", got, err)
	}

	second := &entity.IdempotencyKey{UserID: user, Key: "k", Endpoint: "POST /api/v1/crm/invoices", ResponseCode: 201, ResponseBody: "new", ExpiresAt: later.Add(time.Hour)}
	if err := repo.Remember(ctx, second, later); err != nil {
		t.Fatalf("Remember() over expired key error = %v", err)
	}
	got, err := repo.FindLive(ctx, user, "k", later)
	if err != nil || got == nil || got.ResponseBody != "new" {
		t.Fatalf("FindLive() = %+v, %v", got, err)
	}

	if err := repo.Purge(ctx, later.Add(2*time.Hour)); err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if got, _ := repo.FindLive(ctx, user, "k", later); got != nil {
		t.Errorf("key survived Purge: %+v", got)
	}
}

func TestScopesHideOtherTenantsAndRemovedRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewClientRepository(db)
	ctx, tenant, acme := newTenant(t, db, "acme")
	otherCtx, _, _ := newTenant(t, db, "globex")

	gone := &entity.Client{TenantID: tenant.ID, Name: "Gone Ltd"}
	if err := repo.Create(ctx, gone); err != nil {
		t.Fatal(err)
	}
	if err := repo.SetRemoved(ctx, gone.ID, true); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		ctx  context.Context
		want []string
	}{
		{"own tenant", ctx, []string{"Acme Corp"}},
		{"other tenant", otherCtx, []string{"Acme Corp"}},
		{"no tenant", context.Background(), nil},
		{"nil tenant", WithTenant(context.Background(), uuid.Nil), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clients, total, err := repo.List(tt.ctx, &pagination.Params{Page: 1, Limit: 10}, domainRepo.ListFilter{})
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if int(total) != len(tt.want) || len(clients) != len(tt.want) {
				t.Fatalf("List() = %d rows, total %d, want %d", len(clients), total, len(tt.want))
			}
			for i, c := range clients {
				if c.Name != tt.want[i] {
					t.Errorf("client %d = %q, want %q", i, c.Name, tt.want[i])
				}
			}
		})
	}

	if got, _ := repo.GetByID(ctx, gone.ID); got != nil {
		t.Error("GetByID() returned a removed client")
	}
	if got, _ := repo.GetAnyByID(ctx, gone.ID); got == nil {
		t.Error("GetAnyByID() did not return the removed client")
	}
	if got, _ := repo.GetByID(otherCtx, acme.ID); got != nil {
		t.Error("GetByID() crossed tenants")
	}
}

func TestDocumentNumbering(t *testing.T) {
	db := newTestDB(t)
	invoices := NewInvoiceRepository(db)
	payments := NewPaymentRepository(db)
	ctx, tenant, client := newTenant(t, db, "acme")
	otherCtx, other, otherClient := newTenant(t, db, "globex")

	create := func(ctx context.Context, tenantID, clientID uuid.UUID) *entity.Invoice {
		t.Helper()
		inv := &entity.Invoice{TenantID: tenantID, ClientID: clientID, Date: time.Now(), Total: 100}
		err := invoices.CreateNumbered(ctx, inv, func(n int) {
			inv.Number = n
			inv.Year = inv.Date.Year()
		})
		if err != nil {
			t.Fatalf("CreateNumbered() error = %v", err)
		}
		return inv
	}

	first := create(ctx, tenant.ID, client.ID)
	second := create(ctx, tenant.ID, client.ID)
	if err := invoices.SetRemoved(ctx, second.ID, true); err != nil {
		t.Fatal(err)
	}
	third := create(ctx, tenant.ID, client.ID)
	elsewhere := create(otherCtx, other.ID, otherClient.ID)

	if first.Number != 1 || second.Number != 2 || third.Number != 3 {
		t.Errorf("numbers = %d %d %d, want 1 2 3", first.Number, second.Number, third.Number)
	}
	if elsewhere.Number != 1 {
		t.Errorf("other tenant number = %d, want 1", elsewhere.Number)
	}

	var paid []int
	for i := 0; i < 2; i++ {
		p := &entity.Payment{TenantID: tenant.ID, InvoiceID: first.ID, ClientID: client.ID, Date: time.Now(), Amount: 10}
		if err := payments.Record(ctx, p); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		paid = append(paid, p.Number)
	}
	if paid[0] != 1 || paid[1] != 2 {
		t.Errorf("payment numbers = %v, want [1 2]", paid)
	}

	clash := &entity.Payment{TenantID: tenant.ID, InvoiceID: first.ID, ClientID: client.ID, Date: time.Now(), Amount: 1, Number: 2}
	if err := db.Create(clash).Error; err == nil {
		t.Error("duplicate payment number was stored")
	}
}
