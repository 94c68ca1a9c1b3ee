package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	domainRepo "github.com/merocrm/mero-crm/internal/domain/repository"
	"github.com/merocrm/mero-crm/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// listOptions describes how a table is searched, filtered and ordered
type listOptions struct {
	searchColumns []string
	statusColumn  string
	// filterColumns maps accepted filter names to columns
	filterColumns map[string]string
	preloads      map[string]func(*gorm.DB) *gorm.DB
	order         string
}

// scopedRepository implements domainRepo.ScopedRepository for any tenant
// scoped model with a removed flag
type scopedRepository[T any] struct {
	db   *gorm.DB
	opts listOptions
}

func newScopedRepository[T any](db *gorm.DB, opts listOptions) *scopedRepository[T] {
	if opts.order == "" {
		opts.order = "created_at DESC"
	}
	return &scopedRepository[T]{db: db, opts: opts}
}

func (r *scopedRepository[T]) model(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(new(T)).Scopes(TenantScope(ctx))
}

func (r *scopedRepository[T]) live(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(new(T)).Scopes(LiveScope(ctx))
}

func (r *scopedRepository[T]) withPreloads(q *gorm.DB) *gorm.DB {
	for name, fn := range r.opts.preloads {
		if fn != nil {
			q = q.Preload(name, fn)
		} else {
			q = q.Preload(name)
		}
	}
	return q
}

func (r *scopedRepository[T]) Create(ctx context.Context, record *T) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *scopedRepository[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return r.get(ctx, id, false)
}

func (r *scopedRepository[T]) GetAnyByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return r.get(ctx, id, true)
}

func (r *scopedRepository[T]) get(ctx context.Context, id uuid.UUID, includeRemoved bool) (*T, error) {
	var record T
	query := r.live(ctx)
	if includeRemoved {
		query = r.model(ctx)
	}
	err := r.withPreloads(query).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *scopedRepository[T]) Update(ctx context.Context, record *T) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(record).Error
}

func (r *scopedRepository[T]) SetRemoved(ctx context.Context, id uuid.UUID, removed bool) error {
	return r.model(ctx).Where("id = ?", id).Update("removed", removed).Error
}

func (r *scopedRepository[T]) List(ctx context.Context, params *pagination.Params, filter domainRepo.ListFilter) ([]T, int64, error) {
	var records []T
	var total int64

	query := r.filtered(r.live(ctx), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := r.withPreloads(query).
		Offset(params.Offset()).Limit(params.Limit).
		Order(r.opts.order).
		Find(&records).Error

	return records, total, err
}

func (r *scopedRepository[T]) Count(ctx context.Context, filter domainRepo.ListFilter) (int64, error) {
	var total int64
	err := r.filtered(r.live(ctx), filter).Count(&total).Error
	return total, err
}

// all returns every matching record without paging
func (r *scopedRepository[T]) all(ctx context.Context, filter domainRepo.ListFilter) ([]T, error) {
	var records []T
	err := r.withPreloads(r.filtered(r.live(ctx), filter)).Order(r.opts.order).Find(&records).Error
	return records, err
}

// filtered applies search, status and column filters. Search is a
// case-insensitive substring match on any search column.
func (r *scopedRepository[T]) filtered(query *gorm.DB, filter domainRepo.ListFilter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" && len(r.opts.searchColumns) > 0 {
		pattern := "%" + strings.ToLower(search) + "%"
		conds := make([]string, len(r.opts.searchColumns))
		args := make([]interface{}, len(r.opts.searchColumns))
		for i, col := range r.opts.searchColumns {
			conds[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		query = query.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	if filter.Status != "" && r.opts.statusColumn != "" {
		query = query.Where(r.opts.statusColumn+" = ?", filter.Status)
	}

	for name, value := range filter.Filters {
		col, ok := r.opts.filterColumns[name]
		if !ok || value == "" {
			continue
		}
		query = query.Where(col+" = ?", value)
	}

	return query
}

// number hands assign the tenant's max(number)+1 for model. Removed rows
// count so numbers are never reused. The tenant row is locked until tx ends,
// which queues concurrent creates of the same tenant on Postgres.
func number(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, model interface{}, assign domainRepo.NumberFunc) error {
	var tenant entity.Tenant
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").First(&tenant, "id = ?", tenantID).Error
	if err != nil {
		return err
	}

	var max int
	err = tx.Model(model).Scopes(TenantScope(WithTenant(ctx, tenantID))).
		Select("COALESCE(MAX(number), 0)").
		Scan(&max).Error
	if err != nil {
		return err
	}
	assign(max + 1)
	return nil
}
