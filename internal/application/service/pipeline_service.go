package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	"github.com/merocrm/mero-crm/internal/domain/enum"
	"github.com/merocrm/mero-crm/internal/domain/repository"
	"github.com/merocrm/mero-crm/pkg/pagination"
)

// PipelineService handles leads, deals and activities
type PipelineService struct {
	leadRepo     repository.LeadRepository
	dealRepo     repository.DealRepository
	activityRepo repository.ActivityRepository
	clientRepo   repository.ClientRepository
}

// NewPipelineService creates a new pipeline service
func NewPipelineService(
	leadRepo repository.LeadRepository,
	dealRepo repository.DealRepository,
	activityRepo repository.ActivityRepository,
	clientRepo repository.ClientRepository,
) *PipelineService {
	return &PipelineService{
		leadRepo:     leadRepo,
		dealRepo:     dealRepo,
		activityRepo: activityRepo,
		clientRepo:   clientRepo,
	}
}

// checkRefs verifies that referenced records exist in the tenant
func (s *PipelineService) checkRefs(ctx context.Context, clientID, leadID, dealID *uuid.UUID) error {
	if clientID != nil {
		c, err := s.clientRepo.GetByID(ctx, *clientID)
		if err != nil {
			return err
		}
		if c == nil {
			return fieldError("client_id", "client does not exist")
		}
	}
	if leadID != nil {
		l, err := s.leadRepo.GetByID(ctx, *leadID)
		if err != nil {
			return err
		}
		if l == nil {
			return fieldError("lead_id", "lead does not exist")
		}
	}
	if dealID != nil {
		d, err := s.dealRepo.GetByID(ctx, *dealID)
		if err != nil {
			return err
		}
		if d == nil {
			return fieldError("deal_id", "deal does not exist")
		}
	}
	return nil
}

// LeadInput carries the fields of a lead
type LeadInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Company  *string
	Source   *string
	Status   *string
	Notes    *string
	ClientID *string
}

func (s *PipelineService) applyLead(ctx context.Context, l *entity.Lead, in *LeadInput) error {
	if in.Name != nil {
		l.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		l.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		l.Phone = *in.Phone
	}
	if in.Company != nil {
		l.Company = *in.Company
	}
	if in.Source != nil {
		l.Source = *in.Source
	}
	if in.Notes != nil {
		l.Notes = *in.Notes
	}
	if in.Status != nil {
		status := enum.LeadStatus(*in.Status)
		if !status.Valid() {
			return fieldError("status", "unknown lead status")
		}
		l.Status = status
	}
	if in.ClientID != nil {
		clientID, err := parseOptionalUUID("client_id", *in.ClientID)
		if err != nil {
			return err
		}
		if err := s.checkRefs(ctx, clientID, nil, nil); err != nil {
			return err
		}
		l.ClientID = clientID
	}
	if l.Name == "" {
		return fieldError("name", "is required")
	}
	return nil
}

// CreateLead creates a new lead
func (s *PipelineService) CreateLead(ctx context.Context, userID uuid.UUID, input *LeadInput) (*entity.Lead, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	lead := &entity.Lead{TenantID: tenantID, CreatedBy: userID, Status: enum.LeadStatusNew}
	if err := s.applyLead(ctx, lead, input); err != nil {
		return nil, err
	}
	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *PipelineService) GetLead(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	return getRecord[entity.Lead](ctx, s.leadRepo, id, "Lead")
}

func (s *PipelineService) ListLeads(ctx context.Context, input *ListInput) (*pagination.Page[entity.Lead], error) {
	return listRecords[entity.Lead](ctx, s.leadRepo, input)
}

func (s *PipelineService) UpdateLead(ctx context.Context, id uuid.UUID, input *LeadInput) (*entity.Lead, error) {
	lead, err := s.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyLead(ctx, lead, input); err != nil {
		return nil, err
	}
	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *PipelineService) DeleteLead(ctx context.Context, id uuid.UUID) error {
	return removeRecord[entity.Lead](ctx, s.leadRepo, id, "Lead")
}

// DealInput carries the fields of a deal
type DealInput struct {
	Title             *string
	ClientID          *string
	LeadID            *string
	Value             *float64
	Currency          *string
	Stage             *string
	Probability       *int
	ExpectedCloseDate *time.Time
	Notes             *string
}

func (s *PipelineService) applyDeal(ctx context.Context, d *entity.Deal, in *DealInput) error {
	if in.Title != nil {
		d.Title = strings.TrimSpace(*in.Title)
	}
	if in.Value != nil {
		d.Value = *in.Value
	}
	if in.Currency != nil {
		d.Currency = strings.ToUpper(*in.Currency)
	}
	if in.Notes != nil {
		d.Notes = *in.Notes
	}
	if in.ExpectedCloseDate != nil {
		d.ExpectedCloseDate = in.ExpectedCloseDate
	}
	if in.Probability != nil {
		if *in.Probability < 0 || *in.Probability > 100 {
			return fieldError("probability", "must be between 0 and 100")
		}
		d.Probability = *in.Probability
	}
	if in.Stage != nil {
		stage := enum.DealStage(*in.Stage)
		if !stage.Valid() {
			return fieldError("stage", "unknown deal stage")
		}
		d.Stage = stage
	}
	if in.ClientID != nil {
		id, err := parseOptionalUUID("client_id", *in.ClientID)
		if err != nil {
			return err
		}
		if err := s.checkRefs(ctx, id, nil, nil); err != nil {
			return err
		}
		d.ClientID = id
	}
	if in.LeadID != nil {
		id, err := parseOptionalUUID("lead_id", *in.LeadID)
		if err != nil {
			return err
		}
		if err := s.checkRefs(ctx, nil, id, nil); err != nil {
			return err
		}
		d.LeadID = id
	}
	if d.Title == "" {
		return fieldError("title", "is required")
	}
	return nil
}

func (s *PipelineService) CreateDeal(ctx context.Context, userID uuid.UUID, input *DealInput) (*entity.Deal, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	deal := &entity.Deal{TenantID: tenantID, CreatedBy: userID, Stage: enum.DealStageProspecting}
	if err := s.applyDeal(ctx, deal, input); err != nil {
		return nil, err
	}
	if err := s.dealRepo.Create(ctx, deal); err != nil {
		return nil, err
	}
	return deal, nil
}

func (s *PipelineService) GetDeal(ctx context.Context, id uuid.UUID) (*entity.Deal, error) {
	return getRecord[entity.Deal](ctx, s.dealRepo, id, "Deal")
}

func (s *PipelineService) ListDeals(ctx context.Context, input *ListInput) (*pagination.Page[entity.Deal], error) {
	return listRecords[entity.Deal](ctx, s.dealRepo, input)
}

func (s *PipelineService) UpdateDeal(ctx context.Context, id uuid.UUID, input *DealInput) (*entity.Deal, error) {
	deal, err := s.GetDeal(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyDeal(ctx, deal, input); err != nil {
		return nil, err
	}
	if err := s.dealRepo.Update(ctx, deal); err != nil {
		return nil, err
	}
	return deal, nil
}

func (s *PipelineService) DeleteDeal(ctx context.Context, id uuid.UUID) error {
	return removeRecord[entity.Deal](ctx, s.dealRepo, id, "Deal")
}

// ActivityInput carries the fields of an activity
type ActivityInput struct {
	Type     *string
	Subject  *string
	Notes    *string
	ClientID *string
	LeadID   *string
	DealID   *string
	DueAt    *time.Time
	Status   *string
}

func (s *PipelineService) applyActivity(ctx context.Context, a *entity.Activity, in *ActivityInput) error {
	if in.Subject != nil {
		a.Subject = strings.TrimSpace(*in.Subject)
	}
	if in.Notes != nil {
		a.Notes = *in.Notes
	}
	if in.DueAt != nil {
		a.DueAt = in.DueAt
	}
	if in.Type != nil {
		t := enum.ActivityType(*in.Type)
		if !t.Valid() {
			return fieldError("type", "unknown activity type")
		}
		a.Type = t
	}
	if in.Status != nil {
		st := enum.ActivityStatus(*in.Status)
		if !st.Valid() {
			return fieldError("status", "unknown activity status")
		}
		a.Status = st
	}

	refs := []struct {
		field string
		raw   *string
		dst   **uuid.UUID
	}{
		{"client_id", in.ClientID, &a.ClientID},
		{"lead_id", in.LeadID, &a.LeadID},
		{"deal_id", in.DealID, &a.DealID},
	}
	for _, ref := range refs {
		if ref.raw == nil {
			continue
		}
		id, err := parseOptionalUUID(ref.field, *ref.raw)
		if err != nil {
			return err
		}
		*ref.dst = id
	}
	if err := s.checkRefs(ctx, a.ClientID, a.LeadID, a.DealID); err != nil {
		return err
	}

	if a.Subject == "" {
		return fieldError("subject", "is required")
	}
	if a.Type == "" {
		return fieldError("type", "is required")
	}
	return nil
}

func (s *PipelineService) CreateActivity(ctx context.Context, userID uuid.UUID, input *ActivityInput) (*entity.Activity, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	activity := &entity.Activity{TenantID: tenantID, CreatedBy: userID, Status: enum.ActivityStatusPlanned}
	if err := s.applyActivity(ctx, activity, input); err != nil {
		return nil, err
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

func (s *PipelineService) GetActivity(ctx context.Context, id uuid.UUID) (*entity.Activity, error) {
	return getRecord[entity.Activity](ctx, s.activityRepo, id, "Activity")
}

func (s *PipelineService) ListActivities(ctx context.Context, input *ListInput) (*pagination.Page[entity.Activity], error) {
	return listRecords[entity.Activity](ctx, s.activityRepo, input)
}

func (s *PipelineService) UpdateActivity(ctx context.Context, id uuid.UUID, input *ActivityInput) (*entity.Activity, error) {
	activity, err := s.GetActivity(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyActivity(ctx, activity, input); err != nil {
		return nil, err
	}
	if err := s.activityRepo.Update(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

func (s *PipelineService) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	return removeRecord[entity.Activity](ctx, s.activityRepo, id, "Activity")
}
