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

// TicketService handles the support tickets of the organization console
type TicketService struct {
	ticketRepo repository.TicketRepository
	clientRepo repository.ClientRepository
	tenantRepo repository.TenantRepository
	now        func() time.Time
}

// NewTicketService creates a new ticket service
func NewTicketService(
	ticketRepo repository.TicketRepository,
	clientRepo repository.ClientRepository,
	tenantRepo repository.TenantRepository,
) *TicketService {
	return &TicketService{
		ticketRepo: ticketRepo,
		clientRepo: clientRepo,
		tenantRepo: tenantRepo,
		now:        time.Now,
	}
}

// TicketInput carries the fields of a ticket. Nil fields are left
// unchanged on update; an empty client or assignee clears it.
type TicketInput struct {
	Subject     *string
	Description *string
	Status      *string
	Priority    *string
	ClientID    *string
	AssigneeID  *string
}

func (s *TicketService) apply(ctx context.Context, t *entity.Ticket, in *TicketInput) error {
	if in.Subject != nil {
		t.Subject = strings.TrimSpace(*in.Subject)
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Priority != nil {
		priority := enum.TicketPriority(*in.Priority)
		if !priority.Valid() {
			return fieldError("priority", "unknown ticket priority")
		}
		t.Priority = priority
	}
	if in.Status != nil {
		status := enum.TicketStatus(*in.Status)
		if !status.Valid() {
			return fieldError("status", "unknown ticket status")
		}
		s.setStatus(t, status)
	}
	if in.ClientID != nil {
		clientID, err := parseOptionalUUID("client_id", *in.ClientID)
		if err != nil {
			return err
		}
		if clientID != nil {
			c, err := s.clientRepo.GetByID(ctx, *clientID)
			if err != nil {
				return err
			}
			if c == nil {
				return fieldError("client_id", "client does not exist")
			}
		}
		t.ClientID = clientID
	}
	if in.AssigneeID != nil {
		assigneeID, err := parseOptionalUUID("assignee_id", *in.AssigneeID)
		if err != nil {
			return err
		}
		if assigneeID != nil {
			m, err := s.tenantRepo.GetMembership(ctx, t.TenantID, *assigneeID)
			if err != nil {
				return err
			}
			if m == nil {
				return fieldError("assignee_id", "is not a member of this organization")
			}
		}
		t.AssigneeID = assigneeID
	}
	if t.Subject == "" {
		return fieldError("subject", "is required")
	}
	return nil
}

// setStatus stamps ClosedAt when a ticket is resolved or closed and clears
// it when the ticket is reopened
func (s *TicketService) setStatus(t *entity.Ticket, status enum.TicketStatus) {
	done := status == enum.TicketStatusResolved || status == enum.TicketStatusClosed
	switch {
	case done && t.ClosedAt == nil:
		now := s.now()
		t.ClosedAt = &now
	case !done:
		t.ClosedAt = nil
	}
	t.Status = status
}

// CreateTicket opens a new ticket
func (s *TicketService) CreateTicket(ctx context.Context, userID uuid.UUID, input *TicketInput) (*entity.Ticket, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	ticket := &entity.Ticket{
		TenantID:  tenantID,
		CreatedBy: userID,
		Status:    enum.TicketStatusOpen,
		Priority:  enum.TicketPriorityNormal,
	}
	if err := s.apply(ctx, ticket, input); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) GetTicket(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	return getRecord[entity.Ticket](ctx, s.ticketRepo, id, "Ticket")
}

func (s *TicketService) ListTickets(ctx context.Context, input *ListInput) (*pagination.Page[entity.Ticket], error) {
	return listRecords[entity.Ticket](ctx, s.ticketRepo, input)
}

func (s *TicketService) UpdateTicket(ctx context.Context, id uuid.UUID, input *TicketInput) (*entity.Ticket, error) {
	ticket, err := s.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, ticket, input); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) DeleteTicket(ctx context.Context, id uuid.UUID) error {
	return removeRecord[entity.Ticket](ctx, s.ticketRepo, id, "Ticket")
}
