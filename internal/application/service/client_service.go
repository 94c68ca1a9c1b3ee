package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	"github.com/merocrm/mero-crm/internal/domain/repository"
	"github.com/merocrm/mero-crm/pkg/pagination"
)

// ClientService handles client-related operations
type ClientService struct {
	clientRepo repository.ClientRepository
}

// NewClientService creates a new client service
func NewClientService(clientRepo repository.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// ClientInput carries the fields of a client. Nil fields are left unchanged
// on update.
type ClientInput struct {
	Name      *string
	Email     *string
	Phone     *string
	Country   *string
	Address   *string
	TaxNumber *string
}

func (in *ClientInput) apply(c *entity.Client) {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		c.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Country != nil {
		c.Country = *in.Country
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.TaxNumber != nil {
		c.TaxNumber = *in.TaxNumber
	}
}

// CreateClient creates a new client
func (s *ClientService) CreateClient(ctx context.Context, userID uuid.UUID, input *ClientInput) (*entity.Client, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}

	client := &entity.Client{TenantID: tenantID, CreatedBy: userID}
	input.apply(client)
	if client.Name == "" {
		return nil, fieldError("name", "is required")
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// GetClient retrieves a client by ID
func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	return getRecord[entity.Client](ctx, s.clientRepo, id, "Client")
}

// ListClients pages through the tenant's clients
func (s *ClientService) ListClients(ctx context.Context, input *ListInput) (*pagination.Page[entity.Client], error) {
	return listRecords[entity.Client](ctx, s.clientRepo, input)
}

// UpdateClient updates a client
func (s *ClientService) UpdateClient(ctx context.Context, id uuid.UUID, input *ClientInput) (*entity.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	input.apply(client)
	if client.Name == "" {
		return nil, fieldError("name", "is required")
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient marks a client as removed
func (s *ClientService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	return removeRecord[entity.Client](ctx, s.clientRepo, id, "Client")
}

// RestoreClient brings a removed client back
func (s *ClientService) RestoreClient(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	return restoreRecord[entity.Client](ctx, s.clientRepo, id, "Client")
}

// ExportClients returns every client matching the search and filters
func (s *ClientService) ExportClients(ctx context.Context, input *ListInput) ([]entity.Client, error) {
	if _, err := requireTenant(ctx); err != nil {
		return nil, err
	}
	return s.clientRepo.ListAll(ctx, input.filter())
}
