package providerRepo

import (
	"context"
	"errors"

	"frontdesk/models"
)

// ErrProviderNotFound is returned when a provider id is not registered.
var ErrProviderNotFound = errors.New("provider not found")

// ProviderRepository defines data-access methods for the provider registry.
type ProviderRepository interface {
	Create(ctx context.Context, p *models.Provider) error
	Update(ctx context.Context, p *models.Provider) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	GetAll(ctx context.Context) ([]models.Provider, error)
}
