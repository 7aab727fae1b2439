package usecase

import (
	"context"

	"github.com/xavierca1/prefab-leads/internal/entity"
	"github.com/xavierca1/prefab-leads/internal/infra/queue"
)

// SlotStore is the persistence medium behind the lead store: one opaque
// value per key, replaced as a whole on every write.
type SlotStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

type LeadStoreInterface interface {
	Append(ctx context.Context, candidate entity.LeadCandidate) (*entity.Lead, error)
	ListAll(ctx context.Context) []entity.Lead
	Get(ctx context.Context, id string) (*entity.Lead, bool)
	Update(ctx context.Context, id string, m entity.Mutation) (bool, error)
}

type CatalogReader interface {
	FindByID(id string) (*entity.Product, error)
}

type QueueProducerInterface interface {
	PublishLeadCaptured(ctx context.Context, payload queue.LeadCapturedPayload) error
}

type LeadNotifier interface {
	SendNewLead(lead entity.Lead, productName string) error
}
