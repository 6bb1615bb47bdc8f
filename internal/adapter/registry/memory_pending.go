// Package registry implements the pending and verified payment registries.
package registry

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	domainErrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/errors"
	domainRepo "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/repository"
)

type memoryPendingRegistry struct {
	mu    sync.RWMutex
	items map[string]entity.PaymentRequest
}

// NewMemoryPendingRegistry returns a process local pending payment registry.
func NewMemoryPendingRegistry() domainRepo.PendingPaymentRegistry {
	return &memoryPendingRegistry{items: make(map[string]entity.PaymentRequest)}
}

func (r *memoryPendingRegistry) Put(ctx context.Context, req *entity.PaymentRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[req.TransactionRef] = *req
	return nil
}

func (r *memoryPendingRegistry) Get(ctx context.Context, ref string) (*entity.PaymentRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.items[ref]
	if !ok {
		return nil, domainErrors.ErrPaymentRequestNotFound
	}
	return &req, nil
}

func (r *memoryPendingRegistry) Take(ctx context.Context, ref string) (*entity.PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.items[ref]
	if !ok {
		return nil, domainErrors.ErrPaymentRequestNotFound
	}
	delete(r.items, ref)
	return &req, nil
}

func (r *memoryPendingRegistry) Remove(ctx context.Context, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, ref)
	return nil
}

func (r *memoryPendingRegistry) List(ctx context.Context, match func(*entity.PaymentRequest) bool) ([]*entity.PaymentRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.PaymentRequest, 0, len(r.items))
	for _, item := range r.items {
		req := item
		if match == nil || match(&req) {
			out = append(out, &req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryPendingRegistry) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	purged := 0
	for ref, req := range r.items {
		if req.IsExpired(now) {
			delete(r.items, ref)
			purged++
		}
	}
	return purged, nil
}
