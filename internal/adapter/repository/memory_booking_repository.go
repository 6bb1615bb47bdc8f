package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	domainErrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/errors"
	domainRepo "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/repository"
)

// memoryBookingRepository keeps bookings in process. Writers to one booking
// are serialized by the entry's mutex; readers never block on them. Entries
// and their mutexes go away together on Delete.
type memoryBookingRepository struct {
	mu    sync.RWMutex
	items map[string]*bookingEntry
}

// bookingEntry.booking is written only under the repository write lock.
type bookingEntry struct {
	mu      sync.Mutex
	booking *entity.Booking
}

func NewMemoryBookingRepository() domainRepo.BookingRepository {
	return &memoryBookingRepository{items: make(map[string]*bookingEntry)}
}

func (r *memoryBookingRepository) entry(id string) (*bookingEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.items[id]
	return e, ok
}

// lockEntry locks the entry for id. It fails if the booking is missing or was
// deleted while waiting for the lock.
func (r *memoryBookingRepository) lockEntry(id string) (*bookingEntry, error) {
	e, ok := r.entry(id)
	if !ok {
		return nil, domainErrors.ErrBookingNotFound
	}
	e.mu.Lock()
	if current, ok := r.entry(id); !ok || current != e {
		e.mu.Unlock()
		return nil, domainErrors.ErrBookingNotFound
	}
	return e, nil
}

func (r *memoryBookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[booking.ID]; ok {
		return domainErrors.ErrBookingExists
	}
	r.items[booking.ID] = &bookingEntry{booking: booking.Clone()}
	return nil
}

func (r *memoryBookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.items[id]
	if !ok {
		return nil, domainErrors.ErrBookingNotFound
	}
	return e.booking.Clone(), nil
}

func (r *memoryBookingRepository) Update(ctx context.Context, id string, mutate func(b *entity.Booking) error) (*entity.Booking, error) {
	e, err := r.lockEntry(id)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	r.mu.RLock()
	current := e.booking.Clone()
	r.mu.RUnlock()

	if err := mutate(current); err != nil {
		return nil, err
	}
	current.Version++

	r.mu.Lock()
	defer r.mu.Unlock()
	e.booking = current.Clone()
	return current, nil
}

func (r *memoryBookingRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Booking, error) {
	return r.list(func(b *entity.Booking) bool { return b.UserID == userID }), nil
}

func (r *memoryBookingRepository) ListByEstablishment(ctx context.Context, establishmentID string) ([]*entity.Booking, error) {
	return r.list(func(b *entity.Booking) bool { return b.EstablishmentID == establishmentID }), nil
}

func (r *memoryBookingRepository) Delete(ctx context.Context, id string) error {
	e, err := r.lockEntry(id)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *memoryBookingRepository) list(match func(*entity.Booking) bool) []*entity.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Booking, 0)
	for _, e := range r.items {
		if match(e.booking) {
			out = append(out, e.booking.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
