package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	domainErrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/errors"
	domainRepo "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/repository"
)

// PendingKeyPrefix namespaces pending payment requests in Redis.
const PendingKeyPrefix = "payment:pending:"

type redisPendingRegistry struct {
	client    redis.UniversalClient
	retention time.Duration
	logger    *zap.Logger
}

// NewRedisPendingRegistry stores pending requests as JSON values. Keys live
// until the request expires plus retention, so a late verification attempt
// still reports EXPIRED instead of UNKNOWN_REFERENCE.
func NewRedisPendingRegistry(client redis.UniversalClient, retention time.Duration, logger *zap.Logger) domainRepo.PendingPaymentRegistry {
	return &redisPendingRegistry{client: client, retention: retention, logger: logger}
}

func pendingKey(ref string) string {
	return PendingKeyPrefix + ref
}

func (r *redisPendingRegistry) Put(ctx context.Context, req *entity.PaymentRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal payment request: %w", err)
	}

	ttl := req.ExpiresAt.Sub(req.CreatedAt) + r.retention
	if ttl <= 0 {
		ttl = r.retention
	}
	if err := r.client.Set(ctx, pendingKey(req.TransactionRef), data, ttl).Err(); err != nil {
		r.logger.Error("Redis set failed", zap.String("transaction_ref", req.TransactionRef), zap.Error(err))
		return fmt.Errorf("failed to store payment request: %w", err)
	}
	return nil
}

func (r *redisPendingRegistry) Get(ctx context.Context, ref string) (*entity.PaymentRequest, error) {
	data, err := r.client.Get(ctx, pendingKey(ref)).Bytes()
	return r.decode(ref, data, err)
}

func (r *redisPendingRegistry) Take(ctx context.Context, ref string) (*entity.PaymentRequest, error) {
	data, err := r.client.GetDel(ctx, pendingKey(ref)).Bytes()
	return r.decode(ref, data, err)
}

func (r *redisPendingRegistry) Remove(ctx context.Context, ref string) error {
	if err := r.client.Del(ctx, pendingKey(ref)).Err(); err != nil {
		r.logger.Error("Redis delete failed", zap.String("transaction_ref", ref), zap.Error(err))
		return fmt.Errorf("failed to remove payment request: %w", err)
	}
	return nil
}

func (r *redisPendingRegistry) List(ctx context.Context, match func(*entity.PaymentRequest) bool) ([]*entity.PaymentRequest, error) {
	var out []*entity.PaymentRequest
	iter := r.client.Scan(ctx, 0, PendingKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := r.client.Get(ctx, key).Bytes()
		req, err := r.decode(key, data, err)
		if errors.Is(err, domainErrors.ErrPaymentRequestNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if match == nil || match(req) {
			out = append(out, req)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan payment requests: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *redisPendingRegistry) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	expired, err := r.List(ctx, func(req *entity.PaymentRequest) bool { return req.IsExpired(now) })
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}
	keys := make([]string, 0, len(expired))
	for _, req := range expired {
		keys = append(keys, pendingKey(req.TransactionRef))
	}
	n, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to purge payment requests: %w", err)
	}
	return int(n), nil
}

func (r *redisPendingRegistry) decode(ref string, data []byte, err error) (*entity.PaymentRequest, error) {
	if errors.Is(err, redis.Nil) {
		return nil, domainErrors.ErrPaymentRequestNotFound
	}
	if err != nil {
		r.logger.Error("Redis get failed", zap.String("key", ref), zap.Error(err))
		return nil, fmt.Errorf("failed to load payment request: %w", err)
	}
	var req entity.PaymentRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to decode payment request %s: %w", ref, err)
	}
	return &req, nil
}
