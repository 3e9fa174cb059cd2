package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// DeliveryLeaseStore implements ports.DeliveryLeaseStore using Redis SET NX.
//
// A lease claims one webhook event for the duration of a delivery attempt
// so overlapping worker passes never double-process a record. The TTL
// bounds how long a crashed pass can hold a claim.
type DeliveryLeaseStore struct {
	client *goredis.Client
	prefix string
}

// NewDeliveryLeaseStore creates a new Redis-backed lease store.
func NewDeliveryLeaseStore(client *goredis.Client) *DeliveryLeaseStore {
	return &DeliveryLeaseStore{
		client: client,
		prefix: "webhook:lease:",
	}
}

// Acquire attempts to claim the event. Returns true if the lease was
// obtained, false if another pass already holds it.
func (s *DeliveryLeaseStore) Acquire(ctx context.Context, eventID uuid.UUID, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.prefix+eventID.String(), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis lease acquire: %w", err)
	}
	return ok, nil
}

// Release frees the lease once the attempt outcome is persisted.
func (s *DeliveryLeaseStore) Release(ctx context.Context, eventID uuid.UUID) error {
	if err := s.client.Del(ctx, s.prefix+eventID.String()).Err(); err != nil {
		return fmt.Errorf("redis lease release: %w", err)
	}
	return nil
}
