package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrIdempotencyInFlight is returned when a key was reserved by a request
// that has not finished yet.
var ErrIdempotencyInFlight = errors.New("request with this idempotency key is still in flight")

const (
	idemKeyPrefix     = "booking:idem:"
	idemPendingMarker = "pending"
	idemKeyTTL        = 24 * time.Hour
)

// IdempotencyStore makes booking submission retry-safe: a client replaying
// the same Idempotency-Key gets the original booking back instead of a
// second dispatch.
type IdempotencyStore interface {
	// Reserve claims the key. reserved=true means the caller owns it and
	// must later call Complete or Release. reserved=false returns the
	// booking id recorded by the original request.
	Reserve(ctx context.Context, userID uuid.UUID, key string) (bookingID int64, reserved bool, err error)
	Complete(ctx context.Context, userID uuid.UUID, key string, bookingID int64) error
	Release(ctx context.Context, userID uuid.UUID, key string) error
}

type idempotencyStore struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewIdempotencyStore(redisClient *redis.Client, log *logrus.Logger) IdempotencyStore {
	return &idempotencyStore{redisClient: redisClient, log: log}
}

func (s *idempotencyStore) Reserve(ctx context.Context, userID uuid.UUID, key string) (int64, bool, error) {
	redisKey := idemKey(userID, key)

	ok, err := s.redisClient.SetNX(ctx, redisKey, idemPendingMarker, idemKeyTTL).Result()
	if err != nil {
		return 0, false, fmt.Errorf("reserve idempotency key: %w", err)
	}
	if ok {
		return 0, true, nil
	}

	val, err := s.redisClient.Get(ctx, redisKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Key expired between SETNX and GET; treat as in flight and let
			// the client retry.
			return 0, false, ErrIdempotencyInFlight
		}
		return 0, false, fmt.Errorf("read idempotency key: %w", err)
	}
	if val == idemPendingMarker {
		return 0, false, ErrIdempotencyInFlight
	}

	bookingID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		s.log.Warnf("Malformed idempotency value %q for key %s", val, redisKey)
		return 0, false, ErrIdempotencyInFlight
	}
	return bookingID, false, nil
}

func (s *idempotencyStore) Complete(ctx context.Context, userID uuid.UUID, key string, bookingID int64) error {
	err := s.redisClient.Set(ctx, idemKey(userID, key), bookingID, idemKeyTTL).Err()
	if err != nil {
		return fmt.Errorf("complete idempotency key: %w", err)
	}
	return nil
}

func (s *idempotencyStore) Release(ctx context.Context, userID uuid.UUID, key string) error {
	if err := s.redisClient.Del(ctx, idemKey(userID, key)).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}

func idemKey(userID uuid.UUID, key string) string {
	return fmt.Sprintf("%s%s:%s", idemKeyPrefix, userID.String(), key)
}
