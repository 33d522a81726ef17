package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/spec-kit/chat-service/internal/domain"
)

const defaultPendingPrefix = "chat:pending"

// RedisPendingStore shares pending registrations between service replicas.
//
// Layout:
//
//	<prefix>:reg:<tempId>   JSON entry
//	<prefix>:email:<email>  set of temp ids for the email
//	<prefix>:expiry         sorted set of temp ids scored by expiry (unix millis)
//
// Keys outlive the OTP window by the retention period so a late verification
// still observes "expired" rather than "not found".
type RedisPendingStore struct {
	client    *red.Client
	prefix    string
	retention time.Duration
	now       func() time.Time
}

// NewRedisPendingStore constructs the store. A non-positive retention defaults to 24h.
func NewRedisPendingStore(client *red.Client, keyPrefix string, retention time.Duration) *RedisPendingStore {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultPendingPrefix
	}
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &RedisPendingStore{client: client, prefix: prefix, retention: retention, now: time.Now}
}

// WithClock overrides the internal clock, used in tests.
func (s *RedisPendingStore) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

func (s *RedisPendingStore) Save(ctx context.Context, reg domain.PendingRegistration) error {
	if strings.TrimSpace(reg.TempID) == "" {
		return errors.New("temp id is required")
	}
	raw, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("marshal pending registration: %w", err)
	}

	ttl := reg.OTPExpiresAt.Sub(s.now()) + s.retention
	if ttl <= 0 {
		ttl = s.retention
	}

	emailKey := s.emailKey(reg.Email)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.regKey(reg.TempID), raw, ttl)
	pipe.SAdd(ctx, emailKey, reg.TempID)
	pipe.Expire(ctx, emailKey, ttl)
	pipe.ZAdd(ctx, s.expiryKey(), red.Z{Score: float64(reg.OTPExpiresAt.UnixMilli()), Member: reg.TempID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save pending registration: %w", err)
	}
	return nil
}

func (s *RedisPendingStore) Get(ctx context.Context, tempID string) (*domain.PendingRegistration, error) {
	raw, err := s.client.Get(ctx, s.regKey(tempID)).Bytes()
	if errors.Is(err, red.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get pending registration: %w", err)
	}
	var reg domain.PendingRegistration
	if err := json.Unmarshal(raw, &reg); err != nil {
		return nil, fmt.Errorf("unmarshal pending registration: %w", err)
	}
	return &reg, nil
}

func (s *RedisPendingStore) Delete(ctx context.Context, tempID string) error {
	reg, err := s.Get(ctx, tempID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.regKey(tempID))
	pipe.ZRem(ctx, s.expiryKey(), tempID)
	if reg != nil {
		pipe.SRem(ctx, s.emailKey(reg.Email), tempID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis delete pending registration: %w", err)
	}
	return nil
}

func (s *RedisPendingStore) FindByEmail(ctx context.Context, email string) ([]domain.PendingRegistration, error) {
	emailKey := s.emailKey(email)
	ids, err := s.client.SMembers(ctx, emailKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers pending email: %w", err)
	}

	var out []domain.PendingRegistration
	for _, id := range ids {
		reg, err := s.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			_ = s.client.SRem(ctx, emailKey, id).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *reg)
	}
	return out, nil
}

func (s *RedisPendingStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.client.ZRangeByScore(ctx, s.expiryKey(), &red.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("redis zrangebyscore pending expiry: %w", err)
	}
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

func (s *RedisPendingStore) regKey(tempID string) string {
	return fmt.Sprintf("%s:reg:%s", s.prefix, tempID)
}

func (s *RedisPendingStore) emailKey(email string) string {
	return fmt.Sprintf("%s:email:%s", s.prefix, email)
}

func (s *RedisPendingStore) expiryKey() string {
	return s.prefix + ":expiry"
}
