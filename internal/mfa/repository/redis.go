package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"freightdesk/backend/internal/mfa/domain"
)

const (
	codeKeyPrefix   = "verification:code:"
	issuedKeyPrefix = "verification:issued:"

	maxWatchRetries = 5

	// DefaultHistoryRetention bounds how long issuance history is kept per phone.
	DefaultHistoryRetention = 24 * time.Hour
)

// ErrConcurrentUpdate is returned when an optimistic Redis transaction keeps conflicting.
var ErrConcurrentUpdate = errors.New("verification code concurrently modified")

// RedisRepository keeps the newest code per phone under verification:code:<phone>
// with a TTL matching its expiry, and the issuance history in the sorted set
// verification:issued:<phone> scored by creation time. Older codes are superseded
// by overwrite.
type RedisRepository struct {
	rdb       *redis.Client
	retention time.Duration
}

// NewRedisRepository returns a verification code repository backed by rdb.
// retention <= 0 uses DefaultHistoryRetention.
func NewRedisRepository(rdb *redis.Client, retention time.Duration) *RedisRepository {
	if retention <= 0 {
		retention = DefaultHistoryRetention
	}
	return &RedisRepository{rdb: rdb, retention: retention}
}

type redisCode struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	CodeHash  string    `json:"code_hash"`
	Attempts  int       `json:"attempts"`
	Consumed  bool      `json:"consumed"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toRedisCode(c *domain.VerificationCode) redisCode {
	return redisCode{
		ID: c.ID, Phone: c.Phone, CodeHash: c.CodeHash, Attempts: c.Attempts,
		Consumed: c.Consumed, CreatedAt: c.CreatedAt, ExpiresAt: c.ExpiresAt,
	}
}

func (rc redisCode) toDomain() *domain.VerificationCode {
	return &domain.VerificationCode{
		ID: rc.ID, Phone: rc.Phone, CodeHash: rc.CodeHash, Attempts: rc.Attempts,
		Consumed: rc.Consumed, CreatedAt: rc.CreatedAt, ExpiresAt: rc.ExpiresAt,
	}
}

// ReplaceActive overwrites the phone's code and records the issuance in one MULTI/EXEC.
func (r *RedisRepository) ReplaceActive(ctx context.Context, c *domain.VerificationCode) error {
	data, err := json.Marshal(toRedisCode(c))
	if err != nil {
		return err
	}
	ttl := time.Until(c.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Millisecond
	}
	hk := issuedKeyPrefix + c.Phone
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, codeKeyPrefix+c.Phone, data, ttl)
		pipe.ZAdd(ctx, hk, redis.Z{Score: float64(c.CreatedAt.UnixMilli()), Member: c.ID})
		pipe.Expire(ctx, hk, r.retention)
		return nil
	})
	return err
}

// Attempt applies the attempt under WATCH so concurrent attempts cannot both pass.
func (r *RedisRepository) Attempt(ctx context.Context, phone, codeHash string, maxAttempts int, now time.Time) (domain.AttemptResult, error) {
	key := codeKeyPrefix + phone
	for i := 0; i < maxWatchRetries; i++ {
		result := domain.AttemptNoActiveCode
		err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
			raw, err := tx.Get(ctx, key).Bytes()
			if err == redis.Nil {
				return nil
			}
			if err != nil {
				return err
			}
			var rc redisCode
			if err := json.Unmarshal(raw, &rc); err != nil {
				return fmt.Errorf("decode code: %w", err)
			}
			c := rc.toDomain()
			result = domain.Apply(c, codeHash, maxAttempts, now)
			if result != domain.AttemptMismatch && result != domain.AttemptMatched {
				return nil
			}
			data, err := json.Marshal(toRedisCode(c))
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, data, redis.KeepTTL)
				return nil
			})
			return err
		}, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return domain.AttemptNoActiveCode, err
		}
		return result, nil
	}
	return domain.AttemptNoActiveCode, ErrConcurrentUpdate
}

// GetLatest returns the phone's current code, or nil once it has expired or been removed.
func (r *RedisRepository) GetLatest(ctx context.Context, phone string) (*domain.VerificationCode, error) {
	raw, err := r.rdb.Get(ctx, codeKeyPrefix+phone).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rc redisCode
	if err := json.Unmarshal(raw, &rc); err != nil {
		return nil, fmt.Errorf("decode code: %w", err)
	}
	return rc.toDomain(), nil
}

// DeleteByPhone removes the phone's code and issuance history.
func (r *RedisRepository) DeleteByPhone(ctx context.Context, phone string) error {
	return r.rdb.Del(ctx, codeKeyPrefix+phone, issuedKeyPrefix+phone).Err()
}

// CountCreatedSince counts issuances recorded for phone at or after since.
func (r *RedisRepository) CountCreatedSince(ctx context.Context, phone string, since time.Time) (int, error) {
	n, err := r.rdb.ZCount(ctx, issuedKeyPrefix+phone, strconv.FormatInt(since.UnixMilli(), 10), "+inf").Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// DeleteStale trims issuance history older than before. Code keys expire on their own.
func (r *RedisRepository) DeleteStale(ctx context.Context, before, _ time.Time) (int64, error) {
	var removed int64
	upper := "(" + strconv.FormatInt(before.UnixMilli(), 10)
	iter := r.rdb.Scan(ctx, 0, issuedKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n, err := r.rdb.ZRemRangeByScore(ctx, iter.Val(), "-inf", upper).Result()
		if err != nil {
			return removed, err
		}
		removed += n
	}
	return removed, iter.Err()
}
