package service

import (
	"context"
	"fmt"
	"time"

	"jrcts-claim-tracker/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// RedisResiKeyPrefix is followed by the dated code prefix, e.g.
	// resi:counter:JR-CTS-20240101
	RedisResiKeyPrefix = "resi:counter:"

	// Daily counters outlive their day so late retries still see them.
	resiCounterTTL = 48 * time.Hour
)

// nextResiScript seeds the daily counter from the highest stored sequence
// the first time a day is seen, then increments it. Both steps run atomically so
// concurrent registrations never share a sequence number.
//
// KEYS[1] counter key, ARGV[1] highest stored sequence, ARGV[2] TTL seconds
var nextResiScript = redis.NewScript(`
	redis.call('SET', KEYS[1], ARGV[1], 'NX', 'EX', ARGV[2])
	return redis.call('INCR', KEYS[1])
`)

// =============================================================================
// Types
// =============================================================================

// ResiService issues tracking codes of the form <PREFIX>-<YYYYMMDD>-<n>.
//
// Without Redis, n is one more than the highest sequence already issued
// today, plus the retry attempt. Deleted claims leave gaps that are never
// reused. The lookup is not safe against concurrent registrations; the
// unique index on tracking_code rejects the loser and the caller retries
// with the next attempt number.
type ResiService struct {
	redisClient *redis.Client
	claimRepo   repository.ClaimRepository
	log         *logrus.Logger
	prefix      string
	now         func() time.Time
}

// =============================================================================
// Constructor
// =============================================================================

// NewResiService creates a ResiService. redisClient may be nil.
func NewResiService(redisClient *redis.Client, claimRepo repository.ClaimRepository, log *logrus.Logger, prefix string) *ResiService {
	return &ResiService{
		redisClient: redisClient,
		claimRepo:   claimRepo,
		log:         log,
		prefix:      prefix,
		now:         time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *ResiService) WithClock(now func() time.Time) *ResiService {
	s.now = now
	return s
}

// =============================================================================
// Public Methods
// =============================================================================

// DatePrefix returns today's code prefix, e.g. JR-CTS-20240101.
func (s *ResiService) DatePrefix() string {
	return fmt.Sprintf("%s-%s", s.prefix, s.now().Format("20060102"))
}

// Next returns a new tracking code. attempt is 0 on the first try and is
// increased by the caller after a tracking-code collision.
func (s *ResiService) Next(ctx context.Context, db *gorm.DB, attempt int) (string, error) {
	prefix := s.DatePrefix()

	highest, err := s.claimRepo.MaxTrackingSequence(db, prefix)
	if err != nil {
		s.log.Warnf("Failed to read tracking sequence for %s: %+v", prefix, err)
		return "", fmt.Errorf("read tracking sequence for %s: %w", prefix, err)
	}

	seq := highest + 1 + int64(attempt)

	if s.redisClient != nil {
		n, err := s.nextFromRedis(ctx, prefix, highest)
		if err != nil {
			// The stored sequence is still a valid source, only less race-safe.
			s.log.Warnf("Redis resi counter unavailable for %s, using stored sequence: %+v", prefix, err)
		} else {
			seq = n
		}
	}

	return fmt.Sprintf("%s-%d", prefix, seq), nil
}

// =============================================================================
// Private Helper Methods
// =============================================================================

func (s *ResiService) nextFromRedis(ctx context.Context, prefix string, highest int64) (int64, error) {
	key := RedisResiKeyPrefix + prefix
	ttlSeconds := int64(resiCounterTTL / time.Second)

	n, err := nextResiScript.Run(ctx, s.redisClient, []string{key}, highest, ttlSeconds).Int64()
	if err != nil {
		return 0, fmt.Errorf("lua next_resi for %s: %w", prefix, err)
	}

	s.log.Debugf("Reserved resi sequence %d for %s", n, prefix)
	return n, nil
}
