package session

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voxcards/backend/internal/shared"
)

const (
	sessionTTL = 24 * time.Hour
	metricsTTL = 24 * time.Hour
)

type Store struct {
	redis *redis.Client
}

func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient}
}

func (s *Store) Create(ctx context.Context, sess *StudySession) error {
	if sess.ID == "" {
		sess.ID = shared.NewID("study_")
	}
	sess.Status = StatusActive
	sess.StartedAt = time.Now()
	sess.LastActiveAt = sess.StartedAt
	return s.save(ctx, sess)
}

func (s *Store) Get(ctx context.Context, id string) (*StudySession, error) {
	data, err := s.redis.Get(ctx, "study:"+id).Bytes()
	if err == redis.Nil {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess StudySession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) Update(ctx context.Context, sess *StudySession) error {
	sess.LastActiveAt = time.Now()
	return s.save(ctx, sess)
}

func (s *Store) save(ctx context.Context, sess *StudySession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, sess.RedisKey(), data, sessionTTL).Err()
}

func (s *Store) End(ctx context.Context, id string, status Status) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	sess.Status = status
	return s.Update(ctx, sess)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	pipe := s.redis.Pipeline()
	pipe.Del(ctx, "study:"+id)
	pipe.Del(ctx, MetricsRedisKey(id))
	_, err := pipe.Exec(ctx)
	return err
}

// SetPreviousCard records the card just shown so the next pick can exclude
// it.
func (s *Store) SetPreviousCard(ctx context.Context, id, cardID string) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	sess.PreviousCardID = cardID
	return s.Update(ctx, sess)
}

func (s *Store) IncrementMetric(ctx context.Context, sessionID, field string, value int64) error {
	key := MetricsRedisKey(sessionID)
	pipe := s.redis.Pipeline()
	pipe.HIncrBy(ctx, key, field, value)
	pipe.Expire(ctx, key, metricsTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// RecordFrameStats overwrites the frame counters with the sampler's current
// totals. The sampler owns the counting; redis only mirrors it for the
// metrics endpoint.
func (s *Store) RecordFrameStats(ctx context.Context, sessionID string, sent, skipped int64) error {
	key := MetricsRedisKey(sessionID)
	pipe := s.redis.Pipeline()
	pipe.HSet(ctx, key, MetricFramesSent, sent, MetricFramesSkipped, skipped)
	pipe.Expire(ctx, key, metricsTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) GetMetrics(ctx context.Context, sessionID string) (*Metrics, error) {
	data, err := s.redis.HGetAll(ctx, MetricsRedisKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}

	m := &Metrics{SessionID: sessionID}
	for field, dst := range map[string]*int64{
		MetricCardsShown:    &m.CardsShown,
		MetricCardsRated:    &m.CardsRated,
		MetricFramesSent:    &m.FramesSent,
		MetricFramesSkipped: &m.FramesSkipped,
	} {
		if v, ok := data[field]; ok {
			*dst, _ = strconv.ParseInt(v, 10, 64)
		}
	}
	return m, nil
}
