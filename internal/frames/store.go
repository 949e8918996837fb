package frames

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var errInvalidMember = errors.New("invalid frame member type")

// Record is one frame the sampler judged worth sending, kept briefly so the
// agents' peek_screen tool can answer "what is on screen right now".
type Record struct {
	SessionID string `json:"-"`
	Timestamp int64  `json:"timestamp"`
	SourceTag string `json:"source_tag"`
	DataURI   string `json:"data_uri"`
}

type Store struct {
	redis    *redis.Client
	frameTTL time.Duration
}

func NewStore(redisClient *redis.Client, frameTTL time.Duration) *Store {
	if frameTTL == 0 {
		frameTTL = 60 * time.Second
	}
	return &Store{
		redis:    redisClient,
		frameTTL: frameTTL,
	}
}

func frameKey(sessionID string) string {
	return "study:" + sessionID + ":frames"
}

func (s *Store) StoreFrame(ctx context.Context, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	pipe := s.redis.Pipeline()
	pipe.ZAdd(ctx, frameKey(rec.SessionID), redis.Z{
		Score:  float64(rec.Timestamp),
		Member: data,
	})
	pipe.Expire(ctx, frameKey(rec.SessionID), s.frameTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// GetLatest returns the newest stored frame for the session, or nil when
// none exist.
func (s *Store) GetLatest(ctx context.Context, sessionID string) (*Record, error) {
	results, err := s.redis.ZRevRangeWithScores(ctx, frameKey(sessionID), 0, 0).Result()
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return decodeMember(sessionID, results[0])
}

func (s *Store) GetRange(ctx context.Context, sessionID string, startTime, endTime int64, limit int) ([]*Record, error) {
	opt := &redis.ZRangeBy{
		Min:   strconv.FormatInt(startTime, 10),
		Max:   strconv.FormatInt(endTime, 10),
		Count: int64(limit),
	}

	results, err := s.redis.ZRangeByScoreWithScores(ctx, frameKey(sessionID), opt).Result()
	if err != nil {
		return nil, err
	}

	recs := make([]*Record, 0, len(results))
	for _, r := range results {
		rec, err := decodeMember(sessionID, r)
		if err != nil {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (s *Store) DeleteFrames(ctx context.Context, sessionID string) error {
	return s.redis.Del(ctx, frameKey(sessionID)).Err()
}

func decodeMember(sessionID string, z redis.Z) (*Record, error) {
	data, ok := z.Member.(string)
	if !ok {
		return nil, errInvalidMember
	}
	var rec Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, err
	}
	rec.SessionID = sessionID
	return &rec, nil
}
