/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package halloffame keeps the best finished rounds in Redis.
package halloffame

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	DefaultPrefix = "millionaire"
	DefaultLimit  = 100
)

// Entry is one finished round.
type Entry struct {
	ID       uuid.UUID       `json:"id"`
	Game     string          `json:"game"`
	Lang     string          `json:"lang"`
	Outcome  string          `json:"outcome"`
	Question int             `json:"question"`
	Amount   decimal.Decimal `json:"amount"`
	Display  string          `json:"display"`
	Time     time.Time       `json:"time"`
}

type Config struct {
	Redis  redis.UniversalClient
	Prefix string
	// Limit is the number of entries kept per language. Zero means
	// DefaultLimit.
	Limit int64
	Now   func() time.Time
}

type Service struct {
	redis  redis.UniversalClient
	prefix string
	limit  int64
	now    func() time.Time
}

func NewService(c Config) *Service {
	s := &Service{
		redis:  c.Redis,
		prefix: c.Prefix,
		limit:  c.Limit,
		now:    c.Now,
	}

	if s.prefix == "" {
		s.prefix = DefaultPrefix
	}
	if s.limit <= 0 {
		s.limit = DefaultLimit
	}
	if s.now == nil {
		s.now = time.Now
	}

	return s
}

// Record stores e, ranked by amount among the entries of its language, and
// drops the entries falling out of the ranking.
func (s *Service) Record(ctx context.Context, e Entry) (Entry, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Entry{}, fmt.Errorf("new entry id: %w", err)
	}

	e.ID = id
	e.Time = s.now().UTC()

	b, err := json.Marshal(e)
	if err != nil {
		return Entry{}, fmt.Errorf("marshal entry: %w", err)
	}

	if _, err := s.redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, s.entriesKey(), id.String(), b)
		p.ZAdd(ctx, s.rankingKey(e.Lang), redis.Z{
			Score:  e.Amount.InexactFloat64(),
			Member: id.String(),
		})
		return nil
	}); err != nil {
		return Entry{}, fmt.Errorf("record entry: %w", err)
	}

	if err := s.trim(ctx, e.Lang); err != nil {
		return Entry{}, err
	}

	return e, nil
}

func (s *Service) trim(ctx context.Context, lang string) error {
	key := s.rankingKey(lang)

	dropped, err := s.redis.ZRange(ctx, key, 0, -s.limit-1).Result()
	if err != nil {
		return fmt.Errorf("trim ranking: %w", err)
	}
	if len(dropped) == 0 {
		return nil
	}

	members := make([]any, len(dropped))
	for i, id := range dropped {
		members[i] = id
	}

	if _, err := s.redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZRem(ctx, key, members...)
		p.HDel(ctx, s.entriesKey(), dropped...)
		return nil
	}); err != nil {
		return fmt.Errorf("trim ranking: %w", err)
	}

	return nil
}

// Top returns up to n entries of lang, best first.
func (s *Service) Top(ctx context.Context, lang string, n int64) ([]Entry, error) {
	if n <= 0 || n > s.limit {
		n = s.limit
	}

	ids, err := s.redis.ZRevRange(ctx, s.rankingKey(lang), 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("get ranking: %w", err)
	}

	entries := make([]Entry, 0, len(ids))
	if len(ids) == 0 {
		return entries, nil
	}

	values, err := s.redis.HMGet(ctx, s.entriesKey(), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("get entries: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}

		var e Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("decode entry %s: %w", ids[i], err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}

func (s *Service) rankingKey(lang string) string {
	return fmt.Sprintf("%s:halloffame:%s", s.prefix, lang)
}

func (s *Service) entriesKey() string {
	return fmt.Sprintf("%s:halloffame:entries", s.prefix)
}
