// Package service wires the item source and the match selector together
// for the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	repository "github.com/okian/cuju/internal/adapters/repository"
	"github.com/okian/cuju/internal/domain/model"
	"github.com/okian/cuju/internal/domain/selection"
	"github.com/okian/cuju/internal/domain/types"
	"github.com/okian/cuju/pkg/logger"
	"github.com/okian/cuju/pkg/metrics"
)

// Selection error reasons, used as the selection_errors_total label.
const (
	reasonInsufficientItems = "insufficient_items"
	reasonDuplicateItem     = "duplicate_item"
	reasonUnknown           = "unknown"
)

// Service loads the working set once and hands out matches.
type Service struct {
	mu sync.Mutex

	// Core components
	source   repository.Source
	selector *selection.Selector

	// Configuration
	epsilon float64
	alpha   float64
	seed    int64
	rng     selection.Rand

	// State
	started    bool
	items      []model.Item
	runID      string
	rounds     int
	byStrategy map[selection.Strategy]int

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource sets where items are loaded from.
func WithSource(src repository.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithEpsilon sets the exploration probability.
func WithEpsilon(epsilon float64) Option {
	return func(s *Service) {
		s.epsilon = epsilon
	}
}

// WithAlpha sets the exploration power-law exponent.
func WithAlpha(alpha float64) Option {
	return func(s *Service) {
		s.alpha = alpha
	}
}

// WithSeed seeds the random source. Zero seeds from the clock.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithRand injects the random source; it takes precedence over WithSeed.
func WithRand(r selection.Rand) Option {
	return func(s *Service) {
		if r != nil {
			s.rng = r
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		epsilon:    selection.DefaultEpsilon,
		alpha:      selection.DefaultAlpha,
		runID:      uuid.NewString(),
		byStrategy: make(map[selection.Strategy]int),
		logger:     nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the working set and builds the selector. Calling it again is
// a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.source == nil {
		return ErrNoSource
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}
	log := s.logger.With(logger.String("run_id", s.runID))
	log.Info(ctx, "starting arena service...")

	items, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadItems, err)
	}
	s.items = items
	metrics.UpdateItemsLoaded(len(items))

	rng := s.rng
	if rng == nil {
		if s.seed == 0 {
			s.seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(s.seed)) //nolint:gosec // match sampling, not security
	}
	s.selector = selection.New(
		selection.WithEpsilon(s.epsilon),
		selection.WithAlpha(s.alpha),
		selection.WithRand(rng),
	)

	s.logger = log
	s.started = true
	s.logger.Info(ctx, "arena service started",
		logger.Int("items", len(items)),
		logger.Float64("epsilon", s.selector.Epsilon()),
		logger.Float64("alpha", s.selector.Alpha()),
		logger.Any("seed", s.seed),
	)

	return nil
}

// NextMatch selects one pairing from the loaded items.
func (s *Service) NextMatch(ctx context.Context) (types.Pairing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return types.Pairing{}, ErrNotStarted
	}
	return s.next(ctx)
}

// Simulate performs n independent selections over the same working set.
// Nothing is fed back between rounds.
func (s *Service) Simulate(ctx context.Context, n int) ([]types.Pairing, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRounds, n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil, ErrNotStarted
	}

	out := make([]types.Pairing, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("simulation cancelled: %w", err)
		}
		p, err := s.next(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// next must be called with s.mu held.
func (s *Service) next(ctx context.Context) (types.Pairing, error) {
	start := time.Now()
	m, err := s.selector.Select(s.items)
	if err != nil {
		reason := selectionErrorReason(err)
		metrics.RecordSelectionError(reason)
		s.logger.Error(ctx, "match selection failed",
			logger.String("reason", reason),
			logger.Error(err),
		)
		return types.Pairing{}, fmt.Errorf("select match: %w", err)
	}
	metrics.RecordSelection(string(m.Strategy), float64(time.Since(start).Microseconds())/1000)

	switch m.Strategy {
	case selection.StrategyStudentTeacher:
		metrics.RecordStudentVotes(int(m.Detail))
	case selection.StrategyClusterBuster:
		metrics.RecordAmbiguity(m.Detail)
	}

	s.rounds++
	s.byStrategy[m.Strategy]++

	s.logger.Debug(ctx, "match selected",
		logger.Int("round", s.rounds),
		logger.String("a", m.A),
		logger.String("b", m.B),
		logger.String("strategy", string(m.Strategy)),
		logger.Float64("detail", m.Detail),
	)

	return types.Pairing{
		Round:    s.rounds,
		A:        m.A,
		B:        m.B,
		Strategy: string(m.Strategy),
		Reason:   m.Label,
		Detail:   m.Detail,
	}, nil
}

// Board returns the loaded items ranked by score, highest first. Equal
// scores are ordered by item id.
func (s *Service) Board(_ context.Context) ([]types.Entry, error) {
	s.mu.Lock()
	items := make([]model.Item, len(s.items))
	copy(items, s.items)
	started := s.started
	s.mu.Unlock()

	if !started {
		return nil, ErrNotStarted
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})

	entries := make([]types.Entry, len(items))
	for i, it := range items {
		entries[i] = types.Entry{
			Rank:   i + 1,
			ItemID: it.ID,
			Score:  it.Score,
			Lower:  it.Lower,
			Upper:  it.Upper,
			Width:  it.Width(),
			Votes:  it.Votes,
		}
	}
	return entries, nil
}

// RunID returns the identifier attached to this service's logs and output.
func (s *Service) RunID() string {
	return s.runID
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[string]interface{}{
		"started": s.started,
		"runId":   s.runID,
		"epsilon": s.epsilon,
		"alpha":   s.alpha,
	}

	if s.started {
		byStrategy := make(map[string]int, len(s.byStrategy))
		for k, v := range s.byStrategy {
			byStrategy[string(k)] = v
		}
		stats["items"] = len(s.items)
		stats["rounds"] = s.rounds
		stats["byStrategy"] = byStrategy
		stats["seed"] = s.seed
	}

	return stats
}

func selectionErrorReason(err error) string {
	switch {
	case errors.Is(err, selection.ErrInsufficientItems):
		return reasonInsufficientItems
	case errors.Is(err, selection.ErrDuplicateItem):
		return reasonDuplicateItem
	default:
		return reasonUnknown
	}
}
