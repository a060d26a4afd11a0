package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/okian/cuju/internal/domain/model"
	"github.com/okian/cuju/pkg/logger"
	"github.com/okian/cuju/pkg/metrics"
)

// StdinPath makes a CSVSource read from standard input.
const StdinPath = "-"

// Skip reasons, used as the records_skipped_total label.
const (
	reasonMalformedRow    = "malformed_row"
	reasonEmptyID         = "empty_id"
	reasonInvalidScore    = "invalid_score"
	reasonInvalidInterval = "invalid_interval"
	reasonInvalidVotes    = "invalid_votes"
	reasonInvalidItem     = "invalid_item"
	reasonDuplicateID     = "duplicate_id"
)

// CSVSource loads items from a CSV file with a header row.
// Malformed records are skipped with a warning and never returned.
type CSVSource struct {
	path    string
	columns Columns
	comma   rune
	logger  logger.Logger
	stdin   io.Reader
}

// NewCSVSource creates a source reading path ("-" for stdin).
func NewCSVSource(path string, opts ...Option) *CSVSource {
	s := &CSVSource{
		path:    path,
		columns: DefaultColumns,
		comma:   ',',
		logger:  logger.Nop(),
		stdin:   os.Stdin,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the configured source location.
func (s *CSVSource) Path() string { return s.path }

// Load reads and validates every record.
func (s *CSVSource) Load(ctx context.Context) ([]model.Item, error) {
	if s.path == StdinPath {
		return s.LoadReader(ctx, s.stdin)
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenSource, err)
	}
	defer func() { _ = f.Close() }()
	return s.LoadReader(ctx, f)
}

type columnIndex struct {
	id, score, interval, votes int
}

// LoadReader reads CSV records from r.
func (s *CSVSource) LoadReader(ctx context.Context, r io.Reader) ([]model.Item, error) {
	cr := csv.NewReader(r)
	cr.Comma = s.comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no header row in %s", ErrMissingColumn, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSource, err)
	}
	idx, err := s.resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var (
		items   []model.Item
		seen    = make(map[string]struct{})
		skipped int
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load cancelled: %w", err)
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				skipped++
				s.skip(ctx, perr.Line, reasonMalformedRow, err)
				continue
			}
			return nil, fmt.Errorf("%w: %w", ErrReadSource, err)
		}
		line, _ := cr.FieldPos(0)

		it, reason, err := parseRecord(rec, idx)
		if err == nil {
			if _, dup := seen[it.ID]; dup {
				reason, err = reasonDuplicateID, fmt.Errorf("id %q already loaded", it.ID)
			}
		}
		if err != nil {
			skipped++
			s.skip(ctx, line, reason, err)
			continue
		}
		seen[it.ID] = struct{}{}
		items = append(items, it)
	}

	s.logger.Info(ctx, "items loaded",
		logger.String("path", s.path),
		logger.Int("items", len(items)),
		logger.Int("skipped", skipped),
	)
	return items, nil
}

func (s *CSVSource) skip(ctx context.Context, line int, reason string, err error) {
	metrics.RecordRecordSkipped(reason)
	s.logger.Warn(ctx, "skipping malformed record",
		logger.String("path", s.path),
		logger.Int("line", line),
		logger.String("reason", reason),
		logger.Error(err),
	)
}

func (s *CSVSource) resolveColumns(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := pos[key]; !ok {
			pos[key] = i
		}
	}
	find := func(name string) (int, error) {
		i, ok := pos[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		return i, nil
	}

	var (
		idx columnIndex
		err error
	)
	if idx.id, err = find(s.columns.ID); err != nil {
		return idx, err
	}
	if idx.score, err = find(s.columns.Score); err != nil {
		return idx, err
	}
	if idx.interval, err = find(s.columns.Interval); err != nil {
		return idx, err
	}
	if idx.votes, err = find(s.columns.Votes); err != nil {
		return idx, err
	}
	return idx, nil
}

func parseRecord(rec []string, idx columnIndex) (model.Item, string, error) {
	field := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	id := field(idx.id)
	if id == "" {
		return model.Item{}, reasonEmptyID, model.ErrEmptyID
	}
	score, err := strconv.ParseFloat(field(idx.score), 64)
	if err != nil {
		return model.Item{}, reasonInvalidScore, fmt.Errorf("score: %w", err)
	}
	high, low, err := ParseInterval(field(idx.interval))
	if err != nil {
		return model.Item{}, reasonInvalidInterval, err
	}
	votes, err := parseVotes(field(idx.votes))
	if err != nil {
		return model.Item{}, reasonInvalidVotes, err
	}
	it, err := model.NewItem(id, score, high, low, votes)
	if err != nil {
		return model.Item{}, reasonInvalidItem, err
	}
	return it, "", nil
}

// parseVotes accepts integers and integral floats such as "12.0", which
// spreadsheet exports emit for numeric columns.
func parseVotes(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("votes: %w", model.ErrNegativeVotes)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt32 {
		return 0, fmt.Errorf("votes: %q is not a non-negative integer", s)
	}
	if f < 0 {
		return 0, fmt.Errorf("votes: %w", model.ErrNegativeVotes)
	}
	return int(f), nil
}
