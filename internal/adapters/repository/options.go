package repository

import (
	"io"

	"github.com/okian/cuju/pkg/logger"
)

// Columns names the header cells a CSVSource reads. Matching ignores case
// and surrounding whitespace.
type Columns struct {
	ID       string
	Score    string
	Interval string
	Votes    string
}

// DefaultColumns matches the leaderboard sheet export.
var DefaultColumns = Columns{
	ID:       "Model",
	Score:    "Score",
	Interval: "CI",
	Votes:    "votes",
}

// Option applies a configuration option to the CSVSource.
type Option func(*CSVSource)

// WithLogger sets the logger used for skipped-record warnings.
func WithLogger(l logger.Logger) Option {
	return func(s *CSVSource) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithColumns overrides the header names. Empty names keep the default.
func WithColumns(c Columns) Option {
	return func(s *CSVSource) {
		if c.ID != "" {
			s.columns.ID = c.ID
		}
		if c.Score != "" {
			s.columns.Score = c.Score
		}
		if c.Interval != "" {
			s.columns.Interval = c.Interval
		}
		if c.Votes != "" {
			s.columns.Votes = c.Votes
		}
	}
}

// WithComma sets the field delimiter, e.g. ';' or '\t'.
func WithComma(r rune) Option {
	return func(s *CSVSource) {
		if r != 0 && r != '"' && r != '\r' && r != '\n' {
			s.comma = r
		}
	}
}

// WithStdin sets the reader used when the path is "-".
func WithStdin(r io.Reader) Option {
	return func(s *CSVSource) {
		if r != nil {
			s.stdin = r
		}
	}
}
