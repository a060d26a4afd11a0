// Package selection picks the next pair of items to compare head-to-head.
//
// A Selector mixes two strategies. With probability epsilon it explores:
// a low-vote "student" is drawn with power-law weights and paired with one
// of the most stable "teachers" (tightest confidence intervals). Otherwise it
// exploits: pairs whose confidence intervals overlap are drawn with weight
// overlap², and a uniform pair is returned when no intervals overlap.
//
// Selectors keep no state between calls apart from the random source.
package selection

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/okian/cuju/internal/domain/model"
)

// Defaults.
const (
	DefaultEpsilon    = 0.20
	DefaultAlpha      = 2.0
	defaultRandomSeed = 42
	anchorPoolSize    = 3
	minItems          = 2
)

// Strategy names the branch that produced a Match.
type Strategy string

// Strategies.
const (
	StrategyStudentTeacher Strategy = "student_teacher"
	StrategyClusterBuster  Strategy = "cluster_buster"
	StrategyRandom         Strategy = "random"
)

// Rand is the subset of *math/rand.Rand used for sampling.
type Rand interface {
	// Float64 returns a value in [0,1).
	Float64() float64
	// Intn returns a value in [0,n).
	Intn(n int) int
}

// Match is one suggested comparison.
type Match struct {
	A        string
	B        string
	Strategy Strategy
	// Label is a human-readable rationale, e.g. "Cluster-Buster (Ambiguity: 12)".
	Label string
	// Detail is the quantitative value echoed in Label: the student's votes
	// for Student-Teacher, the interval overlap for Cluster-Buster, 0 otherwise.
	Detail float64
}

// Selector chooses matches. It is not safe for concurrent use unless the
// injected Rand is.
type Selector struct {
	epsilon float64
	alpha   float64
	rng     Rand
}

// New creates a Selector. Without WithRand or WithSeed it uses a fixed seed,
// so two default selectors produce the same sequence.
func New(opts ...Option) *Selector {
	s := &Selector{
		epsilon: DefaultEpsilon,
		alpha:   DefaultAlpha,
		rng:     rand.New(rand.NewSource(defaultRandomSeed)), //nolint:gosec // reproducible by default
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Epsilon returns the exploration probability.
func (s *Selector) Epsilon() float64 { return s.epsilon }

// Alpha returns the exploration power-law exponent.
func (s *Selector) Alpha() float64 { return s.alpha }

// Select returns the next pair of distinct item ids to compare.
// items must hold at least two items with unique ids; it is never modified.
func (s *Selector) Select(items []model.Item) (Match, error) {
	if len(items) < minItems {
		return Match{}, &InsufficientItemsError{Got: len(items)}
	}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			return Match{}, fmt.Errorf("%w: %q", ErrDuplicateItem, it.ID)
		}
		seen[it.ID] = struct{}{}
	}

	// Exploration wins whenever the single draw lands below epsilon.
	if s.rng.Float64() < s.epsilon {
		return s.studentTeacher(items), nil
	}
	if m, ok := s.clusterBuster(items); ok {
		return m, nil
	}
	return s.uniformPair(items), nil
}

// ExplorationWeight returns 1/(votes+1)^alpha.
func ExplorationWeight(votes int, alpha float64) float64 {
	return 1 / math.Pow(float64(votes)+1, alpha)
}

// Overlap returns min(upper) - max(lower) of the two intervals. Values <= 0
// mean the intervals do not intersect.
func Overlap(a, b model.Item) float64 {
	return math.Min(a.Upper, b.Upper) - math.Max(a.Lower, b.Lower)
}

func (s *Selector) studentTeacher(items []model.Item) Match {
	weights := make([]float64, len(items))
	for i, it := range items {
		weights[i] = ExplorationWeight(it.Votes, s.alpha)
	}
	si := s.weightedIndex(weights)
	student := items[si]

	anchors := make([]model.Item, 0, len(items)-1)
	for i, it := range items {
		if i != si {
			anchors = append(anchors, it)
		}
	}
	sort.SliceStable(anchors, func(i, j int) bool {
		return anchors[i].Width() < anchors[j].Width()
	})
	if len(anchors) > anchorPoolSize {
		anchors = anchors[:anchorPoolSize]
	}
	teacher := anchors[s.rng.Intn(len(anchors))]

	return Match{
		A:        student.ID,
		B:        teacher.ID,
		Strategy: StrategyStudentTeacher,
		Label:    fmt.Sprintf("Student-Teacher (Student: %d votes, alpha=%g)", student.Votes, s.alpha),
		Detail:   float64(student.Votes),
	}
}

// weightedIndex draws an index proportionally to weights. It falls back to a
// uniform draw when the weights underflow to zero.
func (s *Selector) weightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		return s.rng.Intn(len(weights))
	}
	pick := s.rng.Float64() * total
	cum := 0.0
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		cum += w
		if cum > pick {
			return i
		}
	}
	return last
}

type candidate struct {
	a, b    model.Item
	overlap float64
	weight  float64
}

func (s *Selector) clusterBuster(items []model.Item) (Match, bool) {
	var (
		candidates []candidate
		total      float64
	)
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			ov := Overlap(items[i], items[j])
			if ov <= 0 {
				continue
			}
			w := ov * ov
			candidates = append(candidates, candidate{a: items[i], b: items[j], overlap: ov, weight: w})
			total += w
		}
	}
	if total <= 0 {
		return Match{}, false
	}

	pick := s.rng.Float64() * total
	chosen := candidates[len(candidates)-1]
	cum := 0.0
	for _, c := range candidates {
		cum += c.weight
		if cum >= pick {
			chosen = c
			break
		}
	}
	return Match{
		A:        chosen.a.ID,
		B:        chosen.b.ID,
		Strategy: StrategyClusterBuster,
		Label:    fmt.Sprintf("Cluster-Buster (Ambiguity: %.0f)", chosen.overlap),
		Detail:   chosen.overlap,
	}, true
}

func (s *Selector) uniformPair(items []model.Item) Match {
	i := s.rng.Intn(len(items))
	j := s.rng.Intn(len(items) - 1)
	if j >= i {
		j++
	}
	return Match{
		A:        items[i].ID,
		B:        items[j].ID,
		Strategy: StrategyRandom,
		Label:    "Random (fully resolved)",
	}
}
