// Package sampler draws a sentiment-balanced sample from a raw review pool.
//
// Each pool member is pre-classified good, bad or neutral; neutral rows
// are never sampled. A good-ratio is drawn uniformly from a range and the
// sample size is split into good and bad targets. Each sub-pool gives up
// to its target without replacement; shortfalls are not moved to the other
// pool, so the result may be smaller than requested. The combined sample
// is shuffled so sentiment does not correlate with position.
//
// Two seeds are used. The ratio seed governs the ratio draw and may be
// left zero for fresh randomness. The select seed governs row selection
// and the final shuffle, so selection is reproducible for fixed pools and
// targets.
package sampler

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/cognicore/gourmet/pkg/gourmet/internalerr"
	"github.com/cognicore/gourmet/pkg/gourmet/review"
)

// Defaults mirror the production run.
const (
	DefaultRatioMin   = 0.5
	DefaultRatioMax   = 0.9
	DefaultSelectSeed = 42
)

// PreClassifier labels a raw body good, bad or neutral.
type PreClassifier func(text string) review.Sentiment

// Options configures a Sampler.
type Options struct {
	RatioMin   float64
	RatioMax   float64
	RatioSeed  uint64 // 0 draws a fresh seed, reported in Result
	SelectSeed uint64
}

// DefaultOptions returns the production options with a fresh ratio seed.
func DefaultOptions() Options {
	return Options{
		RatioMin:   DefaultRatioMin,
		RatioMax:   DefaultRatioMax,
		SelectSeed: DefaultSelectSeed,
	}
}

// Validate checks the ratio range.
func (o Options) Validate() error {
	if o.RatioMin < 0 || o.RatioMax > 1 || o.RatioMin > o.RatioMax ||
		math.IsNaN(o.RatioMin) || math.IsNaN(o.RatioMax) {
		return fmt.Errorf("%w: ratio range [%v, %v] must satisfy 0 <= min <= max <= 1",
			internalerr.ErrInvalidConfig, o.RatioMin, o.RatioMax)
	}
	return nil
}

// Sampler draws balanced samples.
type Sampler struct {
	classify PreClassifier
	opts     Options
	now      func() time.Time
}

// New creates a sampler.
func New(classify PreClassifier, opts Options) (*Sampler, error) {
	if classify == nil {
		return nil, fmt.Errorf("%w: pre-classifier is required", internalerr.ErrInvalidConfig)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Sampler{classify: classify, opts: opts, now: time.Now}, nil
}

// Result is a sample plus everything needed to reproduce it.
type Result struct {
	Reviews      []review.RawReview
	Ratio        float64
	RatioSeed    uint64
	SelectSeed   uint64
	PoolGood     int
	PoolBad      int
	PoolNeutral  int
	TargetGood   int
	TargetBad    int
	SelectedGood int
	SelectedBad  int
}

// Sample draws at most targetSize reviews from pool.
func (s *Sampler) Sample(pool []review.RawReview, targetSize int) Result {
	var good, bad []review.RawReview
	neutral := 0
	for _, r := range pool {
		switch s.classify(r.Body) {
		case review.Good:
			good = append(good, r)
		case review.Bad:
			bad = append(bad, r)
		default:
			neutral++
		}
	}

	ratioSeed := s.opts.RatioSeed
	if ratioSeed == 0 {
		ratioSeed = uint64(s.now().UnixNano())
	}
	ratio := drawRatio(ratioSeed, s.opts.RatioMin, s.opts.RatioMax)

	if targetSize < 0 {
		targetSize = 0
	}
	targetGood := int(math.Floor(float64(targetSize) * ratio))
	targetBad := targetSize - targetGood

	pickedGood := choose(good, min(len(good), targetGood), s.opts.SelectSeed)
	pickedBad := choose(bad, min(len(bad), targetBad), s.opts.SelectSeed)

	combined := make([]review.RawReview, 0, len(pickedGood)+len(pickedBad))
	combined = append(combined, pickedGood...)
	combined = append(combined, pickedBad...)
	newRand(s.opts.SelectSeed).Shuffle(len(combined), func(i, j int) {
		combined[i], combined[j] = combined[j], combined[i]
	})

	return Result{
		Reviews:      combined,
		Ratio:        ratio,
		RatioSeed:    ratioSeed,
		SelectSeed:   s.opts.SelectSeed,
		PoolGood:     len(good),
		PoolBad:      len(bad),
		PoolNeutral:  neutral,
		TargetGood:   targetGood,
		TargetBad:    targetBad,
		SelectedGood: len(pickedGood),
		SelectedBad:  len(pickedBad),
	}
}

func drawRatio(seed uint64, lo, hi float64) float64 {
	if lo == hi {
		return lo
	}
	return lo + newRand(seed).Float64()*(hi-lo)
}

// choose returns n members of pool without replacement, in draw order.
// A partial Fisher-Yates over an index slice leaves pool untouched.
func choose(pool []review.RawReview, n int, seed uint64) []review.RawReview {
	if n <= 0 {
		return nil
	}
	rng := newRand(seed)
	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}
	out := make([]review.RawReview, n)
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out[i] = pool[idx[i]]
	}
	return out
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
