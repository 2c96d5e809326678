package sentiment

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

// Scoring constants for the lexicon scorer.
const (
	// normalizationAlpha normalizes the valence sum into [-1, 1]:
	// compound = sum / sqrt(sum^2 + alpha).
	normalizationAlpha = 15.0
	// negationFlip dampens and flips a valence preceded by a negator.
	negationFlip = -0.74
	// boosterIncr is the intensity added by a booster word.
	boosterIncr = 0.293
	// boosterDecay scales a booster two words back.
	boosterDecay = 0.95
	// negationWindow is how many preceding tokens may negate.
	negationWindow = 3
)

// LexiconScorer scores text against a valence lexicon. The lexicon parses
// lazily on first use and is read-only afterward, so a single scorer is safe
// to share once EnsureLoaded has been forced.
type LexiconScorer struct {
	source string

	once     sync.Once
	loadErr  error
	valences map[string]float64
}

// Option applies a configuration option to the LexiconScorer.
type Option func(*LexiconScorer)

// WithLexiconSource replaces the embedded lexicon. Each line is
// "word<space>valence"; blank lines and lines starting with '#' are skipped.
func WithLexiconSource(source string) Option {
	return func(s *LexiconScorer) {
		if source != "" {
			s.source = source
		}
	}
}

// NewLexiconScorer creates a lexicon scorer with configuration options.
func NewLexiconScorer(opts ...Option) *LexiconScorer {
	s := &LexiconScorer{
		source: defaultLexicon,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureLoaded parses the lexicon exactly once. Callers that fan scoring out
// across goroutines must force this before the fan-out.
func (s *LexiconScorer) EnsureLoaded(ctx context.Context) error {
	_ = ctx // parsing is in-memory; no cancellation points
	s.once.Do(func() {
		s.valences, s.loadErr = parseLexicon(s.source)
	})
	return s.loadErr
}

// Score computes the polarity of text. Pure: the same text always yields the
// same polarity. Empty or unscorable text returns the neutral polarity.
func (s *LexiconScorer) Score(ctx context.Context, text string) (Polarity, error) {
	if err := s.EnsureLoaded(ctx); err != nil {
		return Polarity{}, err
	}

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return Neutral(), nil
	}

	var valenceSum, posSum, negSum float64
	var neuCount float64

	for i, tok := range tokens {
		v, scored := s.valences[tok]
		if !scored {
			if _, boost := boosters[tok]; !boost {
				if _, negate := negators[tok]; !negate {
					neuCount++
				}
			}
			continue
		}

		v = applyBoosters(tokens, i, v)
		if negatedBefore(tokens, i) {
			v *= negationFlip
		}

		valenceSum += v
		switch {
		case v > 0:
			posSum += v + 1
		case v < 0:
			negSum += v - 1
		default:
			neuCount++
		}
	}

	denom := posSum + math.Abs(negSum) + neuCount
	if denom == 0 {
		return Neutral(), nil
	}

	compound := valenceSum / math.Sqrt(valenceSum*valenceSum+normalizationAlpha)
	compound = math.Max(-1, math.Min(1, compound))

	return Polarity{
		Neg:      math.Abs(negSum) / denom,
		Neu:      neuCount / denom,
		Pos:      posSum / denom,
		Compound: compound,
	}, nil
}

// applyBoosters adjusts a valence for intensity words up to two tokens back.
func applyBoosters(tokens []string, i int, v float64) float64 {
	for back := 1; back <= 2; back++ {
		j := i - back
		if j < 0 {
			break
		}
		b, ok := boosters[tokens[j]]
		if !ok {
			continue
		}
		incr := b
		if v < 0 {
			incr = -incr
		}
		if back == 2 {
			incr *= boosterDecay
		}
		v += incr
	}
	return v
}

// negatedBefore reports whether a negator appears in the preceding window.
func negatedBefore(tokens []string, i int) bool {
	for back := 1; back <= negationWindow; back++ {
		j := i - back
		if j < 0 {
			return false
		}
		if _, ok := negators[tokens[j]]; ok {
			return true
		}
	}
	return false
}

// tokenize lower-cases and splits on anything that is not a letter or an
// apostrophe, dropping single-character fragments.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if len(f) > 1 {
			out = append(out, f)
		}
	}
	return out
}

func parseLexicon(source string) (map[string]float64, error) {
	valences := make(map[string]float64, 256)
	sc := bufio.NewScanner(strings.NewReader(source))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %d: want \"word valence\"", ErrBadLexicon, line)
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrBadLexicon, line, err)
		}
		valences[strings.ToLower(fields[0])] = v
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadLexicon, err)
	}
	return valences, nil
}

// boosters intensify the valence of the word they precede.
var boosters = map[string]float64{
	"absolutely": boosterIncr,
	"amazingly":  boosterIncr,
	"completely": boosterIncr,
	"especially": boosterIncr,
	"extremely":  boosterIncr,
	"incredibly": boosterIncr,
	"really":     boosterIncr,
	"remarkably": boosterIncr,
	"so":         boosterIncr,
	"super":      boosterIncr,
	"totally":    boosterIncr,
	"truly":      boosterIncr,
	"very":       boosterIncr,
	"barely":     -boosterIncr,
	"hardly":     -boosterIncr,
	"kind":       -boosterIncr,
	"kinda":      -boosterIncr,
	"marginally": -boosterIncr,
	"slightly":   -boosterIncr,
	"somewhat":   -boosterIncr,
	"sort":       -boosterIncr,
}

// negators flip the valence of words in the window after them.
var negators = map[string]struct{}{
	"aint":    {},
	"ain't":   {},
	"cannot":  {},
	"can't":   {},
	"didn't":  {},
	"doesn't": {},
	"don't":   {},
	"isn't":   {},
	"never":   {},
	"no":      {},
	"nobody":  {},
	"none":    {},
	"not":     {},
	"nothing": {},
	"nowhere": {},
	"wasn't":  {},
	"weren't": {},
	"without": {},
	"won't":   {},
	"wouldn't": {},
}
