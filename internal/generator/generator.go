// Package generator builds typing text sequences.
package generator

import (
	"errors"
	"math"
	"math/rand"
	"strconv"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/verte-zerg/buddytype/internal/model"
)

const (
	// frequencySkew biases draws toward the head of frequency-ordered lists.
	frequencySkew = 1.5
	numberChance  = 0.08
	maxDigits     = 4
	periodChance  = 0.12
	commaChance   = 0.06
)

// ErrEmptyCorpus is returned when a corpus has no words to draw from.
var ErrEmptyCorpus = errors.New("corpus has no words")

// Rand is the uniform [0,1) source used for every draw.
type Rand interface {
	Float64() float64
}

// Resolver looks up a corpus by name.
type Resolver interface {
	Resolve(name string) (model.Corpus, error)
}

// Options toggles punctuation and number injection.
type Options struct {
	Punctuation bool
	Numbers     bool
}

// Generator produces randomized typing text.
type Generator struct {
	rnd Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewWithRand returns a Generator drawing from rnd.
func NewWithRand(rnd Rand) *Generator {
	return &Generator{rnd: rnd}
}

// Words resolves the named corpus and generates count words from it.
func (g *Generator) Words(res Resolver, name string, count int, opts Options) ([]string, error) {
	c, err := res.Resolve(name)
	if err != nil {
		return nil, err
	}
	return g.Generate(c, count, opts)
}

// Generate draws exactly count words from the corpus.
func (g *Generator) Generate(c model.Corpus, count int, opts Options) ([]string, error) {
	if count <= 0 {
		return []string{}, nil
	}
	if len(c.Words) == 0 {
		return nil, ErrEmptyCorpus
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		idx := int(math.Pow(g.rnd.Float64(), frequencySkew) * float64(len(c.Words)))
		if idx >= len(c.Words) {
			idx = len(c.Words) - 1
		}
		word := c.Words[idx]
		if opts.Numbers && g.rnd.Float64() < numberChance {
			word = g.number()
		}
		result = append(result, word)
	}
	if opts.Punctuation {
		applyPunctuation(g.rnd, result)
	}
	return result, nil
}

func (g *Generator) number() string {
	digits := int(g.rnd.Float64()*maxDigits) + 1
	n := int64(g.rnd.Float64() * math.Pow10(digits))
	return strconv.FormatInt(n, 10)
}

// applyPunctuation capitalizes sentence starts and sprinkles periods and
// commas in place. The word count never changes.
func applyPunctuation(rnd Rand, words []string) {
	sentenceStart := true
	for i := range words {
		if sentenceStart && words[i] != "" {
			words[i] = capitalize(words[i])
			sentenceStart = false
		}
		if i > 0 && rnd.Float64() < periodChance {
			words[i] += "."
			sentenceStart = true
			continue
		}
		if !sentenceStart && rnd.Float64() < commaChance {
			words[i] += ","
		}
	}
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}
