package generator

import (
	"errors"
	"math/rand"
	"reflect"
	"regexp"
	"testing"

	"github.com/verte-zerg/buddytype/internal/corpus"
	"github.com/verte-zerg/buddytype/internal/model"
)

type scriptedRand struct {
	values []float64
	pos    int
}

func (s *scriptedRand) Float64() float64 {
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

func testCorpus() model.Corpus {
	return model.Corpus{
		Name:  "test",
		Words: []string{"w0", "w1", "w2", "w3", "w4", "w5", "w6", "w7", "w8", "w9"},
	}
}

func TestGenerateExactCount(t *testing.T) {
	gen := NewWithRand(rand.New(rand.NewSource(1)))
	for _, count := range []int{0, 1, 25, 100} {
		words, err := gen.Generate(testCorpus(), count, Options{Punctuation: true, Numbers: true})
		if err != nil {
			t.Fatalf("generate %d: %v", count, err)
		}
		if len(words) != count {
			t.Fatalf("expected %d words, got %d", count, len(words))
		}
	}
}

func TestGeneratePowerLawIndex(t *testing.T) {
	// 0.5^1.5 * 10 = 3.53 -> index 3
	gen := NewWithRand(&scriptedRand{values: []float64{0.5}})
	words, err := gen.Generate(testCorpus(), 2, Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !reflect.DeepEqual(words, []string{"w3", "w3"}) {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestGenerateNoNumbersWhenDisabled(t *testing.T) {
	reg, err := corpus.NewRegistry("")
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	gen := NewWithRand(rand.New(rand.NewSource(42)))
	words, err := gen.Words(reg, "english", 100, Options{Numbers: false})
	if err != nil {
		t.Fatalf("words: %v", err)
	}
	digits := regexp.MustCompile(`^\d+$`)
	for _, w := range words {
		if digits.MatchString(w) {
			t.Fatalf("unexpected number token %q", w)
		}
	}
}

func TestGenerateNumberReplacement(t *testing.T) {
	// index draw, number roll (hit), digit count 3, value 0.5 -> 500
	gen := NewWithRand(&scriptedRand{values: []float64{0.0, 0.01, 0.5, 0.5}})
	words, err := gen.Generate(testCorpus(), 1, Options{Numbers: true})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if words[0] != "500" {
		t.Fatalf("expected 500, got %q", words[0])
	}
}

func TestGeneratePunctuation(t *testing.T) {
	values := []float64{
		0, 0, 0, // word draws
		0.99,       // word 0: comma roll misses
		0.05,       // word 1: period
		0.99, 0.03, // word 2: period misses, comma hits
	}
	c := model.Corpus{Name: "one", Words: []string{"the"}}
	gen := NewWithRand(&scriptedRand{values: values})
	words, err := gen.Generate(c, 3, Options{Punctuation: true})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := []string{"The", "the.", "The,"}
	if !reflect.DeepEqual(words, want) {
		t.Fatalf("expected %v, got %v", want, words)
	}
}

func TestWordsUnknownLanguage(t *testing.T) {
	reg, err := corpus.NewRegistry("")
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	_, err = New().Words(reg, "missing", 10, Options{})
	if !errors.Is(err, corpus.ErrUnknownLanguage) {
		t.Fatalf("expected ErrUnknownLanguage, got %v", err)
	}
}

func TestGenerateEmptyCorpus(t *testing.T) {
	_, err := New().Generate(model.Corpus{Name: "empty"}, 3, Options{})
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus, got %v", err)
	}
}
