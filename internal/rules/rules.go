// Package rules answers country-regulation questions from a static
// question/answer-by-country document loaded once at startup.
package rules

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/flightwise/airquery/pkg/logger"
)

// Question is one regulation question with its per-country answers,
// keyed by upper-case ISO country code.
type Question struct {
	Text    string            `yaml:"question"`
	Answers map[string]string `yaml:"answers"`
}

// Document is the immutable rules table. It is populated once by Load
// and never mutated afterward, so concurrent reads need no locking.
type Document struct {
	Questions []Question `yaml:"questions"`
}

// Load reads and parses the rules document from the given YAML file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules document: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rules document: %w", err)
	}

	// Normalize country codes once so lookups stay cheap
	for i, q := range doc.Questions {
		normalized := make(map[string]string, len(q.Answers))
		for code, answer := range q.Answers {
			normalized[strings.ToUpper(code)] = answer
		}
		doc.Questions[i].Answers = normalized
	}

	return &doc, nil
}

// Entry is a question with the answer for one country.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ComparisonEntry is a question with both countries' answers.
type ComparisonEntry struct {
	Question string `json:"question"`
	AnswerA  string `json:"answer_a"`
	AnswerB  string `json:"answer_b"`
}

// Lookup serves keyed and diff queries over a rules document.
type Lookup struct {
	doc    *Document
	logger *logger.Logger
}

// NewLookup creates a lookup over the given document.
func NewLookup(doc *Document, logger *logger.Logger) *Lookup {
	return &Lookup{
		doc:    doc,
		logger: logger.Named("rules"),
	}
}

// ByCountry returns every question that has a non-empty answer for the
// country. Questions with no answer for the country are skipped.
func (l *Lookup) ByCountry(code string) []Entry {
	code = strings.ToUpper(strings.TrimSpace(code))

	var entries []Entry
	for _, q := range l.doc.Questions {
		if answer := q.Answers[code]; answer != "" {
			entries = append(entries, Entry{Question: q.Text, Answer: answer})
		}
	}
	return entries
}

// Compare emits, for each question, both countries' answers, with "N/A"
// standing in when one side has none. Questions unanswered by both
// countries are skipped.
func (l *Lookup) Compare(codeA, codeB string) []ComparisonEntry {
	codeA = strings.ToUpper(strings.TrimSpace(codeA))
	codeB = strings.ToUpper(strings.TrimSpace(codeB))

	var entries []ComparisonEntry
	for _, q := range l.doc.Questions {
		a := q.Answers[codeA]
		b := q.Answers[codeB]
		if a == "" {
			a = "N/A"
		}
		if b == "" {
			b = "N/A"
		}
		if a == "N/A" && b == "N/A" {
			continue
		}
		entries = append(entries, ComparisonEntry{Question: q.Text, AnswerA: a, AnswerB: b})
	}
	return entries
}

// Countries returns the sorted set of country codes that have at least
// one answer in the document.
func (l *Lookup) Countries() []string {
	seen := make(map[string]struct{})
	for _, q := range l.doc.Questions {
		for code, answer := range q.Answers {
			if answer != "" {
				seen[code] = struct{}{}
			}
		}
	}

	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
