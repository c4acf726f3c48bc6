// Package search finds query terms across the document collection. Query
// terms and document text go through the same canonicalizer, so "O'Brien"
// and "o'brien" match regardless of casing or surrounding punctuation.
package search

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coregx/ahocorasick"
	"github.com/orsinium-labs/stopwords"

	"github.com/inkpad/inkpad/pkg/repository"
)

// Span is a match location in the original document text, in byte offsets.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Result is one document's hits for a query, ordered by position.
type Result struct {
	DocumentID string `json:"documentId"`
	Title      string `json:"title"`
	Hits       int    `json:"hits"`
	Spans      []Span `json:"spans"`
}

// Searcher scans the collection with an Aho-Corasick automaton compiled per
// query. No persistent index; the collection is small enough to rescan.
type Searcher struct {
	repo  *repository.Repository
	stops *stopwords.Stopwords
}

// New creates a searcher over the repository.
func New(repo *repository.Repository) *Searcher {
	return &Searcher{repo: repo, stops: stopwords.MustGet("en")}
}

// Search returns per-document results ordered by hit count descending,
// ties broken by collection order. Queries with no usable terms (empty, or
// all stopwords) return nil.
func (s *Searcher) Search(query string) ([]Result, error) {
	terms := s.queryTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}

	ac, err := ahocorasick.NewBuilder().
		AddStrings(terms).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, doc := range s.repo.List() {
		spans := scan(ac, doc.Content)
		if len(spans) == 0 {
			continue
		}
		results = append(results, Result{
			DocumentID: doc.ID,
			Title:      doc.Title,
			Hits:       len(spans),
			Spans:      spans,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Hits > results[j].Hits
	})
	return results, nil
}

// queryTerms canonicalizes the query, drops English stopwords, and
// deduplicates what remains.
func (s *Searcher) queryTerms(query string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, w := range strings.Fields(canonicalize(query)) {
		if seen[w] || s.stops.Contains(w) {
			continue
		}
		seen[w] = true
		terms = append(terms, w)
	}
	return terms
}

// scan runs the automaton over canonicalized content and maps the match
// offsets back to the original text.
func scan(ac *ahocorasick.Automaton, content string) []Span {
	haystack := canonicalize(content)
	if haystack == "" {
		return nil
	}
	canonToOrig := buildOffsetMap(content)

	var spans []Span
	for _, m := range ac.FindAllOverlapping([]byte(haystack)) {
		start := mapOffset(m.Start, canonToOrig, len(content))
		end := mapOffset(m.End, canonToOrig, len(content))
		if start >= len(content) || end > len(content) || start >= end {
			continue
		}
		spans = append(spans, Span{Start: start, End: end, Text: content[start:end]})
	}
	return spans
}

// isJoiner returns true for punctuation that commonly appears inside terms
// and is preserved during canonicalization: "O'Brien", "Jean-Luc", "AT&T".
func isJoiner(r rune) bool {
	switch r {
	case '\'', '’', '‘',
		'-', '–', '—',
		'·', '.', '_', '/', '#', '&':
		return true
	default:
		return false
	}
}

// canonicalize lowercases, keeps letters, digits, and joiners, collapses
// everything else to single spaces, and trims. Patterns and haystacks must
// go through this same function.
func canonicalize(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	lastWasSpace := true
	for _, ch := range s {
		c := unicode.ToLower(ch)
		if c == '’' || c == '‘' {
			c = '\''
		}
		if c == '–' || c == '—' {
			c = '-'
		}

		if unicode.IsLetter(c) || unicode.IsDigit(c) || isJoiner(c) {
			out.WriteRune(c)
			lastWasSpace = false
		} else if !lastWasSpace {
			out.WriteRune(' ')
			lastWasSpace = true
		}
	}

	result := out.String()
	if len(result) > 0 && result[len(result)-1] == ' ' {
		result = result[:len(result)-1]
	}
	return result
}

// buildOffsetMap maps each byte position of the canonicalized string to the
// corresponding position in the original; canonicalization can change byte
// lengths, so match offsets cannot be used directly.
func buildOffsetMap(original string) []int {
	mapping := make([]int, 0, len(original)+1)

	lastWasSpace := true
	origPos := 0
	for _, ch := range original {
		runeLen := utf8.RuneLen(ch)
		c := unicode.ToLower(ch)
		if c == '’' || c == '‘' {
			c = '\''
		}
		if c == '–' || c == '—' {
			c = '-'
		}

		if unicode.IsLetter(c) || unicode.IsDigit(c) || isJoiner(c) {
			canonLen := utf8.RuneLen(c)
			for i := 0; i < canonLen; i++ {
				mapping = append(mapping, origPos)
			}
			lastWasSpace = false
		} else if !lastWasSpace {
			mapping = append(mapping, origPos)
			lastWasSpace = true
		}

		origPos += runeLen
	}

	mapping = append(mapping, origPos)
	return mapping
}

func mapOffset(canonOffset int, mapping []int, originalLen int) int {
	if canonOffset >= len(mapping) {
		return originalLen
	}
	if canonOffset < 0 {
		return 0
	}
	return mapping[canonOffset]
}
