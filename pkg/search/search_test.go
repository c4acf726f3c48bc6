package search

import (
	"testing"

	"github.com/inkpad/inkpad/internal/store"
	"github.com/inkpad/inkpad/pkg/repository"
)

func newTestSearcher(t *testing.T) (*Searcher, *repository.Repository) {
	t.Helper()

	repo := repository.New(store.NewMemoryStore())
	repo.Bootstrap()
	return New(repo), repo
}

func addDoc(repo *repository.Repository, title, content string) string {
	id := repo.Create()
	repo.Rename(id, title)
	repo.UpdateContent(id, content)
	return id
}

func TestSearchRanksByHitCount(t *testing.T) {
	s, repo := newTestSearcher(t)
	one := addDoc(repo, "One", "gopher")
	many := addDoc(repo, "Many", "gopher gopher gopher")

	results, err := s.Search("gopher")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].DocumentID != many || results[0].Hits != 3 {
		t.Errorf("Expected %s with 3 hits first, got %s with %d", many, results[0].DocumentID, results[0].Hits)
	}
	if results[1].DocumentID != one || results[1].Hits != 1 {
		t.Errorf("Expected %s with 1 hit second, got %s with %d", one, results[1].DocumentID, results[1].Hits)
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	s, repo := newTestSearcher(t)
	id := addDoc(repo, "Doc", "O'Brien met GOPHER at the dock.")

	results, err := s.Search("o'brien")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].DocumentID != id {
		t.Fatalf("Expected one result for %s, got %v", id, results)
	}
	if results[0].Spans[0].Text != "O'Brien" {
		t.Errorf("Expected span over original casing, got %q", results[0].Spans[0].Text)
	}
}

func TestSearchDropsStopwords(t *testing.T) {
	s, repo := newTestSearcher(t)
	addDoc(repo, "Doc", "the quick brown fox")

	// All stopwords: nothing usable to match.
	results, err := s.Search("the and of")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if results != nil {
		t.Errorf("Expected nil results for stopword-only query, got %v", results)
	}

	// Stopwords are stripped, content words remain.
	results, err = s.Search("the fox")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Hits != 1 {
		t.Fatalf("Expected single fox hit, got %v", results)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	s, _ := newTestSearcher(t)

	results, err := s.Search("   ")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if results != nil {
		t.Errorf("Expected nil results, got %v", results)
	}
}

func TestSearchSpanOffsetsAnchorOriginalText(t *testing.T) {
	s, repo := newTestSearcher(t)
	content := "smart “quotes” around café today"
	addDoc(repo, "Doc", content)

	results, err := s.Search("café")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || len(results[0].Spans) != 1 {
		t.Fatalf("Expected one span, got %v", results)
	}
	sp := results[0].Spans[0]
	if content[sp.Start:sp.End] != "café" {
		t.Errorf("Span %d:%d does not anchor the match: %q", sp.Start, sp.End, content[sp.Start:sp.End])
	}
}
