package search

import (
	"strings"
	"testing"

	"github.com/dgallion1/wikiparse/internal/parser"
	"github.com/dgallion1/wikiparse/internal/wiki"
)

const article = `# Elon Musk
## Career
He founded Zip2. Later he led Tesla! He also ran SpaceX.
### Tesla
Electric cars.
## Personal life
He lives in Texas.
## Legacy
TESLA shaped the industry. Tesla sold cars? Tesla grew. Tesla again.`

func TestSections_TitleMatchesRankFirst(t *testing.T) {
	pw := parser.Parse(article)
	results := Sections(pw.Sections, "tesla")

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Section.Title != "Tesla" || results[0].Score != titleScore {
		t.Errorf("expected title match first, got %q score %d", results[0].Section.Title, results[0].Score)
	}
	if results[0].Matches[0] != "Tesla" {
		t.Errorf("expected title first in matches, got %v", results[0].Matches)
	}
	// Content-only matches keep pre-order.
	if results[1].Section.Title != "Career" || results[2].Section.Title != "Legacy" {
		t.Errorf("expected Career then Legacy, got %q then %q", results[1].Section.Title, results[2].Section.Title)
	}
	for _, r := range results[1:] {
		if r.Score != contentScore {
			t.Errorf("expected content score for %q, got %d", r.Section.Title, r.Score)
		}
	}
}

func TestSections_MatchingSentences(t *testing.T) {
	pw := parser.Parse(article)
	results := Sections(pw.Sections, "Tesla")

	var career, legacy Result
	for _, r := range results {
		switch r.Section.Title {
		case "Career":
			career = r
		case "Legacy":
			legacy = r
		}
	}
	if len(career.Matches) != 1 || career.Matches[0] != "Later he led Tesla" {
		t.Errorf("expected one trimmed sentence for Career, got %q", career.Matches)
	}
	if len(legacy.Matches) != maxSentences {
		t.Fatalf("expected at most %d sentences, got %q", maxSentences, legacy.Matches)
	}
	if legacy.Matches[0] != "TESLA shaped the industry" || legacy.Matches[1] != "Tesla sold cars" {
		t.Errorf("unexpected sentences %q", legacy.Matches)
	}
}

func TestSections_NoMatchesAndEmptyQuery(t *testing.T) {
	pw := parser.Parse(article)
	if got := Sections(pw.Sections, "mars"); len(got) != 0 {
		t.Errorf("expected no results, got %d", len(got))
	}
	for _, q := range []string{"", "   "} {
		if got := Sections(pw.Sections, q); got != nil {
			t.Errorf("Sections(%q): expected nil, got %d results", q, len(got))
		}
	}
	if got := Sections(nil, "tesla"); len(got) != 0 {
		t.Errorf("expected no results for empty tree, got %d", len(got))
	}
}

func TestSections_EverySectionContainingQuery(t *testing.T) {
	pw := parser.Parse(article)
	results := Sections(pw.Sections, "he")

	want := 0
	wiki.Walk(pw.Sections, func(s *wiki.Section) {
		if containsFold(s.Title, "he") || containsFold(s.Content, "he") {
			want++
		}
	})
	if len(results) != want {
		t.Errorf("expected %d results, got %d", want, len(results))
	}
}

func TestHighlight(t *testing.T) {
	tests := []struct {
		text, query, want string
	}{
		{"Tesla and tesla", "tesla", "<mark>Tesla</mark> and <mark>tesla</mark>"},
		{"cost is $5.00 (approx)", "$5.00 (", "cost is <mark>$5.00 (</mark>approx)"},
		{"unchanged", "", "unchanged"},
		{"no hit", "xyz", "no hit"},
	}
	for _, tt := range tests {
		if got := Highlight(tt.text, tt.query); got != tt.want {
			t.Errorf("Highlight(%q, %q) = %q, want %q", tt.text, tt.query, got, tt.want)
		}
	}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
