package cleaner

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want LineKind
	}{
		{"", Blank},
		{"   \t", Blank},
		{"- [Early Life](#early-life)", TocLike},
		{"* [Career](https://example.com/career)", TocLike},
		{"[Some Link](url)", TocLike},
		{"Early Life and Education", TocLike},
		{"Fact-checked by Grok 2 weeks ago", Banned},
		{"Toggle theme", Banned},
		{"LightDarkSystem", Banned},
		{"## Early Life", Heading},
		{"### Career. Later years", Heading},
		{"https://example.com/source", URL},
		{"Elon Musk was born on June 28, 1971, in Pretoria.", ParagraphStart},
		{"Elon Reeve Musk is a businessman known for his key roles in Tesla, SpaceX and X", ParagraphStart},
		{"lowercase text, with punctuation but no capital start.", Unknown},
		{"Short, but no ending", Unknown},
	}
	for _, tt := range tests {
		if got := Classify(tt.line); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.line, got, tt.want)
		}
	}
}

func TestClean_ScenarioTocAndLinksRemoved(t *testing.T) {
	input := "# Title\n\nEarly Life\n[Some Link](url)\n\nElon Musk was born on June 28, 1971, in Pretoria."
	got := Clean(input)

	if !strings.HasPrefix(got, "# Title") {
		t.Errorf("expected output to start with title, got %q", got)
	}
	if strings.Contains(got, "Early Life") {
		t.Errorf("expected TOC line to be removed, got %q", got)
	}
	if strings.Contains(got, "[Some Link](url)") {
		t.Errorf("expected link line to be removed, got %q", got)
	}
	if !strings.Contains(got, "Elon Musk was born on June 28, 1971, in Pretoria.") {
		t.Errorf("expected sentence to be retained, got %q", got)
	}
}

func TestClean_DropsChromeBeforeTitle(t *testing.T) {
	input := "Toggle theme\nSearch\n# Elon Musk\nFact-checked by Grok\n## Early life\nBody text."
	got := Clean(input)
	want := "# Elon Musk\n## Early life\nBody text."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestClean_StopsAtURL(t *testing.T) {
	input := "# T\nContents\nhttps://example.com/a\nrest"
	got := Clean(input)
	if got != "# T\nhttps://example.com/a\nrest" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestClean_BodyKeptVerbatim(t *testing.T) {
	body := "## Career\n\nShort line\n- [kept link](x)\n\nMore text, here."
	input := "# T\n- [Career](#career)\n" + body
	got := Clean(input)
	if got != "# T\n"+body {
		t.Errorf("expected body untouched after stop point, got %q", got)
	}
}

func TestClean_NoTitlePassThrough(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t\n",
		"no heading here\njust text",
		"#\n# \n#NoSpace",
		"## Only level two",
	}
	for _, in := range inputs {
		if got := Clean(in); got != in {
			t.Errorf("Clean(%q) = %q, expected unchanged", in, got)
		}
	}
}

func TestClean_TitleOnly(t *testing.T) {
	got := Clean("# Lonely\nToggle theme\n\nNav")
	if got != "# Lonely" {
		t.Errorf("expected only the title line, got %q", got)
	}
}

func TestClean_ArbitraryBytesDoNotPanic(t *testing.T) {
	inputs := []string{
		"\x00\x01\x02",
		"# \xff\xfe title\n\xc3\x28 bad utf8",
		strings.Repeat("\n", 1000),
		"# T\n" + strings.Repeat("x", 10000),
	}
	for _, in := range inputs {
		_ = Clean(in)
		_ = Analyze(in)
	}
}

func TestAnalyze(t *testing.T) {
	input := "# T\n\nEarly Life\n[Link](u)\nToggle theme\nElon Musk was born on June 28, 1971, in Pretoria.\nMore."
	st := Analyze(input)
	if st.InputLines != 7 {
		t.Errorf("expected 7 input lines, got %d", st.InputLines)
	}
	if st.OutputLines != 3 {
		t.Errorf("expected 3 output lines, got %d", st.OutputLines)
	}
	if st.Skipped[Blank] != 1 || st.Skipped[TocLike] != 2 || st.Skipped[Banned] != 1 {
		t.Errorf("unexpected skip counts: %v", st.Skipped)
	}
	if got := strings.Count(Clean(input), "\n") + 1; got != st.OutputLines {
		t.Errorf("Analyze disagrees with Clean: %d vs %d", st.OutputLines, got)
	}
}
