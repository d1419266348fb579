package normalize

import (
	"strings"
	"testing"

	"github.com/dgallion1/wikiparse/internal/cleaner"
	"github.com/dgallion1/wikiparse/internal/parser"
)

const page = `<!doctype html>
<html><head><title>Elon Musk</title><script>track()</script></head>
<body>
<nav><a href="/">Home</a> <a href="/about">About</a></nav>
<main>
  <button>Toggle theme</button>
  <h1>Elon Musk</h1>
  <p>Elon Reeve Musk is a businessman known for <a href="/page/Tesla">Tesla</a> and SpaceX.</p>
  <h2>Early life</h2>
  <p>Born in Pretoria.</p>
  <h3>Education</h3>
  <p>He attended Queen's University.</p>
  <table><tr><th>Year</th><th>Event</th></tr><tr><td>1971</td><td>Born</td></tr></table>
  <img src="/x.png" alt="portrait">
</main>
<footer>Copyright</footer>
</body></html>`

func TestMarkdown_ConvertsMainContent(t *testing.T) {
	md, err := New().Markdown(page, "https://grokipedia.com/page/Elon_Musk")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}

	for _, want := range []string{"# Elon Musk", "## Early life", "### Education", "Born in Pretoria."} {
		if !strings.Contains(md, want) {
			t.Errorf("expected %q in output:\n%s", want, md)
		}
	}
	if !strings.Contains(md, "https://grokipedia.com/page/Tesla") {
		t.Errorf("expected relative link made absolute:\n%s", md)
	}
	if !strings.Contains(md, "| Year") {
		t.Errorf("expected table converted:\n%s", md)
	}
	for _, noise := range []string{"track()", "Home", "Copyright", "Toggle theme", "portrait"} {
		if strings.Contains(md, noise) {
			t.Errorf("expected %q removed:\n%s", noise, md)
		}
	}
	if !strings.HasSuffix(md, "\n") || strings.HasSuffix(md, "\n\n") {
		t.Errorf("expected exactly one trailing newline, got %q", md[len(md)-5:])
	}
}

func TestMarkdown_FeedsParser(t *testing.T) {
	md, err := New().Markdown(page, "")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	pw := parser.Parse(cleaner.Clean(md))
	if pw.Title != "Elon Musk" {
		t.Errorf("expected title Elon Musk, got %q", pw.Title)
	}
	if len(pw.Sections) != 1 || pw.Sections[0].Title != "Early life" {
		t.Fatalf("expected one top-level section, got %+v", pw.Sections)
	}
	if len(pw.Sections[0].Subsections) != 1 || pw.Sections[0].Subsections[0].Anchor != "education" {
		t.Errorf("expected Education under Early life")
	}
}

func TestExtractContent_FallsBack(t *testing.T) {
	tests := []struct {
		name, html, want, notWant string
	}{
		{"article", `<body><div>outside</div><article><p>inside</p></article></body>`, "inside", "outside"},
		{"body", `<body><div>only body</div><script>x</script></body>`, "only body", "<script"},
		{"fragment", `<p>bare fragment</p>`, "bare fragment", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractContent(tt.html)
			if err != nil {
				t.Fatalf("ExtractContent: %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("expected %q in %q", tt.want, got)
			}
			if tt.notWant != "" && strings.Contains(got, tt.notWant) {
				t.Errorf("did not expect %q in %q", tt.notWant, got)
			}
		})
	}
}
