package reference

import "regexp"

// entryKind tags which matcher recognised a bibliography entry.
type entryKind int

const (
	kindInvalid entryKind = iota
	kindBareLink
	kindRich
	kindEmbeddedURL
)

func (k entryKind) String() string {
	switch k {
	case kindBareLink:
		return "bare-link"
	case kindRich:
		return "rich"
	case kindEmbeddedURL:
		return "embedded-url"
	default:
		return "invalid"
	}
}

// parsedEntry is the result of one matcher.
type parsedEntry struct {
	kind   entryKind
	url    string
	title  string
	source string
}

type matcher func(text string) (parsedEntry, bool)

// matchers are tried in order; the first hit wins.
var matchers = []matcher{
	matchBareLink,
	matchRichCitation,
	matchEmbeddedURL,
}

var (
	// [https://x.com/a](https://x.com/a)
	bareLinkRe = regexp.MustCompile(`^\[(https?://[^\]]+)\]\([^)]+\)`)

	// ["Title"](https://x.com/a). _Source_. 2024.
	richRe = regexp.MustCompile(`\["?([^"\]]+)"?\]\(([^)]+)\)(.*)`)

	// Source is the first italic span after a period, else the first
	// capitalised run between periods.
	sourceRe = regexp.MustCompile(`\.\s*_([^_]+)_|\.\s*([A-Z][^.]+?)\.`)

	embeddedURLRe = regexp.MustCompile(`(https?://[^\s)]+)`)
)

func matchBareLink(text string) (parsedEntry, bool) {
	m := bareLinkRe.FindStringSubmatch(text)
	if m == nil {
		return parsedEntry{}, false
	}
	return parsedEntry{kind: kindBareLink, url: m[1]}, true
}

func matchRichCitation(text string) (parsedEntry, bool) {
	m := richRe.FindStringSubmatch(text)
	if m == nil {
		return parsedEntry{}, false
	}
	e := parsedEntry{kind: kindRich, title: m[1], url: m[2]}
	if s := sourceRe.FindStringSubmatch(m[3]); s != nil {
		e.source = s[1]
		if e.source == "" {
			e.source = s[2]
		}
	}
	return e, true
}

func matchEmbeddedURL(text string) (parsedEntry, bool) {
	m := embeddedURLRe.FindStringSubmatch(text)
	if m == nil {
		return parsedEntry{}, false
	}
	return parsedEntry{kind: kindEmbeddedURL, url: m[1]}, true
}

func classifyEntry(text string) parsedEntry {
	for _, match := range matchers {
		if e, ok := match(text); ok {
			return e
		}
	}
	return parsedEntry{kind: kindInvalid}
}

// parseEntry turns raw entry text into a Reference. The label and the full
// text are kept whatever the outcome.
func parseEntry(label int, text string) Reference {
	e := classifyEntry(text)
	return Reference{
		Label:    label,
		URL:      e.url,
		Title:    e.title,
		Source:   e.source,
		FullText: text,
		Valid:    e.kind != kindInvalid,
	}
}
