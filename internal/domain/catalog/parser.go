package catalog

import (
	"os"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lookahead windows, in lines. A group key is classified by scanning at most
// GroupLookahead following lines; feature properties are collected from at
// most FeatureLookahead lines after the item.
const (
	GroupLookahead   = 5
	FeatureLookahead = 8
)

// State is the scanner state while walking catalog lines.
type State int

const (
	StateSeekingGroup State = iota
	StateInGroupHeader
	StateInFeaturesList
	StateInFeatureItem
)

func (s State) String() string {
	switch s {
	case StateSeekingGroup:
		return "seeking-group"
	case StateInGroupHeader:
		return "in-group-header"
	case StateInFeaturesList:
		return "in-features-list"
	case StateInFeatureItem:
		return "in-feature-item"
	default:
		return "unknown"
	}
}

var (
	groupKeyPattern    = regexp.MustCompile(`^  ([A-Za-z0-9_.-]+):\s*$`)
	groupPropPattern   = regexp.MustCompile(`^    (name|description|features):(.*)$`)
	featureItemPattern = regexp.MustCompile(`^( {6,})- name:(.*)$`)
	featurePropPattern = regexp.MustCompile(`^( +)(description|complexity|default):(.*)$`)
	bulletPattern      = regexp.MustCompile(`(?m)^ {6,}- name:`)
)

// Stats describes what the last parse kept and what it omitted.
type Stats struct {
	Groups        int
	Features      int
	DroppedGroups int
	SkippedKeys   int
	SkippedItems  int
}

// Parser turns catalog text into a Document. A Parser holds per-parse state
// and must not be shared between goroutines; use one per call.
type Parser struct {
	lines   []string
	state   State
	groups  []Group
	current *Group
	stats   Stats
}

// NewParser creates a new catalog parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse converts catalog content into a Document. It never fails: anything it
// cannot classify is left out of the result.
func (p *Parser) Parse(content []byte) Document {
	p.reset(string(content))

	for i, line := range p.lines {
		if id, ok := groupKey(line); ok {
			p.closeGroup()
			if p.looksLikeGroup(i) {
				p.current = &Group{ID: id, Features: []Feature{}}
				p.state = StateInGroupHeader
			} else {
				p.stats.SkippedKeys++
				p.state = StateSeekingGroup
			}
			continue
		}

		switch p.state {
		case StateInGroupHeader:
			p.header(line)
		case StateInFeaturesList, StateInFeatureItem:
			p.item(i)
		}
	}
	p.closeGroup()

	p.stats.Groups = len(p.groups)
	for _, g := range p.groups {
		p.stats.Features += len(g.Features)
	}

	return Document{Groups: p.groups}
}

// Stats returns counters for the most recent Parse call.
func (p *Parser) Stats() Stats {
	return p.stats
}

// State returns the scanner state at the end of the most recent Parse call.
func (p *Parser) State() State {
	return p.state
}

func (p *Parser) reset(src string) {
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	p.lines = lines
	p.state = StateSeekingGroup
	p.groups = []Group{}
	p.current = nil
	p.stats = Stats{}
}

// looksLikeGroup reports whether the key at line i has a 4-space name: or
// features: property within the lookahead window, stopping at the next key.
func (p *Parser) looksLikeGroup(i int) bool {
	for j := i + 1; j <= i+GroupLookahead && j < len(p.lines); j++ {
		if _, ok := groupKey(p.lines[j]); ok {
			return false
		}
		if m := groupPropPattern.FindStringSubmatch(p.lines[j]); m != nil {
			if m[1] == "name" || m[1] == "features" {
				return true
			}
		}
	}
	return false
}

func (p *Parser) header(line string) {
	m := groupPropPattern.FindStringSubmatch(line)
	if m == nil {
		return
	}
	switch m[1] {
	case "name":
		p.current.Name = unquote(m[2])
	case "description":
		p.current.Description = unquote(m[2])
	case "features":
		if strings.TrimSpace(m[2]) == "" {
			p.state = StateInFeaturesList
		}
	}
}

func (p *Parser) item(i int) {
	m := featureItemPattern.FindStringSubmatch(p.lines[i])
	if m == nil {
		return
	}

	name := unquote(m[2])
	if name == "" {
		p.stats.SkippedItems++
		p.state = StateInFeaturesList
		return
	}

	f := Feature{Name: name}
	p.properties(i, len(m[1]), &f)
	if f.Complexity == "" {
		f.Complexity = DefaultComplexity
	}
	if f.Default == "" {
		f.Default = DefaultDefault
	}

	p.addFeature(f)
	p.state = StateInFeatureItem
}

// properties scans the feature lookahead window below the item at line i.
// The first occurrence of each property wins.
func (p *Parser) properties(i, indent int, f *Feature) {
	var seenDesc bool
	for j := i + 1; j <= i+FeatureLookahead && j < len(p.lines); j++ {
		line := p.lines[j]
		if featureItemPattern.MatchString(line) {
			return
		}
		if _, ok := groupKey(line); ok {
			return
		}

		m := featurePropPattern.FindStringSubmatch(line)
		if m == nil || len(m[1]) <= indent {
			continue
		}
		value := unquote(m[3])
		switch m[2] {
		case "description":
			if !seenDesc {
				f.Description = value
				seenDesc = true
			}
		case "complexity":
			if f.Complexity == "" {
				f.Complexity = Complexity(value)
			}
		case "default":
			if f.Default == "" {
				f.Default = DefaultState(value)
			}
		}
	}
}

// addFeature appends f, replacing an earlier feature with the same name in
// place.
func (p *Parser) addFeature(f Feature) {
	for k := range p.current.Features {
		if p.current.Features[k].Name == f.Name {
			p.current.Features[k] = f
			return
		}
	}
	p.current.Features = append(p.current.Features, f)
}

// closeGroup emits the current group if it has features. A later group with
// an id already emitted replaces the earlier one in place.
func (p *Parser) closeGroup() {
	g := p.current
	p.current = nil
	if g == nil {
		return
	}
	if len(g.Features) == 0 {
		p.stats.DroppedGroups++
		return
	}
	if g.Name == "" {
		g.Name = Titleize(g.ID)
	}
	for k := range p.groups {
		if p.groups[k].ID == g.ID {
			p.groups[k] = *g
			return
		}
	}
	p.groups = append(p.groups, *g)
}

func groupKey(line string) (string, bool) {
	m := groupKeyPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// unquote trims whitespace and one pair of matching surrounding quotes.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Titleize derives a display name from a group id: underscores and hyphens
// become spaces and each word starts with an upper-case letter.
func Titleize(id string) string {
	words := strings.Split(strings.NewReplacer("_", " ", "-", " ").Replace(id), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// CountFeatures counts feature bullets without parsing. It is cheaper than
// Parse and may disagree with it for malformed catalogs.
func CountFeatures(content []byte) int {
	return len(bulletPattern.FindAllIndex(content, -1))
}

// ParseFile is a convenience function for parsing a catalog file. A missing
// or unreadable file yields an empty document.
func ParseFile(path string) Document {
	content, err := os.ReadFile(path)
	if err != nil {
		return Empty()
	}
	return NewParser().Parse(content)
}

// Parse is a convenience function for parsing catalog content.
func Parse(content []byte) Document {
	return NewParser().Parse(content)
}

// ParseString parses catalog text.
func ParseString(content string) Document {
	return Parse([]byte(content))
}
