package catalog

// Complexity is the implementation effort of a feature. The set of values is
// open: authors may introduce new ones and the parser keeps them verbatim.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Known reports whether c is one of the documented complexity levels.
func (c Complexity) Known() bool {
	switch c {
	case ComplexityLow, ComplexityMedium, ComplexityHigh:
		return true
	}
	return false
}

// DefaultState is the initial state of a feature in a generated driver.
type DefaultState string

const (
	DefaultOn       DefaultState = "on"
	DefaultOff      DefaultState = "off"
	DefaultDisabled DefaultState = "disabled"
)

// Known reports whether s is one of the documented default states.
func (s DefaultState) Known() bool {
	switch s {
	case DefaultOn, DefaultOff, DefaultDisabled:
		return true
	}
	return false
}

// Parser defaults for properties missing from the source.
const (
	DefaultComplexity = ComplexityMedium
	DefaultDefault    = DefaultOff
)

// Feature is a leaf item of a group.
type Feature struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Complexity  Complexity   `json:"complexity"`
	Default     DefaultState `json:"default"`
}

// Group is a named section of a catalog.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Features    []Feature `json:"features"`
}

// Document is the parse result for one catalog.
type Document struct {
	Groups []Group `json:"groups"`
}

// Empty returns a document with no groups. Groups is non-nil so that it
// serializes as an empty JSON array.
func Empty() Document {
	return Document{Groups: []Group{}}
}

// FeatureCount returns the number of features across all groups.
func (d Document) FeatureCount() int {
	n := 0
	for _, g := range d.Groups {
		n += len(g.Features)
	}
	return n
}

// Unknown returns the features whose complexity or default state falls
// outside the documented sets, keyed by "group/feature".
func (d Document) Unknown() []string {
	var out []string
	for _, g := range d.Groups {
		for _, f := range g.Features {
			if !f.Complexity.Known() || !f.Default.Known() {
				out = append(out, g.ID+"/"+f.Name)
			}
		}
	}
	return out
}
