package domain

import "strings"

// StyleAttribute is one inferred clothing concept extracted from an
// aesthetic description. All three fields are non-empty after validation;
// partial entries are dropped, never propagated.
type StyleAttribute struct {
	ItemType string `json:"item_type"`
	Color    string `json:"color"`
	Style    string `json:"style"`
}

// Normalize trims surrounding whitespace from every field.
func (a StyleAttribute) Normalize() StyleAttribute {
	return StyleAttribute{
		ItemType: strings.TrimSpace(a.ItemType),
		Color:    strings.TrimSpace(a.Color),
		Style:    strings.TrimSpace(a.Style),
	}
}

// Valid reports whether all three fields are populated.
func (a StyleAttribute) Valid() bool {
	return a.ItemType != "" && a.Color != "" && a.Style != ""
}

// QueryText builds the compact embedding query string for the attribute.
func (a StyleAttribute) QueryText() string {
	return strings.TrimSpace(a.Color + " " + a.ItemType + " " + a.Style)
}

// Keywords returns the textual relevance terms contributed by the
// attribute when the retrieval stage yields no candidates.
func (a StyleAttribute) Keywords() []string {
	var kw []string
	if a.ItemType != "" {
		kw = append(kw, a.ItemType)
	}
	if a.Style != "" {
		kw = append(kw, a.Style)
	}
	return kw
}

// InterpretationSource tags how a set of attributes was produced.
type InterpretationSource string

const (
	// SourceModel means the attributes came from the language model.
	SourceModel InterpretationSource = "model"
	// SourceFallback means the deterministic fallback table produced them.
	SourceFallback InterpretationSource = "fallback"
	// SourceNone means the input was empty and nothing was interpreted.
	SourceNone InterpretationSource = "none"
)

// Interpretation is the tagged outcome of interpreting an aesthetic
// description. Selecting the fallback path is data, not control flow.
type Interpretation struct {
	Source     InterpretationSource
	Attributes []StyleAttribute
}
