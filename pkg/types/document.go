// Copyright Neuromechanist Labs, 2025. All rights reserved.

package types

// Heading is one markdown heading as a (level, text) pair.
type Heading struct {
	Level int    `json:"level" yaml:"level"`
	Text  string `json:"text" yaml:"text"`
}

// Link is one markdown link as (text, target).
type Link struct {
	Text   string `json:"text" yaml:"text"`
	Target string `json:"target" yaml:"target"`
}

// Metadata holds summary statistics derived from final markdown. It is a
// pure read-only projection of the document text, produced for output
// metadata and logging, never for control flow.
type Metadata struct {
	WordCount int `json:"word_count" yaml:"word_count"`
	CharCount int `json:"char_count" yaml:"char_count"`
	LineCount int `json:"line_count" yaml:"line_count"`

	Headings []Heading `json:"headings" yaml:"headings"`

	// MathCount is the combined number of inline and display math spans.
	MathCount int `json:"math_equations" yaml:"math_equations"`

	// Images lists image reference targets in document order.
	Images []string `json:"images" yaml:"images"`

	// TableCount approximates the number of tables as the count of
	// distinct pipe-delimited lines divided by two. Known to be imprecise
	// for multi-row tables; kept stable because consumers depend on its
	// scale.
	TableCount int `json:"tables" yaml:"tables"`

	Links []Link `json:"links" yaml:"links"`
}

// Document is the final assembled markdown plus its derived metadata.
// A Document is produced once per conversion and not mutated afterward.
type Document struct {
	Markdown string
	Metadata Metadata
}
