// Package token defines the line classification surface the re-indent
// engine consumes. Hosts with a real tokenizer adapt it to Classifier;
// without one the engine falls back to its own marker scan.
package token

// Tag classifies a span of a line.
type Tag int

const (
	// TagOther marks ordinary code.
	TagOther Tag = iota

	// TagComment marks line or block comment content, delimiters included.
	TagComment

	// TagString marks string literal content, quotes included.
	TagString
)

// String returns the tag name used in logs and test output.
func (t Tag) String() string {
	switch t {
	case TagComment:
		return "comment"
	case TagString:
		return "string"
	default:
		return "other"
	}
}

// Span is a tagged run of characters on one line. Columns are 1-based
// byte offsets; EndColumn is exclusive. A span never crosses a line
// boundary: multi-line constructs produce one span per line, with
// Continues set on every span except the one holding the close marker.
type Span struct {
	StartColumn int
	EndColumn   int
	Tag         Tag

	// Continues marks a comment or string span whose construct runs past
	// the end of this line.
	Continues bool
}

// Len returns the span's width in bytes.
func (s Span) Len() int {
	if s.EndColumn < s.StartColumn {
		return 0
	}
	return s.EndColumn - s.StartColumn
}

// Classifier reports the comment and string spans of a line. Spans must
// be non-overlapping and ordered by StartColumn; uncovered stretches are
// implicitly TagOther. Implementations are consulted line by line in
// document order.
type Classifier interface {
	ClassifyLine(line int) []Span
}

// SpanFunc adapts a function to the Classifier interface.
type SpanFunc func(line int) []Span

// ClassifyLine implements Classifier.
func (f SpanFunc) ClassifyLine(line int) []Span {
	return f(line)
}
