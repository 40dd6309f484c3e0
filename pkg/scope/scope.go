// Package scope tracks comment and string state across the lines of a
// block and produces the masked rule text indent rules are evaluated
// against. Masking blanks every comment and string byte, delimiters
// included, so keywords inside them can never fire a rule. The tracker is
// strictly forward: lines are scanned once, in order.
package scope

import (
	"strings"

	"github.com/yaklabco/retab/pkg/language"
	"github.com/yaklabco/retab/pkg/token"
)

// LineScan is the tracker's verdict for one line.
type LineScan struct {
	// OpensInside reports that the line's first character sits inside a
	// block comment or multi-line string opened on an earlier line. Such
	// lines keep their whitespace verbatim.
	OpensInside bool

	// RuleText is the line with comment and string spans blanked and
	// trailing whitespace trimmed. Leading whitespace is preserved.
	RuleText string
}

// Tracker scans lines in document order, carrying comment and string
// state between them. With a token.Classifier the host's own token
// stream drives the masking; without one a marker scan over the
// language's comment and string delimiters stands in.
type Tracker struct {
	classifier token.Classifier
	scan       *scanner

	// continues carries the classifier path's state: the previous line
	// ended inside a multi-line construct.
	continues bool
}

// NewTracker builds a tracker for one block scan. classifier may be nil.
func NewTracker(lang *language.Language, classifier token.Classifier) *Tracker {
	t := &Tracker{classifier: classifier}
	if classifier == nil && lang != nil {
		t.scan = newScanner(lang.Config())
	}
	return t
}

// Scan consumes the next line and returns its verdict. line is the
// 1-based document line number used to query the classifier.
func (t *Tracker) Scan(line int, text string) LineScan {
	if t.classifier != nil {
		return t.scanClassified(line, text)
	}
	if t.scan != nil {
		opened, masked := t.scan.scanLine(text)
		return LineScan{
			OpensInside: opened,
			RuleText:    strings.TrimRight(masked, " \t"),
		}
	}
	return LineScan{RuleText: strings.TrimRight(text, " \t")}
}

// scanClassified masks the spans reported by the host tokenizer and
// carries continuation state between lines.
func (t *Tracker) scanClassified(line int, text string) LineScan {
	spans := t.classifier.ClassifyLine(line)

	out := LineScan{OpensInside: t.continues}
	t.continues = false

	masked := []byte(text)
	for _, s := range spans {
		if s.Tag == token.TagOther {
			continue
		}
		start := s.StartColumn - 1
		end := s.EndColumn - 1
		if start < 0 {
			start = 0
		}
		if end > len(masked) {
			end = len(masked)
		}
		for i := start; i < end; i++ {
			masked[i] = ' '
		}
	}
	if n := len(spans); n > 0 && spans[n-1].Continues {
		t.continues = true
	}

	out.RuleText = strings.TrimRight(string(masked), " \t")
	return out
}
