package textdoc

import (
	"fmt"
	"slices"
	"strings"
)

// Diff is a unified diff between two versions of a document.
type Diff struct {
	// Path is the file path used in the diff header.
	Path string

	// Hunks are the change groups, in document order.
	Hunks []DiffHunk

	// Additions and Deletions count changed lines across all hunks.
	Additions int
	Deletions int
}

// DiffHunk is one contiguous group of changes with surrounding context.
type DiffHunk struct {
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
	Lines         []DiffLine
}

// DiffLine is one line of a hunk.
type DiffLine struct {
	Kind    DiffLineKind
	Content string
}

// DiffLineKind classifies a hunk line.
type DiffLineKind int

const (
	DiffLineContext DiffLineKind = iota
	DiffLineAdd
	DiffLineRemove
)

// diffContextLines is the number of unchanged lines kept around each
// change group.
const diffContextLines = 3

// GenerateDiff computes a unified diff between original and modified
// content. Returns nil when the contents are line-identical.
func GenerateDiff(path string, original, modified []byte) *Diff {
	origLines := toLines(original)
	modLines := toLines(modified)
	if slices.Equal(origLines, modLines) {
		return nil
	}

	ops := diffOps(origLines, modLines)
	hunks := groupHunks(ops)
	if len(hunks) == 0 {
		return nil
	}

	d := &Diff{Path: path, Hunks: hunks}
	for _, h := range hunks {
		for _, l := range h.Lines {
			switch l.Kind {
			case DiffLineAdd:
				d.Additions++
			case DiffLineRemove:
				d.Deletions++
			}
		}
	}
	return d
}

// HasChanges reports whether the diff contains any hunks.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	p := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", p, p)
}

// String renders the diff in unified format without the git header.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	p := strings.TrimPrefix(d.Path, "/")
	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n", p)
	fmt.Fprintf(&b, "+++ b/%s\n", p)

	for _, h := range d.Hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n",
			h.OriginalStart, h.OriginalCount, h.ModifiedStart, h.ModifiedCount)
		for _, l := range h.Lines {
			switch l.Kind {
			case DiffLineContext:
				b.WriteByte(' ')
			case DiffLineAdd:
				b.WriteByte('+')
			case DiffLineRemove:
				b.WriteByte('-')
			}
			b.WriteString(l.Content)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// FullString renders the diff including the git header.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}

// toLines splits content into lines without terminators. A trailing
// newline does not produce a final empty line.
func toLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	lines := strings.Split(string(content), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// diffOp is one element of the flattened diff: a context, add, or remove
// line.
type diffOp struct {
	kind    DiffLineKind
	content string
}

// diffOps flattens the two line slices into a single op stream using a
// longest-common-subsequence alignment.
func diffOps(orig, mod []string) []diffOp {
	lcs := commonSubsequence(orig, mod)

	var ops []diffOp
	oi, mi, li := 0, 0, 0
	for oi < len(orig) || mi < len(mod) {
		if li < len(lcs) && oi < len(orig) && mi < len(mod) &&
			orig[oi] == lcs[li] && mod[mi] == lcs[li] {
			ops = append(ops, diffOp{kind: DiffLineContext, content: orig[oi]})
			oi++
			mi++
			li++
			continue
		}
		for oi < len(orig) && (li >= len(lcs) || orig[oi] != lcs[li]) {
			ops = append(ops, diffOp{kind: DiffLineRemove, content: orig[oi]})
			oi++
		}
		for mi < len(mod) && (li >= len(lcs) || mod[mi] != lcs[li]) {
			ops = append(ops, diffOp{kind: DiffLineAdd, content: mod[mi]})
			mi++
		}
	}
	return ops
}

// groupHunks splits the op stream into hunks, merging change groups whose
// context regions would touch.
func groupHunks(ops []diffOp) []DiffHunk {
	type span struct{ start, end int }
	var changes []span

	open := -1
	for i, op := range ops {
		if op.kind != DiffLineContext {
			if open < 0 {
				open = i
			}
			continue
		}
		if open >= 0 {
			changes = append(changes, span{open, i})
			open = -1
		}
	}
	if open >= 0 {
		changes = append(changes, span{open, len(ops)})
	}
	if len(changes) == 0 {
		return nil
	}

	var hunks []DiffHunk
	for i := 0; i < len(changes); {
		j := i + 1
		for j < len(changes) && changes[j].start-changes[j-1].end <= diffContextLines*2 {
			j++
		}
		hunks = append(hunks, buildHunk(ops, changes[i].start, changes[j-1].end))
		i = j
	}
	return hunks
}

// buildHunk assembles one hunk covering ops[changeStart:changeEnd] plus
// context.
func buildHunk(ops []diffOp, changeStart, changeEnd int) DiffHunk {
	start := max(changeStart-diffContextLines, 0)
	end := min(changeEnd+diffContextLines, len(ops))

	h := DiffHunk{OriginalStart: 1, ModifiedStart: 1}
	for _, op := range ops[:start] {
		if op.kind != DiffLineAdd {
			h.OriginalStart++
		}
		if op.kind != DiffLineRemove {
			h.ModifiedStart++
		}
	}

	for _, op := range ops[start:end] {
		h.Lines = append(h.Lines, DiffLine{Kind: op.kind, Content: op.content})
		switch op.kind {
		case DiffLineContext:
			h.OriginalCount++
			h.ModifiedCount++
		case DiffLineRemove:
			h.OriginalCount++
		case DiffLineAdd:
			h.ModifiedCount++
		}
	}
	return h
}

// commonSubsequence computes the longest common subsequence of two line
// slices with the standard dynamic program.
func commonSubsequence(orig, mod []string) []string {
	if len(orig) == 0 || len(mod) == 0 {
		return nil
	}

	dp := make([][]int, len(orig)+1)
	for i := range dp {
		dp[i] = make([]int, len(mod)+1)
	}
	for i := 1; i <= len(orig); i++ {
		for j := 1; j <= len(mod); j++ {
			if orig[i-1] == mod[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else {
				dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			}
		}
	}

	n := dp[len(orig)][len(mod)]
	if n == 0 {
		return nil
	}
	out := make([]string, n)
	i, j := len(orig), len(mod)
	for i > 0 && j > 0 {
		switch {
		case orig[i-1] == mod[j-1]:
			n--
			out[n] = orig[i-1]
			i--
			j--
		case dp[i-1][j] > dp[i][j-1]:
			i--
		default:
			j--
		}
	}
	return out
}
