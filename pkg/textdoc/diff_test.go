package textdoc_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/retab/pkg/textdoc"
)

func TestGenerateDiffNilOnEqual(t *testing.T) {
	t.Parallel()

	content := []byte("one\ntwo\nthree\n")
	if d := textdoc.GenerateDiff("a.txt", content, content); d != nil {
		t.Errorf("expected nil diff for equal content, got %+v", d)
	}
}

func TestGenerateDiffCounts(t *testing.T) {
	t.Parallel()

	orig := []byte("\tone\n\ttwo\nthree\n")
	mod := []byte("    one\n    two\nthree\n")

	d := textdoc.GenerateDiff("a.txt", orig, mod)
	if !d.HasChanges() {
		t.Fatal("expected changes")
	}
	if d.Additions != 2 || d.Deletions != 2 {
		t.Errorf("additions/deletions = %d/%d, want 2/2", d.Additions, d.Deletions)
	}
	if len(d.Hunks) != 1 {
		t.Errorf("hunks = %d, want 1", len(d.Hunks))
	}
}

func TestDiffStringFormat(t *testing.T) {
	t.Parallel()

	orig := []byte("a\nb\nc\n")
	mod := []byte("a\nB\nc\n")

	d := textdoc.GenerateDiff("/tmp/x.go", orig, mod)
	out := d.String()

	for _, want := range []string{"--- a/tmp/x.go", "+++ b/tmp/x.go", "@@ -1,3 +1,3 @@", "-b", "+B", " a", " c"} {
		if !strings.Contains(out, want) {
			t.Errorf("diff output missing %q:\n%s", want, out)
		}
	}

	full := d.FullString()
	if !strings.HasPrefix(full, "diff --git a/tmp/x.go b/tmp/x.go\n") {
		t.Errorf("FullString missing git header:\n%s", full)
	}
}

func TestGenerateDiffSeparateHunks(t *testing.T) {
	t.Parallel()

	var orig, mod strings.Builder
	for i := 0; i < 30; i++ {
		orig.WriteString("line\n")
		mod.WriteString("line\n")
	}
	origLines := strings.Split(orig.String(), "\n")
	modLines := strings.Split(mod.String(), "\n")
	origLines[2] = "changed-early"
	modLines[2] = "CHANGED-EARLY"
	origLines[25] = "changed-late"
	modLines[25] = "CHANGED-LATE"

	d := textdoc.GenerateDiff("f",
		[]byte(strings.Join(origLines, "\n")),
		[]byte(strings.Join(modLines, "\n")))

	if len(d.Hunks) != 2 {
		t.Fatalf("hunks = %d, want 2 (changes far apart)", len(d.Hunks))
	}
	if d.Hunks[0].OriginalStart >= d.Hunks[1].OriginalStart {
		t.Error("hunks out of document order")
	}
}

func TestGenerateDiffNilOnBothEmpty(t *testing.T) {
	t.Parallel()

	if d := textdoc.GenerateDiff("e", nil, nil); d != nil {
		t.Errorf("expected nil diff, got %+v", d)
	}
}
