package markdown_test

import (
	"context"
	"testing"

	"github.com/yaklabco/retab/pkg/indent"
	"github.com/yaklabco/retab/pkg/language"
	"github.com/yaklabco/retab/pkg/markdown"
	"github.com/yaklabco/retab/pkg/reindent"
	"github.com/yaklabco/retab/pkg/textdoc"
)

func planDoc(t *testing.T, content string, req reindent.PlanRequest) (*textdoc.Document, *reindent.Outcome) {
	t.Helper()

	if req.Registry == nil {
		req.Registry = language.DefaultRegistry
	}
	doc := textdoc.NewDocument("doc.md", []byte(content))
	out, err := markdown.NewPlanner()(doc, req)
	if err != nil {
		t.Fatalf("planner error: %v", err)
	}
	return doc, out
}

func apply(t *testing.T, doc *textdoc.Document, out *reindent.Outcome) string {
	t.Helper()

	got, err := doc.ApplyEdits(out.Edits)
	if err != nil {
		t.Fatalf("apply edits: %v", err)
	}
	return string(got)
}

func TestPlanner_ConvertFencedBlock(t *testing.T) {
	t.Parallel()

	src := "# Title\n" +
		"\n" +
		"```go\n" +
		"func main() {\n" +
		"        run()\n" +
		"}\n" +
		"```\n" +
		"\n" +
		"    indented prose outside the fence\n"

	doc, out := planDoc(t, src, reindent.PlanRequest{
		Op:      reindent.OpConvert,
		Style:   indent.Tabs,
		TabSize: 4,
	})

	if len(out.Edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(out.Edits))
	}

	want := "# Title\n" +
		"\n" +
		"```go\n" +
		"func main() {\n" +
		"\t\trun()\n" +
		"}\n" +
		"```\n" +
		"\n" +
		"    indented prose outside the fence\n"

	if got := apply(t, doc, out); got != want {
		t.Errorf("applied = %q, want %q", got, want)
	}
}

func TestPlanner_ReindentFencedBlock(t *testing.T) {
	t.Parallel()

	src := "```go\n" +
		"func main() {\n" +
		"run()\n" +
		"}\n" +
		"```\n"

	doc, out := planDoc(t, src, reindent.PlanRequest{
		Op:      reindent.OpReindent,
		Style:   indent.Tabs,
		TabSize: 4,
	})

	want := "```go\n" +
		"func main() {\n" +
		"\trun()\n" +
		"}\n" +
		"```\n"

	if got := apply(t, doc, out); got != want {
		t.Errorf("applied = %q, want %q", got, want)
	}
}

func TestPlanner_IndentedFenceKeepsBase(t *testing.T) {
	t.Parallel()

	src := "- item\n" +
		"  ```go\n" +
		"  func f() {\n" +
		"  run()\n" +
		"  }\n" +
		"  ```\n"

	doc, out := planDoc(t, src, reindent.PlanRequest{
		Op:      reindent.OpReindent,
		Style:   indent.Tabs,
		TabSize: 4,
	})

	want := "- item\n" +
		"  ```go\n" +
		"  func f() {\n" +
		"  \trun()\n" +
		"  }\n" +
		"  ```\n"

	if got := apply(t, doc, out); got != want {
		t.Errorf("applied = %q, want %q", got, want)
	}

	// The span change folds the fence indentation into the leading span.
	if len(out.Changes) != 1 {
		t.Fatalf("changes = %d, want 1", len(out.Changes))
	}
	change := out.Changes[0]
	if change.Line != 4 || change.OldLen != 2 || change.NewLen != 3 {
		t.Errorf("change = %+v, want line 4 span 2->3", change)
	}
}

func TestPlanner_IgnoresUnknownAndBareFences(t *testing.T) {
	t.Parallel()

	src := "```\n" +
		"\tno info string\n" +
		"```\n" +
		"\n" +
		"```brainfuck\n" +
		"\tunknown language\n" +
		"```\n"

	_, out := planDoc(t, src, reindent.PlanRequest{
		Op:      reindent.OpConvert,
		Style:   indent.Spaces,
		TabSize: 4,
	})

	if len(out.Edits) != 0 {
		t.Errorf("edits = %d, want 0 (nothing recognizable)", len(out.Edits))
	}
	if out.Status != reindent.StatusApplied {
		t.Errorf("Status = %q, want applied", out.Status)
	}
}

func TestPlanner_MultipleBlocks(t *testing.T) {
	t.Parallel()

	src := "```python\n" +
		"if x:\n" +
		"        go()\n" +
		"```\n" +
		"\n" +
		"```ruby\n" +
		"def f\n" +
		"        1\n" +
		"end\n" +
		"```\n"

	doc, out := planDoc(t, src, reindent.PlanRequest{
		Op:      reindent.OpConvert,
		Style:   indent.Tabs,
		TabSize: 4,
	})

	if len(out.Edits) != 2 {
		t.Fatalf("edits = %d, want 2 (one per block)", len(out.Edits))
	}

	want := "```python\n" +
		"if x:\n" +
		"\t\tgo()\n" +
		"```\n" +
		"\n" +
		"```ruby\n" +
		"def f\n" +
		"\t\t1\n" +
		"end\n" +
		"```\n"

	if got := apply(t, doc, out); got != want {
		t.Errorf("applied = %q, want %q", got, want)
	}
}

func TestPlanner_InfoStringAliasesAndAttributes(t *testing.T) {
	t.Parallel()

	// "py" is a registry alias; trailing attributes after the language
	// word are ignored.
	src := "```py title=example.py\n" +
		"if x:\n" +
		"\tgo()\n" +
		"```\n"

	doc, out := planDoc(t, src, reindent.PlanRequest{
		Op:      reindent.OpConvert,
		Style:   indent.Spaces,
		TabSize: 2,
	})

	want := "```py title=example.py\n" +
		"if x:\n" +
		"  go()\n" +
		"```\n"

	if got := apply(t, doc, out); got != want {
		t.Errorf("applied = %q, want %q", got, want)
	}
}

func TestRegister_PipelineIntegration(t *testing.T) {
	t.Parallel()

	pipe := reindent.NewPipeline(nil)
	markdown.Register(pipe)

	src := []byte("# Doc\n" +
		"\n" +
		"```go\n" +
		"func main() {\n" +
		"    run()\n" +
		"}\n" +
		"```\n")

	opts := reindent.PipelineOptions{
		Op:      reindent.OpConvert,
		Style:   indent.Tabs,
		TabSize: 4,
	}

	ctx := context.Background()
	result, err := pipe.ProcessContent(ctx, "README.md", src, opts)
	if err != nil {
		t.Fatalf("ProcessContent() error = %v", err)
	}

	if !result.Changed {
		t.Fatal("Changed should be true")
	}
	want := "# Doc\n" +
		"\n" +
		"```go\n" +
		"func main() {\n" +
		"\trun()\n" +
		"}\n" +
		"```\n"
	if string(result.ModifiedContent) != want {
		t.Errorf("ModifiedContent = %q, want %q", result.ModifiedContent, want)
	}

	// Re-running on the rewritten content is a no-op.
	again, err := pipe.ProcessContent(ctx, "README.md", result.ModifiedContent, opts)
	if err != nil {
		t.Fatalf("second ProcessContent() error = %v", err)
	}
	if again.Changed {
		t.Error("second run should report no changes")
	}
}

func TestExtensions(t *testing.T) {
	t.Parallel()

	exts := markdown.Extensions()
	if len(exts) == 0 {
		t.Fatal("Extensions() should not be empty")
	}

	seen := make(map[string]bool, len(exts))
	for _, ext := range exts {
		if ext == "" || ext[0] != '.' {
			t.Errorf("extension %q should start with a dot", ext)
		}
		if seen[ext] {
			t.Errorf("duplicate extension %q", ext)
		}
		seen[ext] = true
	}
	if !seen[".md"] {
		t.Error(".md missing")
	}
}
