package walker

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
)

// testdataDir returns the absolute path to the testdata/sample_wiki directory.
func testdataDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("unable to determine test file location")
	}
	root := filepath.Join(filepath.Dir(filename), "..", "..", "testdata", "sample_wiki")
	abs, err := filepath.Abs(root)
	if err != nil {
		t.Fatalf("resolve testdata path: %v", err)
	}
	if _, err := os.Stat(abs); os.IsNotExist(err) {
		t.Fatalf("testdata dir does not exist: %s", abs)
	}
	return abs
}

func relPaths(files []File) []string {
	var out []string
	for _, f := range files {
		out = append(out, f.RelPath)
	}
	sort.Strings(out)
	return out
}

func TestWalk_SampleWiki(t *testing.T) {
	dir := testdataDir(t)

	files, err := Walk(context.Background(), Config{
		RootDir: dir,
		Skip:    []string{filepath.Join(dir, "pages.json"), filepath.Join(dir, "nav.yml")},
	})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	got := relPaths(files)
	want := []string{"history/greece.md", "history/rome.html", "img/forum.svg", "index.md", "math/algebra.html"}
	if len(got) != len(want) {
		t.Fatalf("Walk() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("file %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWalk_FileFields(t *testing.T) {
	files, err := Walk(context.Background(), Config{RootDir: testdataDir(t)})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	for _, f := range files {
		if !filepath.IsAbs(f.Path) {
			t.Errorf("%s: Path %q is not absolute", f.RelPath, f.Path)
		}
		if len(f.ContentHash) != 64 {
			t.Errorf("%s: ContentHash has length %d, want 64", f.RelPath, len(f.ContentHash))
		}
		if f.Size <= 0 {
			t.Errorf("%s: Size = %d", f.RelPath, f.Size)
		}
	}
}

func TestWalk_GitignoreAndHidden(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(".gitignore", "drafts/\n*.tmp\n/secret.md\n!keep.tmp\n")
	write("a.md", "# A")
	write("drafts/b.md", "# B")
	write("notes/secret.md", "nested, not anchored")
	write("secret.md", "anchored")
	write("x.tmp", "tmp")
	write("keep.tmp", "kept")
	write(".DS_Store", "junk")
	write("node_modules/pkg/readme.md", "dep")

	files, err := Walk(context.Background(), Config{RootDir: dir})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	got := relPaths(files)
	want := []string{"a.md", "keep.tmp", "notes/secret.md"}
	if len(got) != len(want) {
		t.Fatalf("Walk() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("file %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWalk_IncludeExclude(t *testing.T) {
	dir := testdataDir(t)
	files, err := Walk(context.Background(), Config{
		RootDir: dir,
		Include: []string{"**/*.html", "**/*.md"},
		Exclude: []string{"math/**"},
	})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	for _, f := range files {
		if !f.Kind.IsArticle() {
			t.Errorf("%s: non-article passed include filter", f.RelPath)
		}
		if f.RelPath == "math/algebra.html" {
			t.Error("math/algebra.html passed exclude filter")
		}
	}
	if len(files) != 3 {
		t.Errorf("got %d files, want 3", len(files))
	}
}

func TestWalk_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Walk(ctx, Config{RootDir: testdataDir(t)}); err == nil {
		t.Error("Walk() with cancelled context returned no error")
	}
}

func TestWalk_MissingRoot(t *testing.T) {
	if _, err := Walk(context.Background(), Config{RootDir: filepath.Join(t.TempDir(), "nope")}); err == nil {
		t.Error("Walk() on missing root returned no error")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"page.html", KindHTML},
		{"PAGE.HTM", KindHTML},
		{"notes.md", KindMarkdown},
		{"notes.markdown", KindMarkdown},
		{"photo.png", KindAsset},
		{"README", KindAsset},
	}
	for _, tt := range tests {
		if got := Classify(tt.name); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		file File
		want string
	}{
		{File{RelPath: "a/b.md", Kind: KindMarkdown}, "a/b.html"},
		{File{RelPath: "a/b.htm", Kind: KindHTML}, "a/b.html"},
		{File{RelPath: "a/b.html", Kind: KindHTML}, "a/b.html"},
		{File{RelPath: "img/x.png", Kind: KindAsset}, "img/x.png"},
	}
	for _, tt := range tests {
		if got := tt.file.OutputPath(); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.file.RelPath, got, tt.want)
		}
	}
}

func TestMatchesIncludeExclude(t *testing.T) {
	if !MatchesInclude("any/file.md", nil) {
		t.Error("empty include list should include everything")
	}
	if MatchesExclude("any/file.md", nil) {
		t.Error("empty exclude list should exclude nothing")
	}
	if !MatchesInclude("deep/nested/page.html", []string{"**/*.html"}) {
		t.Error("**/*.html should match nested page")
	}
	if !MatchesExclude("dir/draft.md", []string{"draft.md"}) {
		t.Error("bare name pattern should match the base name")
	}
	if MatchesInclude("page.md", []string{"*.html"}) {
		t.Error("*.html should not match page.md")
	}
}
