package progress

import (
	"bytes"
	"testing"
)

func TestLineReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &LineReporter{Out: &buf}
	r.Start(2)
	r.Update(1, "history/rome.html")
	r.Update(2, "index.html")
	r.Finish()

	want := "Building 2 pages\n[1/2] history/rome.html\n[2/2] index.html\nBuild complete\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter().(*LineReporter); !ok {
		t.Error("NewReporter() in CI should return a LineReporter")
	}
}
