package makemkv

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeExecutor struct {
	binary string
	args   []string
	lines  []string
	err    error
}

func (f *fakeExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	f.binary = binary
	f.args = args
	for _, line := range f.lines {
		onLine(line)
	}
	return f.err
}

func TestRipAllCommandShape(t *testing.T) {
	t.Parallel()

	fake := &fakeExecutor{lines: []string{"MSG:1005,0,1,\"MakeMKV started\""}}
	client, err := New("makemkvcon", 0, WithExecutor(fake))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	destDir := t.TempDir()
	logPath, err := client.RipAll(context.Background(), 1, destDir, 240)
	if err != nil {
		t.Fatalf("RipAll: %v", err)
	}

	want := []string{"-r", "--minlength=240", "mkv", "disc:1", "all", destDir}
	if strings.Join(fake.args, " ") != strings.Join(want, " ") {
		t.Fatalf("args %v, want %v", fake.args, want)
	}

	raw, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(raw), "CMD: makemkvcon -r --minlength=240") {
		t.Fatalf("log missing command header: %s", raw)
	}
	if !strings.Contains(string(raw), "MakeMKV started") {
		t.Fatalf("log missing tool output: %s", raw)
	}
	if filepath.Dir(logPath) != destDir {
		t.Fatalf("log %q not inside destination", logPath)
	}
}

func TestRipAllSurfacesExitErrorWithLog(t *testing.T) {
	t.Parallel()

	fake := &fakeExecutor{err: os.ErrPermission}
	client, err := New("makemkvcon", 0, WithExecutor(fake))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logPath, err := client.RipAll(context.Background(), 0, t.TempDir(), 360)
	if err == nil {
		t.Fatal("expected error")
	}
	if logPath == "" {
		t.Fatal("log path must survive a failed rip")
	}
}

func TestNewRequiresBinary(t *testing.T) {
	t.Parallel()

	if _, err := New("  ", 0); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestTitleIndex(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		index int
		ok    bool
	}{
		{"title_t03.mkv", 3, true},
		{"Title00.mkv", 0, true},
		{"B2_t12.mkv", 12, true},
		{"movie.mkv", 0, false},
	}
	for _, tc := range cases {
		index, ok := TitleIndex(tc.name)
		if ok != tc.ok || index != tc.index {
			t.Errorf("TitleIndex(%q) = %d, %v; want %d, %v", tc.name, index, ok, tc.index, tc.ok)
		}
	}
}
