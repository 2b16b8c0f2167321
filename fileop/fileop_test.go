package fileop

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeString(s string) func(io.Writer) (int64, error) {
	return func(w io.Writer) (int64, error) {
		n, err := io.WriteString(w, s)
		return int64(n), err
	}
}

func TestWriteFileCreatesDestination(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nested", "out.bmp")

	n, err := WriteFile(dest, false, writeString("BM"))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("n = %d, want 2", n)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "BM" {
		t.Errorf("content = %q", data)
	}
	assertNoTempFiles(t, filepath.Dir(dest))
}

func TestWriteFileRefusesExisting(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.bmp")
	if err := os.WriteFile(dest, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := WriteFile(dest, false, writeString("new"))
	if !errors.Is(err, ErrExists) {
		t.Fatalf("error = %v, want ErrExists", err)
	}
	if data, _ := os.ReadFile(dest); string(data) != "old" {
		t.Errorf("destination was modified: %q", data)
	}

	if _, err := WriteFile(dest, true, writeString("new")); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(dest); string(data) != "new" {
		t.Errorf("destination not overwritten: %q", data)
	}
}

func TestWriteFileKeepsDestinationOnFailure(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.bmp")
	if err := os.WriteFile(dest, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	failing := func(w io.Writer) (int64, error) {
		n, _ := io.WriteString(w, "partial")
		return int64(n), errors.New("encoder broke")
	}
	if _, err := WriteFile(dest, true, failing); err == nil {
		t.Fatal("WriteFile succeeded")
	}

	if data, _ := os.ReadFile(dest); string(data) != "old" {
		t.Errorf("destination replaced by a failed write: %q", data)
	}
	assertNoTempFiles(t, dir)
}

func TestCheckDest(t *testing.T) {
	dir := t.TempDir()
	if err := CheckDest(filepath.Join(dir, "free.bmp")); err != nil {
		t.Errorf("CheckDest(free) = %v", err)
	}
	if err := CheckDest(dir); err == nil {
		t.Error("CheckDest(directory) succeeded")
	}
	if _, err := WriteFile(dir, true, writeString("x")); err == nil {
		t.Error("WriteFile over a directory succeeded")
	}
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) > 0 {
		t.Errorf("temporary files left behind: %v", matches)
	}
}
