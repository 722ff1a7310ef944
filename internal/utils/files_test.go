package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFileCreatesParentAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	if err := SafeWriteFile(path, []byte("a")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := SafeWriteFile(path, []byte("b")); err != nil {
		t.Fatalf("second write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "b" {
		t.Fatalf("content = %q, want %q", b, "b")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	ok, err := FileExists(filepath.Join(dir, "missing.csv"))
	if err != nil || ok {
		t.Fatalf("missing file: ok=%v err=%v", ok, err)
	}
	ok, err = FileExists(dir)
	if err != nil || ok {
		t.Fatalf("directory reported as file: ok=%v err=%v", ok, err)
	}
	p := filepath.Join(dir, "log.csv")
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ok, err = FileExists(p)
	if err != nil || !ok {
		t.Fatalf("existing file: ok=%v err=%v", ok, err)
	}
}
