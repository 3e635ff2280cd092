package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestSizeLimitedWriterRotatesIntoBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parlor.log")
	w, err := newSizeLimitedWriter(path, 1)
	if err != nil {
		t.Fatalf("create writer: %v", err)
	}
	defer w.Close()

	first := bytes.Repeat([]byte("a"), 768<<10)
	second := bytes.Repeat([]byte("b"), 512<<10)
	for _, chunk := range [][]byte{first, second} {
		if _, err := w.Write(chunk); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	live, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read live log: %v", err)
	}
	if !bytes.Equal(live, second) {
		t.Fatalf("live log should hold only the newest chunk, got %d bytes", len(live))
	}
	backup, err := os.ReadFile(path + ".1")
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if !bytes.Equal(backup, first) {
		t.Fatalf("backup should hold the rotated chunk, got %d bytes", len(backup))
	}
}

func TestSizeLimitedWriterAppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parlor.log")
	if err := os.WriteFile(path, []byte("old\n"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	w, err := newSizeLimitedWriter(path, 1)
	if err != nil {
		t.Fatalf("create writer: %v", err)
	}
	if _, err := w.Write([]byte("new\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "old\nnew\n" {
		t.Fatalf("log = %q", got)
	}
}

func TestSizeLimitedWriterOversizedWriteStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parlor.log")
	w, err := newSizeLimitedWriter(path, 1)
	if err != nil {
		t.Fatalf("create writer: %v", err)
	}
	defer w.Close()
	if _, err := w.Write([]byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}
	big := bytes.Repeat([]byte("y"), 2<<20)
	if _, err := w.Write(big); err != nil {
		t.Fatalf("write big: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() != int64(len(big)) {
		t.Fatalf("live log size = %v %v", info, err)
	}
}
