package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRotatingFileWriterBasicWrite(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")

	w, err := NewRotatingFileWriter(logFile, 1024, 3)
	if err != nil {
		t.Fatalf("NewRotatingFileWriter: %v", err)
	}
	defer func() { _ = w.Close() }()

	msg := []byte("hello\n")
	n, err := w.Write(msg)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != len(msg) {
		t.Errorf("wrote %d bytes, want %d", n, len(msg))
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	if !bytes.Equal(data, msg) {
		t.Errorf("file contents = %q, want %q", data, msg)
	}
}

func TestRotatingFileWriterAppendsToExisting(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")

	if err := os.WriteFile(logFile, []byte("first\n"), 0600); err != nil {
		t.Fatalf("seeding file: %v", err)
	}

	w, err := NewRotatingFileWriter(logFile, 1024, 3)
	if err != nil {
		t.Fatalf("NewRotatingFileWriter: %v", err)
	}
	defer func() { _ = w.Close() }()

	if _, err := w.Write([]byte("second\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	if string(data) != "first\nsecond\n" {
		t.Errorf("file contents = %q", data)
	}
}

func TestRotatingFileWriterRotates(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "test.log")

	w, err := NewRotatingFileWriter(logFile, 20, 3)
	if err != nil {
		t.Fatalf("NewRotatingFileWriter: %v", err)
	}
	defer func() { _ = w.Close() }()

	line := strings.Repeat("a", 15) + "\n"
	if _, err := w.Write([]byte(line)); err != nil {
		t.Fatalf("first write: %v", err)
	}
	// Second write exceeds maxSize and forces a rotation.
	if _, err := w.Write([]byte(line)); err != nil {
		t.Fatalf("second write: %v", err)
	}

	backup := logFile + ".1"
	backupData, err := os.ReadFile(backup)
	if err != nil {
		t.Fatalf("backup file missing: %v", err)
	}
	if string(backupData) != line {
		t.Errorf("backup contents = %q, want first line", backupData)
	}

	current, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("reading current file: %v", err)
	}
	if string(current) != line {
		t.Errorf("current contents = %q, want second line", current)
	}
}

func TestRotatingFileWriterDropsOldestBackup(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "test.log")

	w, err := NewRotatingFileWriter(logFile, 10, 2)
	if err != nil {
		t.Fatalf("NewRotatingFileWriter: %v", err)
	}
	defer func() { _ = w.Close() }()

	// Each write fills the file and pushes the next one into a rotation.
	line := strings.Repeat("x", 9) + "\n"
	for i := 0; i < 5; i++ {
		if _, err := w.Write([]byte(line)); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if len(names) > 3 {
		t.Errorf("expected at most current file plus 2 backups, got %v", names)
	}
	if _, err := os.Stat(logFile + ".3"); !os.IsNotExist(err) {
		t.Errorf("backup beyond maxBackups should not exist: %v", err)
	}
}

func TestRotatingFileWriterClose(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")

	w, err := NewRotatingFileWriter(logFile, 1024, 1)
	if err != nil {
		t.Fatalf("NewRotatingFileWriter: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
