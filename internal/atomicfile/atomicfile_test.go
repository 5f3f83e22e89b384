package atomicfile

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestWriteFilePublishesOnSuccess(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.gcode")

	err := WriteFile(target, func(w io.Writer) error {
		_, err := io.WriteString(w, "G90\n")
		return err
	})
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	if string(data) != "G90\n" {
		t.Errorf("content = %q", data)
	}
}

func TestWriteFileLeavesNoArtifactOnFailure(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.gcode")

	err := WriteFile(target, func(w io.Writer) error {
		io.WriteString(w, "partial")
		return errors.New("emitter failed")
	})
	if err == nil {
		t.Fatal("expected the write error to propagate")
	}

	if _, statErr := os.Stat(target); !os.IsNotExist(statErr) {
		t.Error("failed write left an artifact at the target path")
	}
	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatalf("read dir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestWriteFileDoesNotClobberUntilCommit(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.gcode")
	if err := os.WriteFile(target, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := WriteFile(target, func(w io.Writer) error {
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected an error")
	}

	data, _ := os.ReadFile(target)
	if string(data) != "previous" {
		t.Errorf("existing file was damaged: %q", data)
	}
}

func TestAbortAfterCommitIsNoop(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.txt")
	f, err := Create(target)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(f, "ok"); err != nil {
		t.Fatal(err)
	}
	if err := f.Commit(); err != nil {
		t.Fatal(err)
	}
	f.Abort()

	data, err := os.ReadFile(target)
	if err != nil || string(data) != "ok" {
		t.Errorf("commit lost: %q, %v", data, err)
	}
}
