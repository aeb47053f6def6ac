package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_Exists(t *testing.T) {
	fsys := OSFileSystem{}

	if !fsys.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}
	if fsys.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestOSFileSystem_CreateAllAndRead(t *testing.T) {
	fsys := OSFileSystem{}
	name := filepath.Join(t.TempDir(), "nested", "dir", "out.csv")

	w, err := CreateAll(fsys, name)
	if err != nil {
		t.Fatalf("CreateAll failed: %v", err)
	}
	if _, err := io.WriteString(w, "snr,trials\n"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := fsys.ReadFile(name)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "snr,trials\n" {
		t.Errorf("got %q", data)
	}
}

func TestMemoryFileSystem_CreateVisibleAfterClose(t *testing.T) {
	mfs := NewMemoryFileSystem()

	w, err := mfs.Create("/out/report.csv")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !mfs.Exists("/out/report.csv") {
		t.Error("expected file to exist after Create")
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if data, _ := mfs.ReadFile("/out/report.csv"); len(data) != 0 {
		t.Errorf("expected empty file before Close, got %q", data)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := mfs.ReadFile("/out/report.csv")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("expected %q, got %q", "hello", data)
	}

	if _, err := w.Write([]byte("more")); !errors.Is(err, fs.ErrClosed) {
		t.Errorf("expected ErrClosed on write after close, got %v", err)
	}
	if err := w.Close(); !errors.Is(err, fs.ErrClosed) {
		t.Errorf("expected ErrClosed on double close, got %v", err)
	}
}

func TestMemoryFileSystem_CreateTruncates(t *testing.T) {
	mfs := NewMemoryFileSystem()
	for _, content := range []string{"first version", "v2"} {
		w, err := mfs.Create("a.txt")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		_, _ = io.WriteString(w, content)
		_ = w.Close()
	}
	data, _ := mfs.ReadFile("a.txt")
	if string(data) != "v2" {
		t.Errorf("expected truncated content, got %q", data)
	}
}

func TestMemoryFileSystem_ReadMissing(t *testing.T) {
	mfs := NewMemoryFileSystem()
	_, err := mfs.ReadFile("/missing")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestMemoryFileSystem_ReadReturnsCopy(t *testing.T) {
	mfs := NewMemoryFileSystem()
	w, _ := mfs.Create("f")
	_, _ = io.WriteString(w, "abc")
	_ = w.Close()

	data, _ := mfs.ReadFile("f")
	data[0] = 'x'
	again, _ := mfs.ReadFile("f")
	if string(again) != "abc" {
		t.Errorf("stored content mutated: %q", again)
	}
}

func TestMemoryFileSystem_MkdirAll(t *testing.T) {
	mfs := NewMemoryFileSystem()
	if err := mfs.MkdirAll("/a/b/c", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	for _, dir := range []string{"/a", "/a/b", "/a/b/c"} {
		if !mfs.Exists(dir) {
			t.Errorf("expected %s to exist", dir)
		}
	}

	if _, err := mfs.Create("/a/b/c"); err == nil {
		t.Error("expected error creating a file over a directory")
	}

	w, _ := mfs.Create("/file")
	_ = w.Close()
	if err := mfs.MkdirAll("/file/sub", 0755); err == nil {
		t.Error("expected error creating a directory under a file")
	}
}

func TestCreateAll_Memory(t *testing.T) {
	mfs := NewMemoryFileSystem()
	w, err := CreateAll(mfs, "results/run1/curve.html")
	if err != nil {
		t.Fatalf("CreateAll failed: %v", err)
	}
	_ = w.Close()

	if !mfs.Exists("results/run1") {
		t.Error("expected parent directory to exist")
	}
	files := mfs.Files()
	if len(files) != 1 || files[0] != "results/run1/curve.html" {
		t.Errorf("Files() = %v", files)
	}

	if _, err := CreateAll(mfs, "results/run1/curve.html/x"); err == nil {
		t.Error("expected error when parent is a file")
	}
}
