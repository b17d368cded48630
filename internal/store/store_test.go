package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"
)

func TestLocalExists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewLocal(dir)

	if err := os.WriteFile(filepath.Join(dir, "present.py"), []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "adir"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	tests := []struct {
		name string
		want bool
	}{
		{"present.py", true},
		{"absent.py", false},
		{"adir", false},
		{filepath.Join(dir, "present.py"), true},
	}

	for _, tt := range tests {
		got, err := s.Exists(ctx, tt.name)
		if err != nil {
			t.Errorf("Exists(%q): %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Exists(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLocalExistsRelativeToWorkingDir(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)

	if err := os.WriteFile("helper_functions.py", []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ok, err := NewLocal("").Exists(context.Background(), "helper_functions.py")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !ok {
		t.Error("expected file in working directory to exist")
	}
}

func TestLocalWriteCreates(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewLocal(dir)

	data := []byte{0x00, 0xff, 0x10, '\n', '\r', 0x7f}
	if err := s.Write(ctx, "new.bin", data); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "new.bin"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("content mismatch: got %v, want %v", got, data)
	}

	fi, err := os.Stat(filepath.Join(dir, "new.bin"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if fi.Mode().Perm() != 0644 {
		t.Errorf("expected mode 0644, got %v", fi.Mode().Perm())
	}
}

func TestLocalWriteTruncates(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "helper_functions.py")

	if err := os.WriteFile(path, bytes.Repeat([]byte("old content "), 100), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewLocal(dir)
	if err := s.Write(ctx, "helper_functions.py", []byte("new")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("expected file replaced, got %q", got)
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if fi.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600 preserved, got %v", fi.Mode().Perm())
	}
}

func TestLocalWriteFailureLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewLocal(dir)

	if err := s.Write(ctx, filepath.Join("missing", "file.py"), []byte("data")); err == nil {
		t.Fatal("expected error writing into missing directory")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty directory, found %d entries", len(entries))
	}
}

func TestLocalWriteOverDirectoryFails(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "adir"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	s := NewLocal(dir)
	if err := s.Write(ctx, "adir", []byte("data")); err == nil {
		t.Fatal("expected error writing over a directory")
	}

	fi, err := os.Stat(filepath.Join(dir, "adir"))
	if err != nil || !fi.IsDir() {
		t.Errorf("directory should be untouched: %v", err)
	}
}

func TestBucketExistsAndWrite(t *testing.T) {
	ctx := context.Background()
	bkt, err := blob.OpenBucket(ctx, "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bkt.Close()

	s := NewBucket(bkt, map[string]string{"source_url": "https://example.com/h.py"})

	ok, err := s.Exists(ctx, "fcc/helper_functions.py")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if ok {
		t.Fatal("expected object to be absent")
	}

	data := []byte("import torch\n")
	if err := s.Write(ctx, "fcc/helper_functions.py", data); err != nil {
		t.Fatalf("Write: %v", err)
	}

	ok, err = s.Exists(ctx, "fcc/helper_functions.py")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !ok {
		t.Fatal("expected object to exist after write")
	}

	got, err := bkt.ReadAll(ctx, "fcc/helper_functions.py")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("content mismatch: got %q, want %q", got, data)
	}

	attrs, err := bkt.Attributes(ctx, "fcc/helper_functions.py")
	if err != nil {
		t.Fatalf("Attributes: %v", err)
	}
	if attrs.ContentType != "application/octet-stream" {
		t.Errorf("expected octet-stream content type, got %s", attrs.ContentType)
	}
	if attrs.Metadata["source_url"] != "https://example.com/h.py" {
		t.Errorf("expected source_url metadata, got %v", attrs.Metadata)
	}
}

func TestBucketWriteReplaces(t *testing.T) {
	ctx := context.Background()
	bkt, err := blob.OpenBucket(ctx, "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bkt.Close()

	if err := bkt.WriteAll(ctx, "h.py", []byte("a much longer old body"), nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	s := NewBucket(bkt, nil)
	if err := s.Write(ctx, "h.py", []byte("new")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := bkt.ReadAll(ctx, "h.py")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("expected replaced body, got %q", got)
	}
}

func TestBucketClosed(t *testing.T) {
	ctx := context.Background()
	bkt, err := blob.OpenBucket(ctx, "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	bkt.Close()

	s := NewBucket(bkt, nil)
	if _, err := s.Exists(ctx, "h.py"); err == nil {
		t.Error("expected error on closed bucket")
	}
	if err := s.Write(ctx, "h.py", []byte("x")); err == nil {
		t.Error("expected error on closed bucket")
	}
}

func TestLocalExistsUnreachablePaths(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewLocal(dir)

	if err := os.WriteFile(filepath.Join(dir, "somefile"), []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Symlink("loop-b", filepath.Join(dir, "loop-a")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	if err := os.Symlink("loop-a", filepath.Join(dir, "loop-b")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	for _, name := range []string{"somefile/x", "loop-a"} {
		ok, err := s.Exists(ctx, name)
		if err != nil {
			t.Errorf("Exists(%q): %v", name, err)
			continue
		}
		if ok {
			t.Errorf("Exists(%q) = true, want false", name)
		}
	}
}

func TestLocalWriteThroughSymlink(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	realDir := filepath.Join(dir, "real")
	if err := os.Mkdir(realDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	realPath := filepath.Join(realDir, "helper_functions.py")
	if err := os.WriteFile(realPath, []byte("stale"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	link := filepath.Join(dir, "helper_functions.py")
	if err := os.Symlink(realPath, link); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	s := NewLocal(dir)
	ok, err := s.Exists(ctx, "helper_functions.py")
	if err != nil || !ok {
		t.Fatalf("expected link to a regular file to exist, got %v, %v", ok, err)
	}
	if err := s.Write(ctx, "helper_functions.py", []byte("fresh")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	fi, err := os.Lstat(link)
	if err != nil {
		t.Fatalf("lstat: %v", err)
	}
	if fi.Mode()&os.ModeSymlink == 0 {
		t.Error("symlink was replaced by a regular file")
	}
	got, err := os.ReadFile(realPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "fresh" {
		t.Errorf("expected link target updated, got %q", got)
	}
	realInfo, err := os.Stat(realPath)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if realInfo.Mode().Perm() != 0600 {
		t.Errorf("expected link target mode 0600 preserved, got %v", realInfo.Mode().Perm())
	}
}
