package ioutils

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Road Trip", "Road Trip"},
		{"My:Mix*?", "My_Mix__"},
		{`a/b\c|d`, "a_b_c_d"},
		{`<x>"y"`, "_x__y_"},
		{"1+1=2, ok; [live]", "1_1_2_ ok_ _live_"},
		{"Vol. 2", "Vol_ 2"},
		{"tab\there\x7f", "tab_here_"},
		{"Café", "Café"},
		{"Ünïcödé ♪", "Ünïcödé ♪"},
		{"", "_"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SanitizeFileName(tt.in); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDirSize(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "a", "b")
	if err := EnsureDir(sub); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := WriteFile(ctx, filepath.Join(dir, "one"), make([]byte, 1000)); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(ctx, filepath.Join(sub, "two"), make([]byte, 24)); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(dir, "one"), filepath.Join(sub, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	size, err := DirSize(ctx, dir)
	if err != nil {
		t.Fatalf("DirSize() error = %v", err)
	}
	if size != 1024 {
		t.Errorf("DirSize() = %d, want 1024", size)
	}
}

func TestDirSize_Missing(t *testing.T) {
	size, err := DirSize(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if err != nil || size != 0 {
		t.Errorf("DirSize() = %d, %v; want 0, nil", size, err)
	}
}

func TestDirSize_Cancelled(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "f"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := DirSize(ctx, dir); err == nil {
		t.Error("DirSize() with cancelled context should fail")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "include.txt")
	if err := WriteFile(context.Background(), path, []byte("old content")); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(context.Background(), path, []byte("new")); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "new" {
		t.Errorf("file = %q, %v; want truncated to %q", data, err, "new")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := WriteFile(ctx, path, []byte("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("WriteFile() with cancelled context error = %v", err)
	}
}

func TestEnsureDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "a", "b")
	if err := EnsureDir(dir); err != nil {
		t.Fatal(err)
	}
	if err := EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir() on existing dir error = %v", err)
	}

	file := filepath.Join(root, "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureDir(filepath.Join(file, "sub")); err == nil {
		t.Error("EnsureDir() below a file error = nil")
	}
}
