package storage

import (
	"context"
	"testing"
)

func TestSaveAndOpen(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "/static")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	url, err := store.Save(context.Background(), "videos/abc.mp4", []byte("mp4"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if url != "/static/videos/abc.mp4" {
		t.Errorf("url = %q", url)
	}

	data, err := store.Open("videos/abc.mp4")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if string(data) != "mp4" {
		t.Errorf("data = %q", data)
	}
}

func TestSaveRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "/static")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	bad := []string{"", "   ", "../escape", "a/../../escape"}
	for _, key := range bad {
		if _, err := store.Save(context.Background(), key, []byte("x")); err == nil {
			t.Errorf("Save(%q) accepted an invalid key", key)
		}
	}
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"videos/abc.mp4", "videos/abc.mp4", true},
		{"/videos/abc.mp4", "videos/abc.mp4", true},
		{"./videos/abc.mp4", "videos/abc.mp4", true},
		{"videos//abc.mp4", "videos/abc.mp4", true},
		{"..", "", false},
		{"../x", "", false},
	}
	for _, tt := range tests {
		got, err := sanitizeKey(tt.in)
		if tt.ok != (err == nil) {
			t.Errorf("sanitizeKey(%q) err = %v, ok expectation %v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("sanitizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
