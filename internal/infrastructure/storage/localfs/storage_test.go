package localfs

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveOpenDeleteRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	if err := s.Save(ctx, "doc-1_lease.pdf", strings.NewReader("%PDF-1.4")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	rc, err := s.Open(ctx, "doc-1_lease.pdf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(b) != "%PDF-1.4" {
		t.Fatalf("content = %q", b)
	}

	if err := s.Delete(ctx, "doc-1_lease.pdf"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Open(ctx, "doc-1_lease.pdf"); err == nil {
		t.Fatalf("Open() after delete should fail")
	}
}

func TestSaveCreatesStagingSubdir(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	if err := s.Save(ctx, "tmp/abc_scan.pdf", strings.NewReader("x")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := s.Open(ctx, "tmp/abc_scan.pdf"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
}
