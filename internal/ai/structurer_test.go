package ai

import (
	"context"
	"testing"
)

func TestLocalStructure(t *testing.T) {
	t.Parallel()

	rec, err := Local{}.Structure(context.Background(), Input{Text: "Jane Doe\njane@x.com\nSkills: Go, Rust, C++\n"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Name != "Jane Doe" || rec.Contact.Email != "jane@x.com" || len(rec.Skills) != 3 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestLocalStructureCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := (Local{}).Structure(ctx, Input{Text: "Jane Doe"}); err == nil {
		t.Fatalf("expected context error")
	}
}
