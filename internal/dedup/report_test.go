package dedup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteReviewCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.csv")

	results := []RowResult{
		{RowID: "row1", FullName: "Dupont Marie", PersonMatches: []string{"p1", "p2"}, EntityMatch: "e1"},
		{RowID: "row2", Skipped: true, SkipReason: "missing both surname and given name"},
		{RowID: "row3", FullName: "Martin Paul", Err: fmt.Errorf("boom"), ErrMessage: "boom"},
	}

	if err := WriteReviewCSV(path, results); err != nil {
		t.Fatalf("WriteReviewCSV failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("review file unreadable: %v", err)
	}
	content := string(raw)

	if !strings.Contains(content, "p1|p2") {
		t.Fatalf("expected person matches joined, got:\n%s", content)
	}
	if !strings.Contains(content, "skipped") || !strings.Contains(content, "update_failed") {
		t.Fatalf("expected row statuses present, got:\n%s", content)
	}
	if len(strings.Split(strings.TrimSpace(content), "\n")) != 4 {
		t.Fatalf("expected header plus one line per row, got:\n%s", content)
	}
}
