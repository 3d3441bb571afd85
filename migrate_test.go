package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const legacyDatasetJSON = `{
  "users": [],
  "boards": [
    {
      "id": "b1",
      "name": "Sprint 1",
      "columns": {
        "went-well": [
          "hello",
          {"text": "x", "author": "a@x.com", "cardId": "c1"}
        ],
        "to-improve": [
          {"text": "y", "author": "unknown", "cardId": "c2", "votes": {"a@x.com": 1}}
        ],
        "parking-lot": ["old note"]
      }
    }
  ]
}`

func loadLegacyDataset(t *testing.T) *Dataset {
	t.Helper()
	var d Dataset
	if err := json.Unmarshal([]byte(legacyDatasetJSON), &d); err != nil {
		t.Fatalf("Failed to decode legacy dataset: %v", err)
	}
	return &d
}

func TestMigrateUpgradesLegacyCards(t *testing.T) {
	d := loadLegacyDataset(t)

	if !migrateBoards(d) {
		t.Fatal("Expected migration to report changes")
	}

	wentWell := d.Boards[0].Columns[colWentWell]
	bare := wentWell[0]
	if bare.Text != "hello" {
		t.Errorf("Expected text %q, got %q", "hello", bare.Text)
	}
	if bare.Author != "unknown" {
		t.Errorf("Expected author %q, got %q", "unknown", bare.Author)
	}
	if bare.CardID == "" {
		t.Error("Expected migrated card to get a cardId")
	}
	if bare.Votes == nil || len(bare.Votes) != 0 {
		t.Errorf("Expected empty votes map, got %v", bare.Votes)
	}

	partial := wentWell[1]
	if partial.CardID != "c1" {
		t.Errorf("Existing cardId must be kept, got %q", partial.CardID)
	}
	if partial.Text != "x" || partial.Author != "a@x.com" {
		t.Errorf("Existing fields must not change: %+v", partial)
	}
	if partial.Votes == nil || len(partial.Votes) != 0 {
		t.Errorf("Expected empty votes map, got %v", partial.Votes)
	}

	wellFormed := d.Boards[0].Columns[colToImprove][0]
	if wellFormed.CardID != "c2" || wellFormed.Votes["a@x.com"] != 1 {
		t.Errorf("Well-formed card must survive migration untouched: %+v", wellFormed)
	}
}

func TestMigrateVisitsNonCanonicalColumns(t *testing.T) {
	d := loadLegacyDataset(t)
	migrateBoards(d)

	extra := d.Boards[0].Columns["parking-lot"][0]
	if extra.Text != "old note" || extra.CardID == "" || extra.Votes == nil {
		t.Errorf("Cards in extra columns must be migrated too: %+v", extra)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d := loadLegacyDataset(t)
	migrateBoards(d)

	before, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	if migrateBoards(d) {
		t.Error("Second migration run must report no changes")
	}

	after, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(before) != string(after) {
		t.Errorf("Second migration run altered the dataset:\nbefore: %s\nafter:  %s", before, after)
	}
}

func TestMigrateNoChangesOnCleanDataset(t *testing.T) {
	d := emptyDataset()
	d.Boards = append(d.Boards, &Board{ID: "b1", Name: "clean", Columns: newColumns()})
	if migrateBoards(d) {
		t.Error("Migration must report no changes for a clean dataset")
	}
}

// A migrating read must persist its repairs so the next read finds them
// already applied.
func TestListBoardsPersistsMigration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(legacyDatasetJSON), 0o644); err != nil {
		t.Fatalf("Failed to seed legacy file: %v", err)
	}
	svc := NewService(NewFileStore(path))

	boards, err := svc.ListBoards()
	if err != nil {
		t.Fatalf("ListBoards failed: %v", err)
	}
	if len(boards) != 1 {
		t.Fatalf("Expected 1 board, got %d", len(boards))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read back dataset file: %v", err)
	}
	if strings.Contains(string(raw), `"hello"`) && !strings.Contains(string(raw), `"text": "hello"`) {
		t.Errorf("Legacy bare-string card still on disk: %s", raw)
	}
	if !strings.Contains(string(raw), "cardId") {
		t.Errorf("Migrated dataset on disk has no cardId: %s", raw)
	}

	// second read must not rewrite the file
	if _, err := svc.ListBoards(); err != nil {
		t.Fatalf("Second ListBoards failed: %v", err)
	}
	raw2, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read back dataset file: %v", err)
	}
	if string(raw) != string(raw2) {
		t.Error("Second migrating read rewrote an already-migrated dataset")
	}
}
