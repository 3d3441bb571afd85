package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCardUnmarshalLegacyString(t *testing.T) {
	var card Card
	if err := json.Unmarshal([]byte(`"we shipped on time"`), &card); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if card.Text != "we shipped on time" {
		t.Errorf("Expected text to carry the string, got %q", card.Text)
	}
	if card.Author != "unknown" {
		t.Errorf("Expected author %q, got %q", "unknown", card.Author)
	}
	if card.CardID != "" {
		t.Errorf("Legacy card should have no cardId yet, got %q", card.CardID)
	}
	if card.Votes != nil {
		t.Errorf("Legacy card should have nil votes, got %v", card.Votes)
	}
}

func TestCardUnmarshalObject(t *testing.T) {
	raw := `{"cardId":"c1","text":"retro notes","author":"a@x.com","votes":{"b@x.com":1}}`
	var card Card
	if err := json.Unmarshal([]byte(raw), &card); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if card.CardID != "c1" || card.Text != "retro notes" || card.Author != "a@x.com" {
		t.Errorf("Card fields not preserved: %+v", card)
	}
	if card.Votes["b@x.com"] != 1 {
		t.Errorf("Votes not preserved: %v", card.Votes)
	}
}

func TestCardUnmarshalRejectsOtherShapes(t *testing.T) {
	var card Card
	if err := json.Unmarshal([]byte(`[1,2]`), &card); err == nil {
		t.Error("Expected error for array card")
	}
}

func TestCardMarshalAlwaysObject(t *testing.T) {
	raw, err := json.Marshal(testCard("c1", "hello"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	for _, key := range []string{`"cardId"`, `"text"`, `"author"`, `"votes"`} {
		if !strings.Contains(string(raw), key) {
			t.Errorf("Marshaled card missing %s: %s", key, raw)
		}
	}
}
