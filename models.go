package main

import "encoding/json"

const (
	colWentWell    = "went-well"
	colToImprove   = "to-improve"
	colActionItems = "action-items"
)

// votableColumns are the columns whose cards accept votes. Action items are
// work to do, not feedback, so they stay out of the vote budget.
var votableColumns = []string{colWentWell, colToImprove}

// maxVotesPerBoard caps how many cards a single user may vote for on one board.
const maxVotesPerBoard = 5

type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Card is one feedback entry. Author holds a User email, or "unknown" for
// cards that predate sign-in. Votes maps a voter's identity to a marker.
type Card struct {
	CardID string         `json:"cardId"`
	Text   string         `json:"text"`
	Author string         `json:"author"`
	Votes  map[string]int `json:"votes"`
}

// UnmarshalJSON accepts both card shapes found in persisted datasets: the
// current object form and the legacy bare string (just the text). A legacy
// card decodes with no CardID and nil Votes; migrateBoards fills those in.
func (c *Card) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*c = Card{Text: text, Author: "unknown"}
		return nil
	}
	type card Card // shed the method to avoid recursion
	var v card
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Card(v)
	return nil
}

// Board holds ordered cards per column. Columns normally carries the three
// canonical keys, but extra keys in stored data are kept as-is.
type Board struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Columns map[string][]Card `json:"columns"`
}

// Dataset is the whole persisted document. Board order is user-controlled:
// new boards go to the front, and reordering replaces the slice outright.
type Dataset struct {
	Users  []User   `json:"users"`
	Boards []*Board `json:"boards"`
}

func emptyDataset() *Dataset {
	return &Dataset{Users: []User{}, Boards: []*Board{}}
}

func newColumns() map[string][]Card {
	return map[string][]Card{
		colWentWell:    {},
		colToImprove:   {},
		colActionItems: {},
	}
}

func findUser(d *Dataset, email string) *User {
	for i := range d.Users {
		if d.Users[i].Email == email {
			return &d.Users[i]
		}
	}
	return nil
}

func findBoard(d *Dataset, id string) *Board {
	for _, b := range d.Boards {
		if b.ID == id {
			return b
		}
	}
	return nil
}
