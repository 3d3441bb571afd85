package main

// migrateBoards upgrades legacy card shapes in place. Bare-string cards are
// already lifted to objects by Card.UnmarshalJSON at decode time; this pass
// fills in whatever is still missing: a cardId for cards that never had one
// and an empty votes map. Idempotent. Returns whether anything changed, in
// which case the caller must persist the dataset or the same work happens on
// every read.
//
// Well-formed fields are never touched, and only columns actually present on
// a board are visited.
func migrateBoards(d *Dataset) bool {
	changed := false
	for _, board := range d.Boards {
		for colID, cards := range board.Columns {
			for i := range cards {
				if cards[i].CardID == "" {
					cards[i].CardID = newID()
					changed = true
				}
				if cards[i].Votes == nil {
					cards[i].Votes = map[string]int{}
					changed = true
				}
			}
			board.Columns[colID] = cards
		}
	}
	return changed
}
