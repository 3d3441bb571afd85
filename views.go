package main

// BoardView is the read-only projection served for a single board: the board
// itself, display names for every card author on it, and how many votes the
// requester has spent here.
type BoardView struct {
	Board        *Board            `json:"board"`
	Authors      map[string]string `json:"authors"`
	MyTotalVotes int               `json:"myTotalVotes"`
}

// buildBoardView is pure; it never mutates the board or the dataset.
func buildBoardView(board *Board, d *Dataset, identity string) *BoardView {
	authors := map[string]string{}
	for _, cards := range board.Columns {
		for i := range cards {
			author := cards[i].Author
			if author == "" || author == "unknown" {
				continue
			}
			if _, done := authors[author]; done {
				continue
			}
			if user := findUser(d, author); user != nil {
				authors[author] = user.Name
			} else {
				// account may have been created elsewhere or never existed
				authors[author] = author
			}
		}
	}
	total := 0
	if identity != "" {
		total = countVotes(board, identity)
	}
	return &BoardView{Board: board, Authors: authors, MyTotalVotes: total}
}

// countVotes counts the cards in the votable columns carrying a vote marker
// for identity on this board.
func countVotes(board *Board, identity string) int {
	n := 0
	for _, colID := range votableColumns {
		for _, card := range board.Columns[colID] {
			if card.Votes[identity] != 0 {
				n++
			}
		}
	}
	return n
}
