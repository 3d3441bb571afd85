package main

import (
	"strings"
	"sync"
)

// Service implements the application operations over the persisted dataset.
// Every operation is a single load→mutate→save cycle against the whole
// document; mu serializes those cycles so two requests never interleave
// around independent in-memory copies and silently drop each other's writes.
type Service struct {
	mu    sync.Mutex
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) SignUp(email, name string) (*User, error) {
	if email == "" || name == "" {
		return nil, errInvalid("Email and name are required.")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	if findUser(d, email) != nil {
		return nil, errInvalid("An account with that email already exists.")
	}
	user := User{Email: email, Name: name}
	d.Users = append(d.Users, user)
	if err := s.store.Save(d); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) SignIn(email string) (*User, error) {
	if email == "" {
		return nil, errInvalid("Email is required.")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	user := findUser(d, email)
	if user == nil {
		return nil, errNotFound("No account found for that email. Please sign up first.")
	}
	return user, nil
}

// ResolveIdentity maps a requester identity string back to its User.
func (s *Service) ResolveIdentity(identity string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	user := findUser(d, identity)
	if user == nil {
		return nil, errNotFound("User not found")
	}
	return user, nil
}

// ListBoards is a migrating read: legacy card shapes encountered in the
// dataset are upgraded and, if anything changed, persisted before returning.
func (s *Service) ListBoards() ([]*Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.loadMigrated()
	if err != nil {
		return nil, err
	}
	return d.Boards, nil
}

func (s *Service) loadMigrated() (*Dataset, error) {
	d, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	if migrateBoards(d) {
		if err := s.store.Save(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// CreateBoard inserts the new board at the front, so listings show the most
// recent board first.
func (s *Service) CreateBoard(name string) (*Board, error) {
	if name == "" {
		return nil, errInvalid("Name is required.")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	board := &Board{
		ID:      newID(),
		Name:    name,
		Columns: newColumns(),
	}
	d.Boards = append([]*Board{board}, d.Boards...)
	if err := s.store.Save(d); err != nil {
		return nil, err
	}
	return board, nil
}

func (s *Service) RenameBoard(id, name string) (*Board, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errInvalid("Name is required.")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	board := findBoard(d, id)
	if board == nil {
		return nil, errNotFound("Board not found.")
	}
	board.Name = name
	if err := s.store.Save(d); err != nil {
		return nil, err
	}
	return board, nil
}

// ReorderBoards replaces the board sequence with the boards named by ids, in
// that order. IDs with no matching board are skipped, and boards left out of
// ids are dropped: the caller owns the full ordering.
func (s *Service) ReorderBoards(ids []string) error {
	if ids == nil {
		return errInvalid("ids required.")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.store.Load()
	if err != nil {
		return err
	}
	byID := make(map[string]*Board, len(d.Boards))
	for _, b := range d.Boards {
		byID[b.ID] = b
	}
	ordered := make([]*Board, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			ordered = append(ordered, b)
		}
	}
	d.Boards = ordered
	return s.store.Save(d)
}

// DeleteBoard removes the board if present. Deleting an unknown id is a
// no-op, not an error.
func (s *Service) DeleteBoard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.store.Load()
	if err != nil {
		return err
	}
	kept := make([]*Board, 0, len(d.Boards))
	for _, b := range d.Boards {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	d.Boards = kept
	return s.store.Save(d)
}

// ReplaceColumns swaps in the caller-supplied column structure wholesale.
// Card shape is not validated here; the next migrating read repairs whatever
// the client sent incomplete.
func (s *Service) ReplaceColumns(id string, columns map[string][]Card) error {
	if columns == nil {
		return errInvalid("Columns are required.")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.store.Load()
	if err != nil {
		return err
	}
	board := findBoard(d, id)
	if board == nil {
		return errNotFound("Board not found")
	}
	board.Columns = columns
	return s.store.Save(d)
}

// ToggleVote flips identity's vote on a card. Removing a vote always
// succeeds; adding one is refused once the identity already holds
// maxVotesPerBoard votes on this board. Only cards in the votable columns
// can be voted on. Returns the card's vote map and the identity's new total.
func (s *Service) ToggleVote(boardID, cardID, identity string) (map[string]int, int, error) {
	if identity == "" {
		return nil, 0, errUnauthenticated("Not signed in.")
	}
	if cardID == "" {
		return nil, 0, errInvalid("cardId required.")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.store.Load()
	if err != nil {
		return nil, 0, err
	}
	board := findBoard(d, boardID)
	if board == nil {
		return nil, 0, errNotFound("Board not found.")
	}
	card := findVotableCard(board, cardID)
	if card == nil {
		return nil, 0, errInvalid("Card not found.")
	}
	if card.Votes == nil {
		card.Votes = map[string]int{}
	}
	if card.Votes[identity] != 0 {
		delete(card.Votes, identity)
	} else {
		if countVotes(board, identity) >= maxVotesPerBoard {
			return nil, 0, errVoteLimit("No votes remaining.")
		}
		card.Votes[identity] = 1
	}
	total := countVotes(board, identity)
	if err := s.store.Save(d); err != nil {
		return nil, 0, err
	}
	return card.Votes, total, nil
}

func findVotableCard(board *Board, cardID string) *Card {
	for _, colID := range votableColumns {
		cards := board.Columns[colID]
		for i := range cards {
			if cards[i].CardID == cardID {
				return &cards[i]
			}
		}
	}
	return nil
}

// GetBoardView returns the board together with its derived presentation
// data. Like ListBoards, it migrates and persists legacy shapes on the way.
func (s *Service) GetBoardView(id, identity string) (*BoardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.loadMigrated()
	if err != nil {
		return nil, err
	}
	board := findBoard(d, id)
	if board == nil {
		return nil, errNotFound("Board not found")
	}
	return buildBoardView(board, d, identity), nil
}
