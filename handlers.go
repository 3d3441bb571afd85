package main

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
)

// identityCookie carries the requester identity (a user email). Its value is
// taken at face value; there is no session or signature behind it.
const identityCookie = "retroUser"

type apiServer struct {
	svc *Service
}

// newRouter wires the API routes plus static file serving. The order route
// is registered before the {id} routes so "order" is never read as a board id.
func newRouter(svc *Service, staticDir string) *mux.Router {
	s := &apiServer{svc: svc}
	r := mux.NewRouter()
	r.HandleFunc("/api/signup", s.handleSignUp).Methods("POST")
	r.HandleFunc("/api/signin", s.handleSignIn).Methods("POST")
	r.HandleFunc("/api/me", s.handleMe).Methods("GET")
	r.HandleFunc("/api/boards", s.handleListBoards).Methods("GET")
	r.HandleFunc("/api/boards", s.handleCreateBoard).Methods("POST")
	r.HandleFunc("/api/boards/order", s.handleReorderBoards).Methods("PUT")
	r.HandleFunc("/api/boards/{id}", s.handleGetBoard).Methods("GET")
	r.HandleFunc("/api/boards/{id}", s.handleRenameBoard).Methods("PATCH")
	r.HandleFunc("/api/boards/{id}", s.handleReplaceColumns).Methods("PUT")
	r.HandleFunc("/api/boards/{id}", s.handleDeleteBoard).Methods("DELETE")
	r.HandleFunc("/api/boards/{id}/vote", s.handleToggleVote).Methods("POST")
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))
	return r
}

// requestIdentity extracts the identity string from the cookie, or "" when
// the caller is not signed in.
func requestIdentity(r *http.Request) string {
	c, err := r.Cookie(identityCookie)
	if err != nil {
		return ""
	}
	if v, err := url.PathUnescape(c.Value); err == nil {
		return v
	}
	return c.Value
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// softError answers 200 with an in-band failure, the shape the frontend
// expects for expected business outcomes.
func softError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": false, "error": msg})
}

func internalError(w http.ResponseWriter, err error) {
	log.Printf("Internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "Internal error"})
}

func (s *apiServer) handleSignUp(w http.ResponseWriter, r *http.Request) {
	log.Printf("[POST] /api/signup")
	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		softError(w, "Email and name are required.")
		return
	}
	user, err := s.svc.SignUp(req.Email, req.Name)
	if err != nil {
		if kindOf(err) == kindInvalid {
			softError(w, err.Error())
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "user": user})
}

func (s *apiServer) handleSignIn(w http.ResponseWriter, r *http.Request) {
	log.Printf("[POST] /api/signin")
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		softError(w, "Email is required.")
		return
	}
	user, err := s.svc.SignIn(req.Email)
	if err != nil {
		switch kindOf(err) {
		case kindInvalid, kindNotFound:
			softError(w, err.Error())
		default:
			internalError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "user": user})
}

func (s *apiServer) handleMe(w http.ResponseWriter, r *http.Request) {
	log.Printf("[GET] /api/me")
	identity := requestIdentity(r)
	if identity == "" {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Not signed in"})
		return
	}
	user, err := s.svc.ResolveIdentity(identity)
	if err != nil {
		if kindOf(err) == kindNotFound {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": err.Error()})
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *apiServer) handleListBoards(w http.ResponseWriter, r *http.Request) {
	log.Printf("[GET] /api/boards")
	boards, err := s.svc.ListBoards()
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"boards": boards})
}

func (s *apiServer) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	log.Printf("[POST] /api/boards")
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		softError(w, "Name is required.")
		return
	}
	board, err := s.svc.CreateBoard(req.Name)
	if err != nil {
		if kindOf(err) == kindInvalid {
			softError(w, err.Error())
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"board": board})
}

func (s *apiServer) handleReorderBoards(w http.ResponseWriter, r *http.Request) {
	log.Printf("[PUT] /api/boards/order")
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		softError(w, "ids required.")
		return
	}
	if err := s.svc.ReorderBoards(req.IDs); err != nil {
		if kindOf(err) == kindInvalid {
			softError(w, err.Error())
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *apiServer) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Printf("[DELETE] /api/boards/%s", id)
	if err := s.svc.DeleteBoard(id); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *apiServer) handleRenameBoard(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Printf("[PATCH] /api/boards/%s", id)
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		softError(w, "Name is required.")
		return
	}
	board, err := s.svc.RenameBoard(id, req.Name)
	if err != nil {
		switch kindOf(err) {
		case kindInvalid:
			softError(w, err.Error())
		case kindNotFound:
			writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": err.Error()})
		default:
			internalError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "board": board})
}

func (s *apiServer) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Printf("[GET] /api/boards/%s", id)
	view, err := s.svc.GetBoardView(id, requestIdentity(r))
	if err != nil {
		if kindOf(err) == kindNotFound {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": err.Error()})
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *apiServer) handleReplaceColumns(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Printf("[PUT] /api/boards/%s", id)
	var req struct {
		Columns map[string][]Card `json:"columns"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		softError(w, "Columns are required.")
		return
	}
	if err := s.svc.ReplaceColumns(id, req.Columns); err != nil {
		switch kindOf(err) {
		case kindInvalid:
			softError(w, err.Error())
		case kindNotFound:
			writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": err.Error()})
		default:
			internalError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *apiServer) handleToggleVote(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Printf("[POST] /api/boards/%s/vote", id)
	var req struct {
		CardID string `json:"cardId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		softError(w, "cardId required.")
		return
	}
	votes, total, err := s.svc.ToggleVote(id, req.CardID, requestIdentity(r))
	if err != nil {
		switch kindOf(err) {
		case kindUnauthenticated:
			writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false, "error": err.Error()})
		case kindNotFound:
			writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": err.Error()})
		case kindInvalid, kindVoteLimit:
			softError(w, err.Error())
		default:
			internalError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "votes": votes, "myTotalVotes": total})
}
