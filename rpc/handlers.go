package rpc

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// --- posts ---

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	fromIndex, limit := pageParams(r)
	posts, err := s.engine.GetPosts(fromIndex, limit)
	respond(s, w, posts, err)
}

func (s *Server) hotPosts(w http.ResponseWriter, _ *http.Request) {
	stats, err := s.engine.HotPosts()
	respond(s, w, stats, err)
}

func (s *Server) trendingPosts(w http.ResponseWriter, _ *http.Request) {
	stats, err := s.engine.TrendingPosts()
	respond(s, w, stats, err)
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.engine.GetPost(chi.URLParam(r, "id"))
	respond(s, w, post, err)
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	fromIndex, limit := pageParams(r)
	comments, err := s.engine.GetComments(chi.URLParam(r, "id"), fromIndex, limit)
	respond(s, w, comments, err)
}

func (s *Server) postVotes(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")
	score, err := s.engine.Votes(postID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"postId": postID, "score": score})
}

// --- accounts ---

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	fromIndex, limit := pageParams(r)
	accounts, err := s.engine.GetAccounts(fromIndex, limit)
	respond(s, w, accounts, err)
}

func (s *Server) topAccounts(w http.ResponseWriter, _ *http.Request) {
	accounts, err := s.engine.TopUsers()
	respond(s, w, accounts, err)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.engine.GetAccount(chi.URLParam(r, "id"))
	respond(s, w, account, err)
}

func (s *Server) listFollowers(w http.ResponseWriter, r *http.Request) {
	fromIndex, limit := pageParams(r)
	accounts, err := s.engine.GetFollowers(chi.URLParam(r, "id"), fromIndex, limit)
	respond(s, w, accounts, err)
}

func (s *Server) listFollowing(w http.ResponseWriter, r *http.Request) {
	fromIndex, limit := pageParams(r)
	accounts, err := s.engine.GetFollowing(chi.URLParam(r, "id"), fromIndex, limit)
	respond(s, w, accounts, err)
}

func (s *Server) listBookmarks(w http.ResponseWriter, r *http.Request) {
	fromIndex, limit := pageParams(r)
	posts, err := s.engine.GetBookmarks(chi.URLParam(r, "id"), fromIndex, limit)
	respond(s, w, posts, err)
}

func (s *Server) listAccountChests(w http.ResponseWriter, r *http.Request) {
	chests, err := s.engine.ChestsByAccount(chi.URLParam(r, "id"))
	respond(s, w, chests, err)
}

func (s *Server) listAccountPosts(w http.ResponseWriter, r *http.Request) {
	fromIndex, limit := pageParams(r)
	posts, err := s.engine.GetPostsByAccount(chi.URLParam(r, "id"), fromIndex, limit)
	respond(s, w, posts, err)
}

// --- communities ---

func (s *Server) listCommunities(w http.ResponseWriter, r *http.Request) {
	fromIndex, limit := pageParams(r)
	communities, err := s.engine.GetCommunities(fromIndex, limit)
	respond(s, w, communities, err)
}

func (s *Server) topCommunities(w http.ResponseWriter, _ *http.Request) {
	communities, err := s.engine.TopCommunities()
	respond(s, w, communities, err)
}

func (s *Server) getCommunity(w http.ResponseWriter, r *http.Request) {
	community, err := s.engine.GetCommunity(chi.URLParam(r, "id"))
	respond(s, w, community, err)
}

func (s *Server) listCommunityPosts(w http.ResponseWriter, r *http.Request) {
	fromIndex, limit := pageParams(r)
	posts, err := s.engine.GetCommunityPosts(chi.URLParam(r, "id"), fromIndex, limit)
	respond(s, w, posts, err)
}

func (s *Server) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.engine.Members(chi.URLParam(r, "id"))
	respond(s, w, members, err)
}

// --- mints ---

func (s *Server) settleMint(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Minted bool `json:"minted"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid settlement body"})
		return
	}
	chest, err := s.settler.Settle(chi.URLParam(r, "id"), body.Minted)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"minted": body.Minted, "chest": chest})
}

// --- topics, places ---

func (s *Server) listTopics(w http.ResponseWriter, _ *http.Request) {
	topics, err := s.engine.Topics()
	respond(s, w, topics, err)
}

func (s *Server) listPlaces(w http.ResponseWriter, _ *http.Request) {
	places, err := s.engine.PlaceIDs()
	respond(s, w, places, err)
}

func (s *Server) listPlaceChests(w http.ResponseWriter, r *http.Request) {
	label := chi.URLParam(r, "id")
	if r.URL.Query().Get("active") == "true" {
		chests, err := s.engine.ActiveChestsByPlace(label)
		respond(s, w, chests, err)
		return
	}
	chests, err := s.engine.ChestsByPlace(label)
	respond(s, w, chests, err)
}
