package messages

import (
	"net/http"

	"go-chat-admin/internal/httputil"
	"go-chat-admin/internal/paging"
)

func HandleChat(s *Service, w http.ResponseWriter, r *http.Request) error {
	u1, err := httputil.ParseID("user1", r.PathValue("user1"))
	if err != nil {
		return err
	}
	u2, err := httputil.ParseID("user2", r.PathValue("user2"))
	if err != nil {
		return err
	}
	page, err := s.Chat(r.Context(), u1, u2, paging.Parse(r.URL.Query(), paging.HistoryLimit))
	if err != nil {
		return err
	}
	return httputil.WriteJSON(w, http.StatusOK, page)
}

func HandleGroup(s *Service, w http.ResponseWriter, r *http.Request) error {
	gid, err := httputil.ParseID("groupId", r.PathValue("groupId"))
	if err != nil {
		return err
	}
	page, err := s.Group(r.Context(), gid, paging.Parse(r.URL.Query(), paging.HistoryLimit))
	if err != nil {
		return err
	}
	return httputil.WriteJSON(w, http.StatusOK, page)
}

func HandleSearch(s *Service, w http.ResponseWriter, r *http.Request) error {
	q, err := ParseSearch(r.URL.Query())
	if err != nil {
		return err
	}
	page, err := s.Search(r.Context(), q)
	if err != nil {
		return err
	}
	return httputil.WriteJSON(w, http.StatusOK, page)
}
