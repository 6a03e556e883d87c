package conversations

import (
	"net/http"

	"go-chat-admin/internal/httputil"
)

func HandleList(s *Service, w http.ResponseWriter, r *http.Request) error {
	q, err := ParseQuery(r.URL.Query())
	if err != nil {
		return err
	}
	page, err := s.List(r.Context(), q)
	if err != nil {
		return err
	}
	return httputil.WriteJSON(w, http.StatusOK, page)
}
