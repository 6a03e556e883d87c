package directory

import (
	"net/http"

	"go-chat-admin/internal/httputil"
	"go-chat-admin/internal/models"
)

type usersResp struct {
	Data []models.User `json:"data"`
}

type groupsResp struct {
	Data []models.Group `json:"data"`
}

func HandleUsers(s *Service, w http.ResponseWriter, r *http.Request) error {
	items, err := s.Users(r.Context())
	if err != nil {
		return err
	}
	return httputil.WriteJSON(w, http.StatusOK, usersResp{Data: items})
}

func HandleGroups(s *Service, w http.ResponseWriter, r *http.Request) error {
	items, err := s.Groups(r.Context())
	if err != nil {
		return err
	}
	return httputil.WriteJSON(w, http.StatusOK, groupsResp{Data: items})
}
