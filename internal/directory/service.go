// Package directory lists the users and groups that the admin panel offers
// as filter choices.
package directory

import (
	"context"

	"go-chat-admin/internal/models"
	"go-chat-admin/internal/store"
)

type Service struct{ st *store.Store }

func NewService(st *store.Store) *Service { return &Service{st: st} }

func (s *Service) Users(ctx context.Context) ([]models.User, error) {
	out := []models.User{}
	err := s.st.Select(ctx, "users.list", &out,
		`SELECT id, username, full_name FROM users ORDER BY username`)
	return out, err
}

// Groups excludes soft-deleted groups.
func (s *Service) Groups(ctx context.Context) ([]models.Group, error) {
	out := []models.Group{}
	err := s.st.Select(ctx, "groups.list", &out,
		`SELECT id, name FROM groups WHERE deleted_at IS NULL ORDER BY name`)
	return out, err
}
