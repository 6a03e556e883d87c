// Package messages serves message history for a pair of users or a group
// and keyword search over private messages.
package messages

import (
	"context"
	"fmt"
	"slices"

	"go-chat-admin/internal/models"
	"go-chat-admin/internal/paging"
	"go-chat-admin/internal/store"
)

const (
	messageColumns = `id, sender_id, receiver_id, sender_name, receiver_name, sender_avatar, receiver_avatar,
		content, message_type, file_name, quoted_message_id, quoted_message_content,
		call_type, voice_duration, status, is_read, created_at`

	groupMessageColumns = `id, group_id, sender_id, sender_name, sender_avatar,
		content, message_type, file_name, quoted_message_id, quoted_message_content,
		voice_duration, status, created_at`

	summaryColumns = `id, sender_id, receiver_id, sender_name, receiver_name, content, message_type, created_at`
)

type Service struct{ st *store.Store }

func NewService(st *store.Store) *Service { return &Service{st: st} }

// Chat returns the messages exchanged between two users in either
// direction. Pages are cut newest first and returned in chronological order.
func (s *Service) Chat(ctx context.Context, user1, user2 int64, p paging.Params) (paging.Page[models.Message], error) {
	f := (&store.Filter{}).Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))",
		user1, user2, user2, user1)

	var total int
	if err := s.st.Get(ctx, "messages.chat.count", &total,
		fmt.Sprintf(`SELECT COUNT(*) FROM messages %s`, f.SQL()), f.Args()...); err != nil {
		return paging.Page[models.Message]{}, err
	}
	rows := []models.Message{}
	q := fmt.Sprintf(`SELECT %s FROM messages %s ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, messageColumns, f.SQL())
	if err := s.st.Select(ctx, "messages.chat.page", &rows, q, append(f.Args(), p.Limit, p.Offset())...); err != nil {
		return paging.Page[models.Message]{}, err
	}
	for i := range rows {
		rows[i].CreatedAt = rows[i].CreatedAt.UTC()
	}
	slices.Reverse(rows)
	return paging.New(rows, total, p), nil
}

// Group returns a group's messages, chronological within the page.
func (s *Service) Group(ctx context.Context, groupID int64, p paging.Params) (paging.Page[models.GroupMessage], error) {
	f := (&store.Filter{}).Where("group_id = ?", groupID)

	var total int
	if err := s.st.Get(ctx, "messages.group.count", &total,
		fmt.Sprintf(`SELECT COUNT(*) FROM group_messages %s`, f.SQL()), f.Args()...); err != nil {
		return paging.Page[models.GroupMessage]{}, err
	}
	rows := []models.GroupMessage{}
	q := fmt.Sprintf(`SELECT %s FROM group_messages %s ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, groupMessageColumns, f.SQL())
	if err := s.st.Select(ctx, "messages.group.page", &rows, q, append(f.Args(), p.Limit, p.Offset())...); err != nil {
		return paging.Page[models.GroupMessage]{}, err
	}
	for i := range rows {
		rows[i].CreatedAt = rows[i].CreatedAt.UTC()
	}
	slices.Reverse(rows)
	return paging.New(rows, total, p), nil
}

// Search matches private messages whose content contains the keyword,
// case-insensitively, optionally limited to one participant. Newest first.
func (s *Service) Search(ctx context.Context, q SearchQuery) (paging.Page[models.MessageSummary], error) {
	f := (&store.Filter{}).Where("status = 'normal'")
	if q.Keyword != "" {
		f.Where("content ILIKE ?", "%"+store.EscapeLike(q.Keyword)+"%")
	}
	if q.UserID != nil {
		f.Where("(sender_id = ? OR receiver_id = ?)", *q.UserID, *q.UserID)
	}

	var total int
	if err := s.st.Get(ctx, "messages.search.count", &total,
		fmt.Sprintf(`SELECT COUNT(*) FROM messages %s`, f.SQL()), f.Args()...); err != nil {
		return paging.Page[models.MessageSummary]{}, err
	}
	rows := []models.MessageSummary{}
	sql := fmt.Sprintf(`SELECT %s FROM messages %s ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, summaryColumns, f.SQL())
	if err := s.st.Select(ctx, "messages.search.page", &rows, sql, append(f.Args(), q.Paging.Limit, q.Paging.Offset())...); err != nil {
		return paging.Page[models.MessageSummary]{}, err
	}
	for i := range rows {
		rows[i].CreatedAt = rows[i].CreatedAt.UTC()
	}
	return paging.New(rows, total, q.Paging), nil
}
