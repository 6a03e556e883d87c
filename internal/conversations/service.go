// Package conversations lists the latest message of every private pair and
// every group, inbox style.
package conversations

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go-chat-admin/internal/httputil"
	"go-chat-admin/internal/models"
	"go-chat-admin/internal/paging"
	"go-chat-admin/internal/store"
)

// Query selects conversations. ChatType "" lists both kinds.
type Query struct {
	ChatType   string
	SenderID   *int64
	ReceiverID *int64
	GroupID    *int64
	Start      *time.Time
	End        *time.Time
	Paging     paging.Params
}

func ParseQuery(v url.Values) (Query, error) {
	q := Query{
		ChatType: strings.TrimSpace(v.Get("chat_type")),
		Paging:   paging.Parse(v, paging.DefaultLimit),
	}
	switch q.ChatType {
	case "", models.ChatPrivate, models.ChatGroup:
	default:
		return q, httputil.BadRequest("invalid chat_type")
	}
	var err error
	if q.SenderID, err = httputil.OptionalID(v, "sender_id"); err != nil {
		return q, err
	}
	if q.ReceiverID, err = httputil.OptionalID(v, "receiver_id"); err != nil {
		return q, err
	}
	if q.GroupID, err = httputil.OptionalID(v, "group_id"); err != nil {
		return q, err
	}
	if q.Start, err = httputil.OptionalTime(v, "start_date"); err != nil {
		return q, err
	}
	if q.End, err = httputil.OptionalTime(v, "end_date"); err != nil {
		return q, err
	}
	return q, nil
}

// Both halves select the same columns in the same order so they can be
// combined with UNION ALL.
const (
	privateLatest = `SELECT DISTINCT ON (LEAST(sender_id, receiver_id), GREATEST(sender_id, receiver_id))
		id, 'private'::text AS chat_type, sender_id, sender_name,
		receiver_id::bigint AS receiver_id, receiver_name,
		NULL::bigint AS group_id, NULL::text AS group_name,
		content, message_type, created_at
	FROM messages
	%s
	ORDER BY LEAST(sender_id, receiver_id), GREATEST(sender_id, receiver_id), created_at DESC`

	groupLatest = `SELECT DISTINCT ON (gm.group_id)
		gm.id, 'group'::text AS chat_type, gm.sender_id, gm.sender_name,
		NULL::bigint AS receiver_id, NULL::text AS receiver_name,
		gm.group_id::bigint AS group_id, g.name AS group_name,
		gm.content, gm.message_type, gm.created_at
	FROM group_messages gm
	JOIN groups g ON g.id = gm.group_id
	%s
	ORDER BY gm.group_id, gm.created_at DESC`

	privateCount = `SELECT COUNT(DISTINCT (LEAST(sender_id, receiver_id), GREATEST(sender_id, receiver_id)))
	FROM messages %s`

	groupCount = `SELECT COUNT(DISTINCT gm.group_id)
	FROM group_messages gm
	JOIN groups g ON g.id = gm.group_id %s`
)

type Service struct{ st *store.Store }

func NewService(st *store.Store) *Service { return &Service{st: st} }

func privateFilter(q Query) *store.Filter {
	f := (&store.Filter{}).Where("status = 'normal'")
	if q.SenderID != nil {
		f.Where("sender_id = ?", *q.SenderID)
	}
	if q.ReceiverID != nil {
		f.Where("receiver_id = ?", *q.ReceiverID)
	}
	if q.Start != nil {
		f.Where("created_at >= ?", *q.Start)
	}
	if q.End != nil {
		f.Where("created_at <= ?", *q.End)
	}
	return f
}

func groupFilter(q Query) *store.Filter {
	f := (&store.Filter{}).Where("gm.status = 'normal'")
	if q.SenderID != nil {
		f.Where("gm.sender_id = ?", *q.SenderID)
	}
	if q.GroupID != nil && q.ChatType == models.ChatGroup {
		f.Where("gm.group_id = ?", *q.GroupID)
	}
	if q.Start != nil {
		f.Where("gm.created_at >= ?", *q.Start)
	}
	if q.End != nil {
		f.Where("gm.created_at <= ?", *q.End)
	}
	return f
}

// List returns one page of conversations, most recent first. Without a
// chat type both kinds are merged into a single recency ordering, private
// before group on equal timestamps, and the page is cut by the database.
// group_id narrows group conversations only when chat_type=group.
func (s *Service) List(ctx context.Context, q Query) (paging.Page[models.Conversation], error) {
	var (
		pageSQL, countSQL string
		args              []any
	)
	switch q.ChatType {
	case models.ChatPrivate:
		f := privateFilter(q)
		pageSQL = `WITH conversations AS (` + fmt.Sprintf(privateLatest, f.SQL()) + `)
			SELECT * FROM conversations ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
		countSQL = fmt.Sprintf(privateCount, f.SQL())
		args = f.Args()
	case models.ChatGroup:
		f := groupFilter(q)
		pageSQL = `WITH conversations AS (` + fmt.Sprintf(groupLatest, f.SQL()) + `)
			SELECT * FROM conversations ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
		countSQL = fmt.Sprintf(groupCount, f.SQL())
		args = f.Args()
	default:
		pf, gf := privateFilter(q), groupFilter(q)
		pageSQL = `WITH private_conv AS (` + fmt.Sprintf(privateLatest, pf.SQL()) + `),
			group_conv AS (` + fmt.Sprintf(groupLatest, gf.SQL()) + `)
			SELECT * FROM private_conv UNION ALL SELECT * FROM group_conv
			ORDER BY created_at DESC, chat_type DESC, id DESC LIMIT ? OFFSET ?`
		countSQL = `SELECT (` + fmt.Sprintf(privateCount, pf.SQL()) + `) + (` + fmt.Sprintf(groupCount, gf.SQL()) + `)`
		args = append(pf.Args(), gf.Args()...)
	}

	var total int
	if err := s.st.Get(ctx, "conversations.count", &total, countSQL, args...); err != nil {
		return paging.Page[models.Conversation]{}, err
	}
	rows := []models.Conversation{}
	pageArgs := append(args[:len(args):len(args)], q.Paging.Limit, q.Paging.Offset())
	if err := s.st.Select(ctx, "conversations.page", &rows, pageSQL, pageArgs...); err != nil {
		return paging.Page[models.Conversation]{}, err
	}
	for i := range rows {
		rows[i].CreatedAt = rows[i].CreatedAt.UTC()
	}
	return paging.New(rows, total, q.Paging), nil
}
