package conversations

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"go-chat-admin/internal/httputil"
	"go-chat-admin/internal/models"
	"go-chat-admin/internal/store"
)

var convColumns = []string{
	"id", "chat_type", "sender_id", "sender_name", "receiver_id", "receiver_name",
	"group_id", "group_name", "content", "message_type", "created_at",
}

func newService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return NewService(store.New(sqlx.NewDb(db, "pgx"))), mock
}

func mustQuery(t *testing.T, raw string) Query {
	t.Helper()
	v, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatal(err)
	}
	q, err := ParseQuery(v)
	if err != nil {
		t.Fatalf("ParseQuery(%q): %v", raw, err)
	}
	return q
}

func q(s string) string { return regexp.QuoteMeta(s) }

func TestListPrivateOneRowPerPartner(t *testing.T) {
	svc, mock := newService(t)
	t1 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	mock.ExpectQuery(q("SELECT COUNT(DISTINCT (LEAST(sender_id, receiver_id), GREATEST(sender_id, receiver_id))) FROM messages WHERE status = 'normal' AND sender_id = $1")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(q("SELECT DISTINCT ON (LEAST(sender_id, receiver_id), GREATEST(sender_id, receiver_id))") +
		".*" + q("WHERE status = 'normal' AND sender_id = $1") +
		".*" + q("ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3")).
		WithArgs(1, 20, 0).
		WillReturnRows(sqlmock.NewRows(convColumns).
			AddRow(12, "private", 1, "alice", 3, "carol", nil, nil, "see you", "text", t2).
			AddRow(11, "private", 1, "alice", 2, "bob", nil, nil, "hi bob", "text", t1))

	page, err := svc.List(context.Background(), mustQuery(t, "chat_type=private&sender_id=1"))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 2 || len(page.Data) != 2 || page.Page != 1 || page.Limit != 20 || page.TotalPages != 1 {
		t.Fatalf("page = %+v", page)
	}
	if *page.Data[0].ReceiverID != 3 || *page.Data[1].ReceiverID != 2 {
		t.Errorf("partners = %d, %d", *page.Data[0].ReceiverID, *page.Data[1].ReceiverID)
	}
	if page.Data[0].GroupID != nil || page.Data[0].ChatType != models.ChatPrivate {
		t.Errorf("private row carries group fields: %+v", page.Data[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListGroupWithDates(t *testing.T) {
	svc, mock := newService(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC)
	shanghai := time.FixedZone("CST", 8*3600)

	mock.ExpectQuery(q("SELECT COUNT(DISTINCT gm.group_id) FROM group_messages gm JOIN groups g ON g.id = gm.group_id WHERE gm.status = 'normal' AND gm.group_id = $1 AND gm.created_at >= $2 AND gm.created_at <= $3")).
		WithArgs(9, start, end).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(q("SELECT DISTINCT ON (gm.group_id)") + ".*" + q("LIMIT $4 OFFSET $5")).
		WithArgs(9, start, end, 20, 0).
		WillReturnRows(sqlmock.NewRows(convColumns).
			AddRow(40, "group", 5, "eve", nil, nil, 9, "ops", "deploy done", "text", time.Date(2024, 1, 2, 8, 0, 0, 0, shanghai)))

	page, err := svc.List(context.Background(),
		mustQuery(t, "chat_type=group&group_id=9&receiver_id=4&start_date=2024-01-01&end_date=2024-01-31T23:59"))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Data) != 1 || *page.Data[0].GroupName != "ops" || page.Data[0].ReceiverID != nil {
		t.Fatalf("data = %+v", page.Data)
	}
	if loc := page.Data[0].CreatedAt.Location(); loc != time.UTC {
		t.Errorf("created_at location = %v, want UTC", loc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListMergedPaginatesAcrossKinds(t *testing.T) {
	svc, mock := newService(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// receiver_id only narrows private conversations; group_id is ignored
	// unless chat_type=group.
	mock.ExpectQuery(q("SELECT (SELECT COUNT(DISTINCT (LEAST(sender_id, receiver_id), GREATEST(sender_id, receiver_id))) FROM messages WHERE status = 'normal' AND sender_id = $1 AND receiver_id = $2) + (SELECT COUNT(DISTINCT gm.group_id) FROM group_messages gm JOIN groups g ON g.id = gm.group_id WHERE gm.status = 'normal' AND gm.sender_id = $3)") + "$").
		WithArgs(1, 2, 1).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(7))
	// Private sorts ahead of group on equal timestamps.
	mock.ExpectQuery(q("SELECT * FROM private_conv UNION ALL SELECT * FROM group_conv ORDER BY created_at DESC, chat_type DESC, id DESC LIMIT $4 OFFSET $5")).
		WithArgs(1, 2, 1, 5, 5).
		WillReturnRows(sqlmock.NewRows(convColumns).
			AddRow(3, "group", 1, "alice", nil, nil, 9, "ops", "later", "text", now).
			AddRow(2, "private", 1, "alice", 2, "bob", nil, nil, "earlier", "text", now.Add(-time.Minute)))

	page, err := svc.List(context.Background(), mustQuery(t, "sender_id=1&receiver_id=2&group_id=9&page=2&limit=5"))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 7 || page.TotalPages != 2 || page.Page != 2 || len(page.Data) != 2 {
		t.Fatalf("page = %+v", page)
	}
	if page.Data[0].ChatType != models.ChatGroup || page.Data[1].ChatType != models.ChatPrivate {
		t.Errorf("order = %s, %s", page.Data[0].ChatType, page.Data[1].ChatType)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListEmptyIsNotNull(t *testing.T) {
	svc, mock := newService(t)
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(convColumns))

	page, err := svc.List(context.Background(), mustQuery(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if page.Data == nil || len(page.Data) != 0 || page.TotalPages != 0 {
		t.Errorf("page = %+v", page)
	}
}

func TestListPropagatesStoreErrors(t *testing.T) {
	svc, mock := newService(t)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("too many connections"))

	_, err := svc.List(context.Background(), mustQuery(t, "chat_type=private"))
	if err == nil {
		t.Fatal("expected error")
	}
	var he *httputil.Error
	if errors.As(err, &he) {
		t.Errorf("store failure must not be a client error: %v", err)
	}
}

func TestParseQueryRejects(t *testing.T) {
	for _, raw := range []string{
		"chat_type=channel",
		"sender_id=abc",
		"receiver_id=-1",
		"group_id=1x",
		"start_date=yesterday",
		"end_date=2024-13-01",
	} {
		v, _ := url.ParseQuery(raw)
		_, err := ParseQuery(v)
		var he *httputil.Error
		if !errors.As(err, &he) || he.Status != http.StatusBadRequest {
			t.Errorf("ParseQuery(%q) err = %v, want 400", raw, err)
		}
	}
}

func TestListMergedIgnoresGroupID(t *testing.T) {
	svc, mock := newService(t)
	mock.ExpectQuery(q("FROM group_messages gm JOIN groups g ON g.id = gm.group_id WHERE gm.status = 'normal')") + "$").
		WithArgs().
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(0))
	mock.ExpectQuery(q("LIMIT $1 OFFSET $2")).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows(convColumns))

	if _, err := svc.List(context.Background(), mustQuery(t, "group_id=9")); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
