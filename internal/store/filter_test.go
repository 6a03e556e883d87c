package store

import (
	"reflect"
	"testing"

	"github.com/jmoiron/sqlx"
)

func TestFilterKeepsArgsInClauseOrder(t *testing.T) {
	f := &Filter{}
	f.Where("status = 'normal'").
		Where("content ILIKE ?", "%hi%").
		Where("(sender_id = ? OR receiver_id = ?)", int64(5), int64(5)).
		Where("created_at >= ?", "2024-01-01")

	wantSQL := "WHERE status = 'normal' AND content ILIKE ? AND (sender_id = ? OR receiver_id = ?) AND created_at >= ?"
	if f.SQL() != wantSQL {
		t.Errorf("SQL = %q", f.SQL())
	}
	wantArgs := []any{"%hi%", int64(5), int64(5), "2024-01-01"}
	if !reflect.DeepEqual(f.Args(), wantArgs) {
		t.Errorf("Args = %v", f.Args())
	}

	q := sqlx.Rebind(sqlx.DOLLAR, "SELECT * FROM messages "+f.SQL()+" LIMIT ? OFFSET ?")
	want := "SELECT * FROM messages WHERE status = 'normal' AND content ILIKE $1 AND (sender_id = $2 OR receiver_id = $3) AND created_at >= $4 LIMIT $5 OFFSET $6"
	if q != want {
		t.Errorf("rebound = %q", q)
	}
}

func TestFilterEmpty(t *testing.T) {
	f := &Filter{}
	if f.SQL() != "" || len(f.Args()) != 0 || f.Len() != 0 {
		t.Errorf("empty filter rendered %q %v", f.SQL(), f.Args())
	}
}

func TestFilterArgsIsACopy(t *testing.T) {
	f := (&Filter{}).Where("a = ?", 1)
	args := append(f.Args(), 20, 0)
	args[0] = 99
	if got := f.Args(); len(got) != 1 || got[0] != 1 {
		t.Errorf("filter args mutated: %v", got)
	}
}

func TestFilterPanicsOnPlaceholderMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	(&Filter{}).Where("a = ? AND b = ?", 1)
}

func TestEscapeLike(t *testing.T) {
	if got := EscapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Errorf("EscapeLike = %q", got)
	}
}
