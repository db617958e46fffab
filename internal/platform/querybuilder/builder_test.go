package querybuilder

import (
	"testing"
	"time"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name", "points").
		From("users").
		Where(Eq("is_verified", true), IsNotNull("email")).
		OrderBy("points DESC", "name", "id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name, points FROM users WHERE is_verified = $1 AND email IS NOT NULL ORDER BY points DESC, name, id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != true {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_InAndSuffix(t *testing.T) {
	query, args, err := Select("*").
		From("predictions").
		Where(In("match_id", []any{int64(1), int64(2)}), Ne("user_id", int64(9))).
		Suffix("FOR UPDATE").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT * FROM predictions WHERE match_id IN ($1, $2) AND user_id <> $3 FOR UPDATE"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("id").From("matches").Where(In("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM matches WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected query %q args %+v", query, args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("predictions").
		Columns("user_id", "match_id", "choice").
		Values(int64(1), int64(2), "home").
		Suffix("ON CONFLICT (user_id, match_id) DO UPDATE SET choice = EXCLUDED.choice RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO predictions (user_id, match_id, choice) VALUES ($1, $2, $3) ON CONFLICT (user_id, match_id) DO UPDATE SET choice = EXCLUDED.choice RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[2] != "home" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("users").
		Set("name", "new").
		SetExpr("points", "points + ?", 1).
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", int64(3))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE users SET name = $1, points = points + $2, updated_at = NOW() WHERE id = $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "new" || args[1] != 1 || args[2] != int64(3) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("predictions").Where(Eq("match_id", int64(4))).ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM predictions WHERE match_id = $1" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 1 || args[0] != int64(4) {
		t.Fatalf("unexpected args: %+v", args)
	}

	query, _, err = DeleteFrom("matches").ToSQL()
	if err != nil {
		t.Fatalf("build delete all query: %v", err)
	}
	if query != "DELETE FROM matches" {
		t.Fatalf("unexpected query: %s", query)
	}
}

func TestInsertModel_SkipsEmptyOmitemptyColumns(t *testing.T) {
	type row struct {
		ID        int64     `db:"id,omitempty"`
		Name      string    `db:"name"`
		CreatedAt time.Time `db:"created_at"`
		Ignored   string    `db:"-"`
	}

	created := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	query, args, err := InsertModel("users", row{Name: "Ana", CreatedAt: created}, "RETURNING id")
	if err != nil {
		t.Fatalf("insert model: %v", err)
	}

	wantQuery := "INSERT INTO users (name, created_at) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Ana" {
		t.Fatalf("unexpected args: %+v", args)
	}

	query, _, err = InsertModel("users", &row{ID: 5, Name: "Bia"}, "")
	if err != nil {
		t.Fatalf("insert model: %v", err)
	}
	if query != "INSERT INTO users (id, name, created_at) VALUES ($1, $2, $3)" {
		t.Fatalf("unexpected query: %s", query)
	}
}
