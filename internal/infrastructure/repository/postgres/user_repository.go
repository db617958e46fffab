package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/bolao/internal/domain/user"
	qb "github.com/riskibarqy/bolao/internal/platform/querybuilder"
)

type UserRepository struct {
	db sqlx.ExtContext
}

func NewUserRepository(db sqlx.ExtContext) *UserRepository {
	return &UserRepository{db: db}
}

// Create flags the user as owner when the table is empty. The partial unique
// index on is_owner rejects a second owner racing in.
func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	var exists bool
	if err := sqlx.GetContext(ctx, r.db, &exists, "SELECT EXISTS (SELECT 1 FROM users)"); err != nil {
		return user.User{}, fmt.Errorf("check existing users: %w", err)
	}

	insertModel := userInsertModel{
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin || !exists,
		IsOwner:      !exists,
		IsVerified:   u.IsVerified,
		Token:        nullableString(u.Token),
	}
	query, args, err := qb.InsertModel("users", insertModel, "RETURNING "+joinColumns(userColumns))
	if err != nil {
		return user.User{}, fmt.Errorf("build create user query: %w", err)
	}

	var row userTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		switch {
		case isUniqueViolation(err, usersEmailKey):
			return user.User{}, user.ErrEmailTaken
		case isUniqueViolation(err, usersSingleOwnerKey):
			return user.User{}, user.ErrOwnerExists
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	return row.toDomain(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (user.User, bool, error) {
	return r.getOne(ctx, qb.Eq("id", id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, bool, error) {
	return r.getOne(ctx, qb.Eq("email", email))
}

func (r *UserRepository) GetByToken(ctx context.Context, token string) (user.User, bool, error) {
	if token == "" {
		return user.User{}, false, nil
	}
	return r.getOne(ctx, qb.Eq("token", token))
}

func (r *UserRepository) getOne(ctx context.Context, where qb.Condition) (user.User, bool, error) {
	query, args, err := qb.Select(userColumns...).
		From("users").
		Where(where).
		Limit(1).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user query: %w", err)
	}

	var row userTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	query, args, err := qb.Select(userColumns...).
		From("users").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list users query: %w", err)
	}

	var rows []userTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, u user.User) error {
	query, args, err := qb.Update("users").
		Set("name", u.Name).
		Set("password_hash", u.PasswordHash).
		SetExpr("is_admin", "(? OR is_owner)", u.IsAdmin).
		Set("is_verified", u.IsVerified).
		Set("token", nullableString(u.Token)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", u.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update user query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

const setPointsQuery = `UPDATE users AS u
SET points = v.points
FROM unnest($1::bigint[], $2::int[]) AS v(id, points)
WHERE u.id = v.id`

func (r *UserRepository) SetPoints(ctx context.Context, points map[int64]int) error {
	if len(points) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(points))
	totals := make([]int64, 0, len(points))
	for id, total := range points {
		ids = append(ids, id)
		totals = append(totals, int64(total))
	}

	if _, err := r.db.ExecContext(ctx, setPointsQuery, pq.Array(ids), pq.Array(totals)); err != nil {
		return fmt.Errorf("set user points: %w", err)
	}
	return nil
}

func (r *UserRepository) DemoteAdmins(ctx context.Context) error {
	query, args, err := qb.Update("users").
		Set("is_admin", false).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("is_admin", true), qb.Eq("is_owner", false)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build demote admins query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("demote admins: %w", err)
	}
	return nil
}

func (r *UserRepository) ElectOwner(ctx context.Context) (user.User, bool, error) {
	query := `
UPDATE users SET is_owner = TRUE, is_admin = TRUE, updated_at = NOW()
WHERE id = (SELECT MIN(id) FROM users)
  AND NOT EXISTS (SELECT 1 FROM users WHERE is_owner)
RETURNING ` + joinColumns(userColumns)

	var row userTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("elect owner: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := qb.DeleteFrom("users").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete user query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
