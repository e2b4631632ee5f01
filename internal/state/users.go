package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/shading/internal/grid"
	"github.com/leapstack-labs/shading/pkg/core"
)

const userColumns = `id, personal_number, full_name, email, status, role, title, department, is_archived`

// sortColumns maps grid column ids to SQL columns. Anything else is ignored.
var sortColumns = map[string]string{
	"personalNumber": "personal_number",
	"fullName":       "full_name",
	"email":          "email",
	"role":           "role",
	"department":     "department",
	"title":          "title",
}

// Filter keys understood by UsersGrid.
const (
	FilterArchived = "isArchived"
	FilterRole     = "role"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (core.User, error) {
	var u core.User
	var role string
	err := row.Scan(&u.ID, &u.PersonalNumber, &u.FullName, &u.Email, &u.Status,
		&role, &u.Title, &u.Department, &u.IsArchived)
	u.Role = core.Role(role)
	return u, err
}

// usersWhere builds the WHERE clause for req.
func usersWhere(req *grid.Request) (string, []any) {
	var conds []string
	var args []any

	if term := strings.TrimSpace(req.Search); term != "" {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		var likes []string
		for _, col := range []string{"personal_number", "full_name", "email", "title"} {
			likes = append(likes, "LOWER("+col+") LIKE ? ESCAPE '\\'")
			args = append(args, pattern)
		}
		conds = append(conds, "("+strings.Join(likes, " OR ")+")")
	}

	// "show archived" off hides archived rows; on shows everything
	if show, _ := req.Filter(FilterArchived).(bool); !show {
		conds = append(conds, "is_archived = ?")
		args = append(args, false)
	}

	if role, _ := req.Filter(FilterRole).(string); role != "" {
		conds = append(conds, "role = ?")
		args = append(args, strings.ToLower(role))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func usersOrder(req *grid.Request) string {
	col, ok := sortColumns[req.SortColumn]
	if !ok || req.SortDirection == grid.None {
		return " ORDER BY id ASC"
	}
	dir := "ASC"
	if req.SortDirection == grid.Desc {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir + ", id ASC"
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// UsersGrid returns one page of users for req.
func (s *Store) UsersGrid(ctx context.Context, req *grid.Request) (core.PaginatedResponse[core.User], error) {
	var out core.PaginatedResponse[core.User]
	if s.db == nil {
		return out, ErrNotOpen
	}

	where, args := usersWhere(req)
	order := usersOrder(req)

	// ids of every matching row, in display order
	rows, err := s.db.QueryContext(ctx, s.rebind("SELECT id FROM users"+where+order), args...)
	if err != nil {
		return out, fmt.Errorf("failed to query user ids: %w", err)
	}
	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return out, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return out, fmt.Errorf("failed to iterate user ids: %w", err)
	}

	length := req.Length
	if length <= 0 {
		length = 10
	}
	start := max(req.Start, 0)

	pageArgs := append(append([]any{}, args...), length, start)
	rows, err = s.db.QueryContext(ctx,
		s.rebind("SELECT "+userColumns+" FROM users"+where+order+" LIMIT ? OFFSET ?"),
		pageArgs...,
	)
	if err != nil {
		return out, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	page := []core.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return out, fmt.Errorf("failed to scan user: %w", err)
		}
		page = append(page, u)
	}
	if err := rows.Err(); err != nil {
		return out, fmt.Errorf("failed to iterate users: %w", err)
	}

	out.TotalRecords = len(ids)
	out.TotalDisplayRecords = len(page)
	out.DisplayData = page
	out.AllIDs = ids
	return out, nil
}

// GetUser returns the user with id.
func (s *Store) GetUser(ctx context.Context, id int64) (core.User, error) {
	if s.db == nil {
		return core.User{}, ErrNotOpen
	}

	row := s.db.QueryRowContext(ctx, s.rebind("SELECT "+userColumns+" FROM users WHERE id = ?"), id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// CreateUser inserts a user and returns it with its id.
func (s *Store) CreateUser(ctx context.Context, in core.UserInput) (core.User, error) {
	if s.db == nil {
		return core.User{}, ErrNotOpen
	}

	in = in.Normalize()
	row := s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO users (personal_number, full_name, email, status, role, title, department, is_archived)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		in.PersonalNumber, in.FullName, in.Email, in.Status, string(in.Role), in.Title, in.Department, false,
	)
	var id int64
	if err := row.Scan(&id); err != nil {
		return core.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Debug("user created", "id", id)
	return userFromInput(id, in, false), nil
}

// UpdateUser replaces the editable fields of user id.
func (s *Store) UpdateUser(ctx context.Context, id int64, in core.UserInput) (core.User, error) {
	if s.db == nil {
		return core.User{}, ErrNotOpen
	}

	in = in.Normalize()
	row := s.db.QueryRowContext(ctx, s.rebind(`
		UPDATE users
		SET personal_number = ?, full_name = ?, email = ?, status = ?, role = ?, title = ?, department = ?
		WHERE id = ?
		RETURNING is_archived`),
		in.PersonalNumber, in.FullName, in.Email, in.Status, string(in.Role), in.Title, in.Department, id,
	)
	var archived bool
	err := row.Scan(&archived)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Debug("user updated", "id", id)
	return userFromInput(id, in, archived), nil
}

// DeleteUser removes user id.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	if s.db == nil {
		return ErrNotOpen
	}

	res, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}

	s.logger.Debug("user deleted", "id", id)
	return nil
}

// CountUsers returns the number of users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, ErrNotOpen
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// UserStats aggregates the users table. Archived users count only toward
// Total and Archived.
func (s *Store) UserStats(ctx context.Context) (core.UserStats, error) {
	stats := core.UserStats{ByRole: map[core.Role]int{}, ByDepartment: map[string]int{}}
	if s.db == nil {
		return stats, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx, "SELECT status, role, department, is_archived FROM users")
	if err != nil {
		return stats, fmt.Errorf("failed to query user stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var active, archived bool
		var role, dept string
		if err := rows.Scan(&active, &role, &dept, &archived); err != nil {
			return stats, fmt.Errorf("failed to scan user stats: %w", err)
		}
		stats.Total++
		if archived {
			stats.Archived++
			continue
		}
		if active {
			stats.Active++
		}
		stats.ByRole[core.Role(role)]++
		if dept != "" {
			stats.ByDepartment[dept]++
		}
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("failed to iterate user stats: %w", err)
	}
	return stats, nil
}

func userFromInput(id int64, in core.UserInput, archived bool) core.User {
	return core.User{
		ID:             id,
		PersonalNumber: in.PersonalNumber,
		FullName:       in.FullName,
		Email:          in.Email,
		Status:         in.Status,
		Role:           in.Role,
		Title:          in.Title,
		Department:     in.Department,
		IsArchived:     archived,
	}
}
