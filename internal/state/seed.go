package state

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/shading/pkg/core"
)

// DefaultSeedCount is the number of demo users inserted by Seed.
const DefaultSeedCount = 57

var (
	seedFirstNames = []string{
		"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Margaret", "Ken",
		"Radia", "Dennis", "Frances", "John", "Katherine", "Linus", "Hedy", "Niklaus",
	}
	seedLastNames = []string{
		"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth", "Hamilton", "Thompson",
		"Perlman", "Ritchie", "Allen", "McCarthy", "Johnson", "Torvalds", "Lamarr", "Wirth",
		"Kernighan",
	}
	seedDepartments = []string{"Engineering", "Finance", "Operations", "Marketing", "Support"}
	seedTitles      = []string{"Analyst", "Engineer", "Manager", "Coordinator", "Specialist", "Director"}
)

// DemoUser returns the i-th deterministic demo user.
func DemoUser(i int) (core.UserInput, bool) {
	first := seedFirstNames[i%len(seedFirstNames)]
	last := seedLastNames[i%len(seedLastNames)]

	role := core.RoleUser
	switch {
	case i%7 == 0:
		role = core.RoleAdmin
	case i%5 == 0:
		role = core.RoleTest
	}

	in := core.UserInput{
		PersonalNumber: fmt.Sprintf("EMP-%04d", i+1),
		FullName:       first + " " + last,
		Email:          fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i+1),
		Status:         i%4 != 3,
		Role:           role,
		Title:          seedTitles[i%len(seedTitles)],
		Department:     seedDepartments[i%len(seedDepartments)],
	}
	return in, i%9 == 8
}

// Seed inserts n demo users when the users table is empty and returns the
// number of rows inserted.
func (s *Store) Seed(ctx context.Context, n int) (int, error) {
	if s.db == nil {
		return 0, ErrNotOpen
	}
	if n <= 0 {
		n = DefaultSeedCount
	}

	count, err := s.CountUsers(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Debug("users table not empty, skipping seed", "count", count)
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.rebind(`
		INSERT INTO users (personal_number, full_name, email, status, role, title, department, is_archived)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare seed: %w", err)
	}
	defer stmt.Close()

	for i := range n {
		in, archived := DemoUser(i)
		if _, err := stmt.ExecContext(ctx, in.PersonalNumber, in.FullName, in.Email, in.Status,
			string(in.Role), in.Title, in.Department, archived); err != nil {
			return 0, fmt.Errorf("failed to seed user %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}

	s.logger.Info("seeded demo users", "count", n)
	return n, nil
}
