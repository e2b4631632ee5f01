package state

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/shading/internal/grid"
	"github.com/leapstack-labs/shading/internal/testutil"
	"github.com/leapstack-labs/shading/pkg/core"
)

func setupTestStore(t *testing.T, seed int) *Store {
	t.Helper()
	store, err := Open("sqlite", ":memory:", testutil.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate())
	if seed > 0 {
		n, err := store.Seed(context.Background(), seed)
		require.NoError(t, err)
		require.Equal(t, seed, n)
	}
	return store
}

func pageIDs(resp core.PaginatedResponse[core.User]) []int64 {
	ids := make([]int64, len(resp.DisplayData))
	for i, u := range resp.DisplayData {
		ids[i] = u.ID
	}
	return ids
}

// =============================================================================
// Open / Migrate
// =============================================================================

func TestParseDialect(t *testing.T) {
	tests := []struct {
		driver  string
		want    Dialect
		wantErr bool
	}{
		{"", DialectSQLite, false},
		{"sqlite", DialectSQLite, false},
		{"SQLite3", DialectSQLite, false},
		{"postgres", DialectPostgres, false},
		{"pgx", DialectPostgres, false},
		{"mysql", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			got, err := ParseDialect(tt.driver)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("oracle", "x", nil)
	require.Error(t, err)
}

func TestMigrate(t *testing.T) {
	store := setupTestStore(t, 0)

	v, err := store.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	// idempotent
	require.NoError(t, store.Migrate())
	n, err := store.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNotOpen(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	assert.ErrorIs(t, s.Migrate(), ErrNotOpen)
	_, err := s.UsersGrid(ctx, &grid.Request{})
	assert.ErrorIs(t, err, ErrNotOpen)
	_, err = s.GetUser(ctx, 1)
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.ErrorIs(t, s.DeleteUser(ctx, 1), ErrNotOpen)
	_, err = s.Seed(ctx, 1)
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.NoError(t, s.Close())
}

func TestRebind(t *testing.T) {
	pg := NewWithDB(nil, DialectPostgres, nil)
	assert.Equal(t, "SELECT * FROM users WHERE a = $1 AND b = $2", pg.rebind("SELECT * FROM users WHERE a = ? AND b = ?"))

	lite := NewWithDB(nil, DialectSQLite, nil)
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}

// =============================================================================
// Seed
// =============================================================================

func TestSeed_OnlyWhenEmpty(t *testing.T) {
	store := setupTestStore(t, DefaultSeedCount)

	n, err := store.Seed(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, n)

	total, err := store.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultSeedCount, total)
}

func TestDemoUser_Deterministic(t *testing.T) {
	a, archivedA := DemoUser(3)
	b, archivedB := DemoUser(3)
	assert.Equal(t, a, b)
	assert.Equal(t, archivedA, archivedB)
	assert.Equal(t, "EMP-0004", a.PersonalNumber)
	assert.False(t, a.Status)
}

// =============================================================================
// UsersGrid
// =============================================================================

func TestUsersGrid(t *testing.T) {
	store := setupTestStore(t, DefaultSeedCount)
	ctx := context.Background()

	tests := []struct {
		name        string
		req         grid.Request
		wantTotal   int
		wantDisplay int
		check       func(t *testing.T, resp core.PaginatedResponse[core.User])
	}{
		{
			name:        "default hides archived",
			req:         grid.Request{Length: 10},
			wantTotal:   51,
			wantDisplay: 10,
			check: func(t *testing.T, resp core.PaginatedResponse[core.User]) {
				assert.Len(t, resp.AllIDs, 51)
				assert.Equal(t, resp.AllIDs[:10], pageIDs(resp))
				for _, u := range resp.DisplayData {
					assert.False(t, u.IsArchived)
				}
			},
		},
		{
			name:        "show archived",
			req:         grid.Request{Length: 10, Filters: map[string]any{FilterArchived: true}},
			wantTotal:   57,
			wantDisplay: 10,
		},
		{
			name:        "last partial page",
			req:         grid.Request{Start: 50, Length: 10},
			wantTotal:   51,
			wantDisplay: 1,
		},
		{
			name:        "past the end",
			req:         grid.Request{Start: 100, Length: 10},
			wantTotal:   51,
			wantDisplay: 0,
		},
		{
			name:        "search by personal number",
			req:         grid.Request{Length: 10, Search: "emp-0001"},
			wantTotal:   1,
			wantDisplay: 1,
			check: func(t *testing.T, resp core.PaginatedResponse[core.User]) {
				assert.Equal(t, "EMP-0001", resp.DisplayData[0].PersonalNumber)
			},
		},
		{
			name:        "search wildcard is literal",
			req:         grid.Request{Length: 10, Search: "%"},
			wantTotal:   0,
			wantDisplay: 0,
		},
		{
			name:        "role filter",
			req:         grid.Request{Length: 20, Filters: map[string]any{FilterRole: "admin"}},
			wantTotal:   8,
			wantDisplay: 8,
			check: func(t *testing.T, resp core.PaginatedResponse[core.User]) {
				for _, u := range resp.DisplayData {
					assert.Equal(t, core.RoleAdmin, u.Role)
				}
			},
		},
		{
			name:        "sort desc",
			req:         grid.Request{Length: 5, SortColumn: "personalNumber", SortDirection: grid.Desc},
			wantTotal:   51,
			wantDisplay: 5,
			check: func(t *testing.T, resp core.PaginatedResponse[core.User]) {
				assert.Equal(t, "EMP-0057", resp.DisplayData[0].PersonalNumber)
				assert.Equal(t, resp.AllIDs[:5], pageIDs(resp))
			},
		},
		{
			name:        "unknown sort column falls back to id",
			req:         grid.Request{Length: 3, SortColumn: "id; DROP TABLE users", SortDirection: grid.Asc},
			wantTotal:   51,
			wantDisplay: 3,
			check: func(t *testing.T, resp core.PaginatedResponse[core.User]) {
				assert.Equal(t, []int64{1, 2, 3}, pageIDs(resp))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := store.UsersGrid(ctx, &tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, resp.TotalRecords)
			assert.Equal(t, tt.wantDisplay, resp.TotalDisplayRecords)
			assert.Len(t, resp.DisplayData, tt.wantDisplay)
			if tt.check != nil {
				tt.check(t, resp)
			}
		})
	}
}

// =============================================================================
// CRUD
// =============================================================================

func TestUserCRUD(t *testing.T) {
	store := setupTestStore(t, 0)
	ctx := context.Background()

	created, err := store.CreateUser(ctx, core.UserInput{
		PersonalNumber: " P-1 ",
		FullName:       "Ada Lovelace",
		Email:          "ADA@Example.com",
		Status:         true,
		Role:           "Admin",
		Department:     "Engineering",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "P-1", created.PersonalNumber)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.Equal(t, core.RoleAdmin, created.Role)

	got, err := store.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	in := got.Input()
	in.Status = false
	in.Title = "Analyst"
	updated, err := store.UpdateUser(ctx, created.ID, in)
	require.NoError(t, err)
	assert.False(t, updated.Status)
	assert.Equal(t, "Analyst", updated.Title)

	got, err = store.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	require.NoError(t, store.DeleteUser(ctx, created.ID))
	_, err = store.GetUser(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.DeleteUser(ctx, created.ID), ErrNotFound)

	_, err = store.UpdateUser(ctx, 999, in)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStats(t *testing.T) {
	store := setupTestStore(t, DefaultSeedCount)

	stats, err := store.UserStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 57, stats.Total)
	assert.Equal(t, 6, stats.Archived)
	assert.Equal(t, 8, stats.ByRole[core.RoleAdmin])

	sum := 0
	for _, n := range stats.ByRole {
		sum += n
	}
	assert.Equal(t, stats.Total-stats.Archived, sum)
}

// =============================================================================
// Error paths (sqlmock)
// =============================================================================

func TestStore_ErrorPaths(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		run       func(s *Store) error
		wantMsg   string
	}{
		{
			name: "grid id query fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id FROM users").WillReturnError(boom)
			},
			run: func(s *Store) error {
				_, err := s.UsersGrid(context.Background(), &grid.Request{Length: 10})
				return err
			},
			wantMsg: "failed to query user ids",
		},
		{
			name: "grid page query fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id FROM users").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
				mock.ExpectQuery("SELECT id, personal_number").WillReturnError(boom)
			},
			run: func(s *Store) error {
				_, err := s.UsersGrid(context.Background(), &grid.Request{Length: 10})
				return err
			},
			wantMsg: "failed to query users",
		},
		{
			name: "get fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id, personal_number").WillReturnError(boom)
			},
			run: func(s *Store) error {
				_, err := s.GetUser(context.Background(), 1)
				return err
			},
			wantMsg: "failed to get user",
		},
		{
			name: "delete fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM users").WillReturnError(boom)
			},
			run: func(s *Store) error {
				return s.DeleteUser(context.Background(), 1)
			},
			wantMsg: "failed to delete user",
		},
		{
			name: "seed rolls back on insert error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
				mock.ExpectBegin()
				mock.ExpectPrepare("INSERT INTO users").ExpectExec().WillReturnError(boom)
				mock.ExpectRollback()
			},
			run: func(s *Store) error {
				_, err := s.Seed(context.Background(), 3)
				return err
			},
			wantMsg: "failed to seed user 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.setupMock(mock)
			err = tt.run(NewWithDB(db, DialectSQLite, nil))
			require.Error(t, err)
			assert.ErrorIs(t, err, boom)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
