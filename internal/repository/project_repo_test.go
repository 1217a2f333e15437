package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardpulse/boardpulse/internal/database"
)

// fakeDB is an in-memory database.DB that records every statement executed
// inside a transaction and discards them all when the transaction rolls back.
type fakeDB struct {
	taskIDs    []uuid.UUID
	failOn     string // substring of the statement to fail on
	committed  []string
	rolledBack bool
}

type fakeTx struct {
	db         *fakeDB
	statements []string
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return &uuidRows{ids: f.taskIDs}, nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return errRow{err: pgx.ErrNoRows}
}

func (f *fakeDB) InTx(ctx context.Context, fn func(q database.Querier) error) error {
	tx := &fakeTx{db: f}
	if err := fn(tx); err != nil {
		f.rolledBack = true
		return err
	}
	f.committed = tx.statements
	return nil
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if t.db.failOn != "" && strings.Contains(sql, t.db.failOn) {
		return pgconn.CommandTag{}, errors.New("injected failure")
	}
	t.statements = append(t.statements, sql)
	return pgconn.CommandTag{}, nil
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return &uuidRows{ids: t.db.taskIDs}, nil
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return errRow{err: pgx.ErrNoRows}
}

var _ database.DB = (*fakeDB)(nil)

// uuidRows serves a single uuid column.
type uuidRows struct {
	ids []uuid.UUID
	pos int
}

func (r *uuidRows) Close()                                       {}
func (r *uuidRows) Err() error                                   { return nil }
func (r *uuidRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *uuidRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *uuidRows) Next() bool                                   { return r.pos < len(r.ids) }
func (r *uuidRows) Values() ([]any, error)                       { return nil, nil }
func (r *uuidRows) RawValues() [][]byte                          { return nil }
func (r *uuidRows) Conn() *pgx.Conn                              { return nil }

func (r *uuidRows) Scan(dest ...any) error {
	if r.pos >= len(r.ids) {
		return pgx.ErrNoRows
	}
	if target, ok := dest[0].(*uuid.UUID); ok {
		*target = r.ids[r.pos]
	}
	r.pos++
	return nil
}

type errRow struct {
	err error
}

func (r errRow) Scan(dest ...any) error { return r.err }

func TestProjectRepo_DeleteCascade(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()

	t.Run("deletes in dependency order", func(t *testing.T) {
		db := &fakeDB{taskIDs: []uuid.UUID{uuid.New(), uuid.New()}}
		repo := NewProjectRepository(db)

		err := repo.DeleteCascade(ctx, projectID)
		require.NoError(t, err)
		require.Len(t, db.committed, 5)

		assert.Contains(t, db.committed[0], "task_comments")
		assert.Contains(t, db.committed[1], "DELETE FROM tasks")
		assert.Contains(t, db.committed[2], "task_statuses")
		assert.Contains(t, db.committed[3], "project_members")
		assert.Contains(t, db.committed[4], "DELETE FROM projects")
	})

	t.Run("project without tasks skips the comment delete", func(t *testing.T) {
		db := &fakeDB{}
		repo := NewProjectRepository(db)

		err := repo.DeleteCascade(ctx, projectID)
		require.NoError(t, err)
		require.Len(t, db.committed, 4)
		assert.NotContains(t, db.committed[0], "task_comments")
	})

	t.Run("mid-cascade failure rolls everything back", func(t *testing.T) {
		db := &fakeDB{
			taskIDs: []uuid.UUID{uuid.New()},
			failOn:  "task_statuses",
		}
		repo := NewProjectRepository(db)

		err := repo.DeleteCascade(ctx, projectID)
		require.Error(t, err)
		assert.True(t, db.rolledBack)
		assert.Empty(t, db.committed)
	})

	t.Run("activities are never part of the cascade", func(t *testing.T) {
		db := &fakeDB{taskIDs: []uuid.UUID{uuid.New()}}
		repo := NewProjectRepository(db)

		err := repo.DeleteCascade(ctx, projectID)
		require.NoError(t, err)
		for _, stmt := range db.committed {
			assert.NotContains(t, stmt, "activities")
		}
	})
}
