package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseyos/caseyos/internal/domain"
	"github.com/caseyos/caseyos/internal/repository/testutil"
)

func signalRows(id string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "source", "kind", "dedupe_hash", "payload", "received_at",
		"processed_at", "workflow_id", "created_at", "updated_at",
	}).AddRow(id, "form", "demo_request", "hash-1", []byte(`{"email":"a@b.com"}`), now, nil, nil, now, now)
}

func TestSignalInsertIfAbsentInserts(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()
	repo := NewSignalRepository(db)

	mock.ExpectExec("INSERT INTO signals").
		WillReturnResult(sqlmock.NewResult(0, 1))

	signal := &domain.Signal{
		Source:     domain.SignalSourceForm,
		Kind:       "demo_request",
		DedupeHash: "hash-1",
		Payload:    domain.JSONMap{"email": "a@b.com"},
	}
	stored, inserted, err := repo.InsertIfAbsent(context.Background(), signal)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotEmpty(t, stored.ID, "id is assigned on insert")
	assert.False(t, stored.ReceivedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSignalInsertIfAbsentReturnsStoredDuplicate(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()
	repo := NewSignalRepository(db)

	// ON CONFLICT DO NOTHING: zero rows affected means the pair exists
	mock.ExpectExec("INSERT INTO signals").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM signals WHERE source = \\$1 AND dedupe_hash = \\$2").
		WithArgs("form", "hash-1").
		WillReturnRows(signalRows("sig-original"))

	signal := &domain.Signal{
		Source:     domain.SignalSourceForm,
		Kind:       "demo_request",
		DedupeHash: "hash-1",
		Payload:    domain.JSONMap{"email": "a@b.com"},
	}
	stored, inserted, err := repo.InsertIfAbsent(context.Background(), signal)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, "sig-original", stored.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSignalGetNotFound(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()
	repo := NewSignalRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM signals WHERE id = \\$1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Get(context.Background(), "missing")
	var notFound *domain.ErrNotFound
	require.ErrorAs(t, err, &notFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSignalMarkProcessedNotFound(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()
	repo := NewSignalRepository(db)

	mock.ExpectExec("UPDATE signals").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkProcessed(context.Background(), "missing", nil)
	var notFound *domain.ErrNotFound
	require.ErrorAs(t, err, &notFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
