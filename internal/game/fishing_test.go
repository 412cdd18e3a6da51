package game

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rorogames/fishing-backend/internal/repository"
)

const catalogQuery = "SELECT id, name, reward, rarity, emoji FROM fish_types ORDER BY id"

func catalogRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "reward", "rarity", "emoji"}).
		AddRow(1, "Carp", 10, 0.3, "🐟").
		AddRow(2, "Pike", 5, 0.2, "🐠")
}

func newFishingEngine(t *testing.T, roll RandFunc) (*FishingEngine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	engine := NewFishingEngine(db, repository.NewFishRepo(db), repository.NewUserRepo(db), roll)
	return engine, mock
}

func TestAttemptCatchCreditsAndRecords(t *testing.T) {
	engine, mock := newFishingEngine(t, func() float64 { return 0.1 })

	mock.ExpectQuery(regexp.QuoteMeta(catalogQuery)).WillReturnRows(catalogRows())
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO inventory (user_id, fish_type_id) VALUES ($1, $2)")).
		WithArgs(uint64(7), uint64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET balance = balance + $1 WHERE id = $2 RETURNING balance")).
		WithArgs(int64(10), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(110))
	mock.ExpectCommit()

	outcome, err := engine.AttemptCatch(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, outcome.Caught)
	assert.Equal(t, uint64(1), outcome.Fish.ID)
	assert.Equal(t, "Carp", outcome.Fish.Name)
	assert.Equal(t, int64(110), outcome.NewBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptCatchMissTouchesNothing(t *testing.T) {
	// Draw lands above the total rarity mass: no transaction is opened.
	engine, mock := newFishingEngine(t, func() float64 { return 0.9 })

	mock.ExpectQuery(regexp.QuoteMeta(catalogQuery)).WillReturnRows(catalogRows())

	outcome, err := engine.AttemptCatch(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, outcome.Caught)
	assert.Nil(t, outcome.Fish)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptCatchReadsCatalogFreshEachCall(t *testing.T) {
	engine, mock := newFishingEngine(t, func() float64 { return 0.9 })

	mock.ExpectQuery(regexp.QuoteMeta(catalogQuery)).WillReturnRows(catalogRows())
	mock.ExpectQuery(regexp.QuoteMeta(catalogQuery)).WillReturnRows(catalogRows())

	_, err := engine.AttemptCatch(context.Background(), 7)
	require.NoError(t, err)
	_, err = engine.AttemptCatch(context.Background(), 7)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptCatchRollsBackOnCreditFailure(t *testing.T) {
	engine, mock := newFishingEngine(t, func() float64 { return 0.1 })

	mock.ExpectQuery(regexp.QuoteMeta(catalogQuery)).WillReturnRows(catalogRows())
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO inventory")).
		WithArgs(uint64(7), uint64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("UPDATE users SET balance").
		WithArgs(int64(10), uint64(7)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := engine.AttemptCatch(context.Background(), 7)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptCatchRollsBackOnInventoryFailure(t *testing.T) {
	engine, mock := newFishingEngine(t, func() float64 { return 0.1 })

	mock.ExpectQuery(regexp.QuoteMeta(catalogQuery)).WillReturnRows(catalogRows())
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO inventory")).
		WithArgs(uint64(7), uint64(1)).
		WillReturnError(errors.New("store unavailable"))
	mock.ExpectRollback()

	_, err := engine.AttemptCatch(context.Background(), 7)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
