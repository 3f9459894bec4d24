package itinerary

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globetrotter-app/globetrotter/internal/types"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PostgresItineraryRepo) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return mockPool, NewPostgresItineraryRepo(mockPool, slog.Default())
}

func TestSaveStopOrderTransaction(t *testing.T) {
	mockPool, repo := newMockRepo(t)
	tripID := uuid.New()
	stopIDs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	mockPool.ExpectBegin()
	for i, id := range stopIDs {
		mockPool.ExpectExec("UPDATE stops SET order_index").
			WithArgs(i, id, tripID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	}
	mockPool.ExpectCommit()

	err := repo.SaveStopOrder(context.Background(), tripID, stopIDs)

	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSaveStopOrderRollsBackOnForeignStop(t *testing.T) {
	mockPool, repo := newMockRepo(t)
	tripID := uuid.New()
	stopIDs := []uuid.UUID{uuid.New(), uuid.New()}

	mockPool.ExpectBegin()
	mockPool.ExpectExec("UPDATE stops SET order_index").
		WithArgs(0, stopIDs[0], tripID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	// Second stop belongs to another trip: zero rows touched, no commit.
	mockPool.ExpectExec("UPDATE stops SET order_index").
		WithArgs(1, stopIDs[1], tripID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mockPool.ExpectRollback()

	err := repo.SaveStopOrder(context.Background(), tripID, stopIDs)

	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestDeleteStopScopedToTrip(t *testing.T) {
	mockPool, repo := newMockRepo(t)
	tripID, stopID := uuid.New(), uuid.New()

	mockPool.ExpectExec("DELETE FROM stops").
		WithArgs(stopID, tripID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.DeleteStop(context.Background(), tripID, stopID))

	mockPool.ExpectExec("DELETE FROM stops").
		WithArgs(stopID, tripID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.DeleteStop(context.Background(), tripID, stopID), types.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
