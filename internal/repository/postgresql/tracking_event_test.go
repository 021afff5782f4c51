package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_database "gitlab.com/courexa/edi-gateway/internal/db/mocks"
	"gitlab.com/courexa/edi-gateway/internal/repository"
	"gitlab.com/courexa/edi-gateway/internal/repository/postgresql"
)

func testEvent() *repository.TrackingEvent {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return &repository.TrackingEvent{
		ParcelID:       "11111111-2222-3333-4444-555555555555",
		EventType:      "IN_TRANSIT",
		Description:    "departed hub",
		EventTimestamp: now,
		CreatedAt:      now,
	}
}

func TestTrackingEventRepo_AppendTx(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewTrackingEventRepo(mockDB)

		ev := testEvent()
		mockTx.EXPECT().Exec(
			gomock.Any(),
			gomock.Any(),
			gomock.Eq(ev.ParcelID),
			gomock.Eq(ev.EventType),
			gomock.Eq(ev.Description),
			gomock.Eq(ev.EventTimestamp),
			gomock.Eq(ev.Location),
			gomock.Eq(ev.VehicleID),
			gomock.Eq(ev.DriverName),
			gomock.Eq(ev.AdditionalInfo),
			gomock.Eq(ev.CreatedAt),
		).Return(nil, nil)

		err := repo.AppendTx(ctx, mockTx, ev)
		assert.NoError(t, err)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewTrackingEventRepo(mockDB)

		expectedErr := errors.New("database error")
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, expectedErr)

		err := repo.AppendTx(ctx, mockTx, testEvent())
		assert.Equal(t, expectedErr, err)
	})
}

func TestTrackingEventRepo_LatestTx(t *testing.T) {
	ctx := context.Background()

	t.Run("latest event returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewTrackingEventRepo(mockDB)

		expected := testEvent()
		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(expected.ParcelID)).
			DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
				*dest.(*repository.TrackingEvent) = *expected
				return nil
			})

		ev, err := repo.LatestTx(ctx, mockTx, expected.ParcelID)
		require.NoError(t, err)
		assert.Equal(t, expected, ev)
	})

	t.Run("no events yet yields nil without error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewTrackingEventRepo(mockDB)

		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgx.ErrNoRows)

		ev, err := repo.LatestTx(ctx, mockTx, "no-events")
		assert.NoError(t, err)
		assert.Nil(t, ev)
	})
}

func TestTrackingEventRepo_ListByParcelID(t *testing.T) {
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mock_database.NewMockDB(ctrl)
	repo := postgresql.NewTrackingEventRepo(mockDB)

	first := testEvent()
	second := testEvent()
	second.EventType = "OUT_FOR_DELIVERY"
	second.EventTimestamp = first.EventTimestamp.Add(time.Hour)

	mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(first.ParcelID)).
		DoAndReturn(func(_ context.Context, dest interface{}, query string, _ ...interface{}) error {
			assert.Contains(t, query, "ORDER BY event_timestamp ASC")
			*dest.(*[]*repository.TrackingEvent) = []*repository.TrackingEvent{first, second}
			return nil
		})

	events, err := repo.ListByParcelID(ctx, first.ParcelID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "IN_TRANSIT", events[0].EventType)
	assert.Equal(t, "OUT_FOR_DELIVERY", events[1].EventType)
}
