package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"tablebook/config"
	kafkaMocks "tablebook/infras/kafka/mocks"
	"tablebook/infras/otel/mocks"
	reservationMocks "tablebook/internal/domains/reservation/mocks"
	"tablebook/internal/domains/reservation/model"
	"tablebook/internal/domains/reservation/model/dto"
	"tablebook/internal/domains/reservation/repository"
	"tablebook/internal/domains/reservation/service"
	tableMocks "tablebook/internal/domains/table/mocks"
	tableModel "tablebook/internal/domains/table/model"
	cacheMocks "tablebook/shared/cache/mocks"
	"tablebook/shared/constant"
	"tablebook/shared/failure"
)

type serviceMocks struct {
	repo      *reservationMocks.MockReservation
	tableRepo *tableMocks.MockTable
	cache     *cacheMocks.MockRedisCache
	kafka     *kafkaMocks.MockClient
}

func newTestService(t *testing.T) (service.Reservation, serviceMocks) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := serviceMocks{
		repo:      reservationMocks.NewMockReservation(ctrl),
		tableRepo: tableMocks.NewMockTable(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
		kafka:     kafkaMocks.NewMockClient(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Kafka.Enable = true

	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return service.New(m.repo, m.tableRepo, cfg, m.cache, m.kafka, mocks.NewOtel()), m
}

func activeTable() tableModel.Table {
	return tableModel.Table{
		ID:          "5bfa53c3-31ec-4b63-a39c-9f68e2f9cbe3",
		TableNumber: 3,
		Capacity:    4,
		Active:      true,
	}
}

func reserveRequest() dto.CreateReservationRequest {
	return dto.CreateReservationRequest{
		TableID:         "5bfa53c3-31ec-4b63-a39c-9f68e2f9cbe3",
		CustomerName:    "Alice Tan",
		CustomerPhone:   "0811111111",
		PartySize:       4,
		ReservationDate: "2025-12-01",
		ReservationTime: "19:00",
	}
}

func TestReservationService_Reserve(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateReservationRequest
		setupMock func(m serviceMocks)
		wantErr   error
	}{
		{
			name: "successful reservation",
			req:  reserveRequest(),
			setupMock: func(m serviceMocks) {
				m.tableRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeTable(), nil)
				m.repo.EXPECT().
					ClaimSlot(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "unknown table",
			req:  reserveRequest(),
			setupMock: func(m serviceMocks) {
				m.tableRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(tableModel.Table{}, nil)
			},
			wantErr: failure.UnknownTable,
		},
		{
			name: "inactive table",
			req:  reserveRequest(),
			setupMock: func(m serviceMocks) {
				table := activeTable()
				table.Active = false

				m.tableRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(table, nil)
			},
			wantErr: failure.UnknownTable,
		},
		{
			name: "party exceeds capacity",
			req: func() dto.CreateReservationRequest {
				req := reserveRequest()
				req.PartySize = 5

				return req
			}(),
			setupMock: func(m serviceMocks) {
				m.tableRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeTable(), nil)
			},
			wantErr: failure.CapacityExceeded,
		},
		{
			name: "slot already taken",
			req:  reserveRequest(),
			setupMock: func(m serviceMocks) {
				m.tableRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeTable(), nil)
				m.repo.EXPECT().
					ClaimSlot(gomock.Any(), gomock.Any()).
					Return(repository.ErrDuplicateSlot)
			},
			wantErr: failure.SlotTaken,
		},
		{
			name: "storage failure",
			req:  reserveRequest(),
			setupMock: func(m serviceMocks) {
				m.tableRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeTable(), nil)
				m.repo.EXPECT().
					ClaimSlot(gomock.Any(), gomock.Any()).
					Return(errors.New("connection refused"))
			},
			wantErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(t)
			tt.setupMock(m)

			ctx := context.WithValue(context.Background(), constant.ContextKeyClientID, "test-client")
			res, err := svc.Reserve(ctx, tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)

				var fail *failure.Failure
				if errors.As(tt.wantErr, &fail) {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, tt.req.TableID, res.TableID)
			assert.Equal(t, model.StatusActive, res.Status)
			assert.Equal(t, constant.DefaultDurationHours, res.DurationHours)
		})
	}
}

func TestReservationService_Cancel(t *testing.T) {
	reservation := model.Reservation{
		ID:              "3f0e6a8e-69a7-46a7-9f2f-2d7a83f58f0a",
		TableID:         "5bfa53c3-31ec-4b63-a39c-9f68e2f9cbe3",
		CustomerPhone:   "0811111111",
		ReservationDate: "2025-12-01",
		ReservationTime: "19:00",
		Status:          model.StatusCancelled,
	}

	tests := []struct {
		name      string
		setupMock func(m serviceMocks)
		wantErr   error
	}{
		{
			name: "successful cancel",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					CancelActive(gomock.Any(), reservation.ID, gomock.Any()).
					Return(true, nil)
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(reservation, nil)
			},
		},
		{
			name: "reservation not found",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					CancelActive(gomock.Any(), reservation.ID, gomock.Any()).
					Return(false, nil)
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Reservation{}, nil)
			},
			wantErr: failure.ReservationNotFound,
		},
		{
			name: "already cancelled",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					CancelActive(gomock.Any(), reservation.ID, gomock.Any()).
					Return(false, nil)
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(reservation, nil)
			},
			wantErr: failure.AlreadyCancelled,
		},
		{
			name: "storage failure",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					CancelActive(gomock.Any(), reservation.ID, gomock.Any()).
					Return(false, errors.New("connection refused"))
			},
			wantErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(t)
			tt.setupMock(m)

			ctx := context.WithValue(context.Background(), constant.ContextKeyClientID, "test-client")
			err := svc.Cancel(ctx, reservation.ID)

			if tt.wantErr != nil {
				require.Error(t, err)

				var fail *failure.Failure
				if errors.As(tt.wantErr, &fail) {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestReservationService_Availability(t *testing.T) {
	req := dto.AvailabilityRequest{
		Date:      "2025-12-01",
		Time:      "19:00",
		PartySize: 4,
	}

	tables := []tableModel.Table{
		{ID: "a", TableNumber: 3, Capacity: 4, Active: true},
		{ID: "b", TableNumber: 4, Capacity: 4, Active: true},
	}

	svc, m := newTestService(t)

	m.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))
	m.repo.EXPECT().
		AvailableTables(gomock.Any(), req.Date, req.Time, req.PartySize).
		Return(tables, nil)

	res, err := svc.Availability(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, req.Date, res.Date)
	assert.Equal(t, req.Time, res.Time)
	require.Len(t, res.Tables, 2)
	assert.Equal(t, 3, res.Tables[0].TableNumber)
}

func TestReservationService_FindByPhone(t *testing.T) {
	phone := "0811111111"

	reservations := []model.Reservation{
		{ID: "r1", CustomerPhone: phone, ReservationDate: "2025-12-01", ReservationTime: "19:00", Status: model.StatusActive},
		{ID: "r2", CustomerPhone: phone, ReservationDate: "2025-12-03", ReservationTime: "12:00", Status: model.StatusActive},
	}

	svc, m := newTestService(t)

	m.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))
	m.repo.EXPECT().
		FindActiveByPhone(gomock.Any(), phone).
		Return(reservations, nil)

	res, err := svc.FindByPhone(context.Background(), phone)

	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)
	require.Len(t, res.Reservations, 2)
	assert.Equal(t, "r1", res.Reservations[0].ID)
	assert.Equal(t, "r2", res.Reservations[1].ID)
}

func TestReservationService_Occupancy(t *testing.T) {
	slots := []model.OccupancySlot{
		{ReservationTime: "12:00", ReservedTables: 1},
		{ReservationTime: "19:00", ReservedTables: 3},
	}

	svc, m := newTestService(t)

	m.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))
	m.repo.EXPECT().
		OccupancyByDate(gomock.Any(), "2025-12-01").
		Return(slots, nil)
	m.tableRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(10, nil)

	res, err := svc.Occupancy(context.Background(), "2025-12-01")

	require.NoError(t, err)
	assert.Equal(t, "2025-12-01", res.Date)
	assert.Equal(t, 10, res.TotalTables)
	assert.Equal(t, slots, res.Slots)
}

func TestReservationService_Get(t *testing.T) {
	reservation := model.Reservation{
		ID:              "3f0e6a8e-69a7-46a7-9f2f-2d7a83f58f0a",
		TableID:         "5bfa53c3-31ec-4b63-a39c-9f68e2f9cbe3",
		CustomerName:    "Alice Tan",
		CustomerPhone:   "0811111111",
		PartySize:       4,
		ReservationDate: "2025-12-01",
		ReservationTime: "19:00",
		DurationHours:   2,
		Status:          model.StatusActive,
	}

	t.Run("found", func(t *testing.T) {
		svc, m := newTestService(t)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(reservation, nil)

		res, err := svc.Get(context.Background(), reservation.ID)

		require.NoError(t, err)
		assert.Equal(t, reservation.ID, res.ID)
		assert.Equal(t, reservation.ReservationDate, res.ReservationDate)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newTestService(t)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Reservation{}, nil)

		_, err := svc.Get(context.Background(), "missing-id")

		assert.ErrorIs(t, err, failure.ReservationNotFound)
	})
}
