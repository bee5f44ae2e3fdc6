package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tablebook/internal/domains/reservation/model"
	"tablebook/internal/domains/reservation/model/dto"
	"tablebook/shared/constant"
)

func TestCreateReservationRequest_ToModel(t *testing.T) {
	req := dto.CreateReservationRequest{
		TableID:         "5bfa53c3-31ec-4b63-a39c-9f68e2f9cbe3",
		CustomerName:    "Alice Tan",
		CustomerPhone:   "0811111111",
		PartySize:       4,
		ReservationDate: "2025-12-01",
		ReservationTime: "19:00",
	}

	reservation := req.ToModel("test-client")

	assert.NotEmpty(t, reservation.ID)
	assert.Equal(t, req.TableID, reservation.TableID)
	assert.Equal(t, req.CustomerName, reservation.CustomerName)
	assert.Equal(t, req.CustomerPhone, reservation.CustomerPhone)
	assert.Equal(t, req.PartySize, reservation.PartySize)
	assert.Equal(t, req.ReservationDate, reservation.ReservationDate)
	assert.Equal(t, req.ReservationTime, reservation.ReservationTime)
	assert.Equal(t, constant.DefaultDurationHours, reservation.DurationHours)
	assert.Equal(t, model.StatusActive, reservation.Status)
	assert.Equal(t, "test-client", reservation.CreatedBy)
	assert.False(t, reservation.CreatedAt.IsZero())
}

func TestCreateReservationRequest_ToModelKeepsDuration(t *testing.T) {
	req := dto.CreateReservationRequest{
		TableID:         "5bfa53c3-31ec-4b63-a39c-9f68e2f9cbe3",
		CustomerName:    "Alice Tan",
		CustomerPhone:   "0811111111",
		PartySize:       2,
		ReservationDate: "2025-12-01",
		ReservationTime: "19:00",
		DurationHours:   3,
	}

	reservation := req.ToModel("test-client")

	assert.Equal(t, 3, reservation.DurationHours)
}

func TestReservationResponse_FromModel(t *testing.T) {
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

	var res dto.ReservationResponse
	res.FromModel(reservation)

	assert.Equal(t, reservation.ID, res.ID)
	assert.Equal(t, reservation.TableID, res.TableID)
	assert.Equal(t, reservation.ReservationDate, res.ReservationDate)
	assert.Equal(t, reservation.ReservationTime, res.ReservationTime)
	assert.Equal(t, reservation.Status, res.Status)
}
