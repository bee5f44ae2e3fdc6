package dto

import (
	"tablebook/internal/domains/reservation/model"
	tableModel "tablebook/internal/domains/table/model"
	tableDto "tablebook/internal/domains/table/model/dto"
	"tablebook/shared"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	gModel "tablebook/shared/model"
	"tablebook/shared/timezone"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	TableID         string `json:"table_id"         validate:"required,uuid4"`
	CustomerName    string `json:"customer_name"    validate:"required,max=100"`
	CustomerPhone   string `json:"customer_phone"   validate:"required,max=20"`
	PartySize       int    `json:"party_size"       validate:"required,min=1"`
	ReservationDate string `json:"reservation_date" validate:"required,datetime=2006-01-02"`
	ReservationTime string `json:"reservation_time" validate:"required,datetime=15:04"`
	DurationHours   int    `json:"duration_hours"   validate:"omitempty,min=1,max=12"`
}

func (c *CreateReservationRequest) ToModel(user string) model.Reservation {
	duration := c.DurationHours
	if duration == 0 {
		duration = constant.DefaultDurationHours
	}

	return model.Reservation{
		ID:              uuid.NewString(),
		TableID:         c.TableID,
		CustomerName:    c.CustomerName,
		CustomerPhone:   c.CustomerPhone,
		PartySize:       c.PartySize,
		ReservationDate: c.ReservationDate,
		ReservationTime: c.ReservationTime,
		DurationHours:   duration,
		Status:          model.StatusActive,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type AvailabilityRequest struct {
	Date      string `json:"date"       validate:"required,datetime=2006-01-02"`
	Time      string `json:"time"       validate:"required,datetime=15:04"`
	PartySize int    `json:"party_size" validate:"required,min=1"`
}

type ReservationResponse struct {
	ID              string `json:"id"`
	TableID         string `json:"table_id"`
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	PartySize       int    `json:"party_size"`
	ReservationDate string `json:"reservation_date"`
	ReservationTime string `json:"reservation_time"`
	DurationHours   int    `json:"duration_hours"`
	Status          string `json:"status"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.TableID = model.TableID
	r.CustomerName = model.CustomerName
	r.CustomerPhone = model.CustomerPhone
	r.PartySize = model.PartySize
	r.ReservationDate = model.ReservationDate
	r.ReservationTime = model.ReservationTime
	r.DurationHours = model.DurationHours
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

type AvailabilityResponse struct {
	Date      string                   `json:"date"`
	Time      string                   `json:"time"`
	PartySize int                      `json:"party_size"`
	Tables    []tableDto.TableResponse `json:"tables"`
}

func (r *AvailabilityResponse) FromModels(req AvailabilityRequest, models []tableModel.Table) {
	r.Date = req.Date
	r.Time = req.Time
	r.PartySize = req.PartySize

	r.Tables = make([]tableDto.TableResponse, len(models))
	for i, mod := range models {
		r.Tables[i].FromModel(mod)
	}
}

type OccupancyResponse struct {
	Date        string                `json:"date"`
	TotalTables int                   `json:"total_tables"`
	Slots       []model.OccupancySlot `json:"slots"`
}
