package model

import "tablebook/shared/model"

const (
	TableName  = "reservations"
	EntityName = "reservation"

	StatusActive    = "active"
	StatusCancelled = "cancelled"

	FieldID              = "id"
	FieldTableID         = "table_id"
	FieldCustomerName    = "customer_name"
	FieldCustomerPhone   = "customer_phone"
	FieldPartySize       = "party_size"
	FieldReservationDate = "reservation_date"
	FieldReservationTime = "reservation_time"
	FieldDurationHours   = "duration_hours"
	FieldStatus          = "status"
)

// Reservation holds a claim on a table for an exact date and time slot.
// Dates and times are stored as plain strings ("2006-01-02" and "15:04")
// and matched lexically; slots at different times never conflict.
type Reservation struct {
	ID              string `db:"id"`
	TableID         string `db:"table_id"`
	CustomerName    string `db:"customer_name"`
	CustomerPhone   string `db:"customer_phone"`
	PartySize       int    `db:"party_size"`
	ReservationDate string `db:"reservation_date"`
	ReservationTime string `db:"reservation_time"`
	DurationHours   int    `db:"duration_hours"`
	Status          string `db:"status"`
	model.Metadata
}

// OccupancySlot is an aggregate row of active reservations per time slot.
type OccupancySlot struct {
	ReservationTime string `db:"reservation_time" json:"reservation_time"`
	ReservedTables  int    `db:"reserved_tables"  json:"reserved_tables"`
}
