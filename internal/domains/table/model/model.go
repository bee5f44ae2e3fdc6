package model

import "tablebook/shared/model"

const (
	TableName  = "restaurant_tables"
	EntityName = "table"

	FieldID          = "id"
	FieldTableNumber = "table_number"
	FieldCapacity    = "capacity"
	FieldActive      = "active"
)

type Table struct {
	ID          string `db:"id"`
	TableNumber int    `db:"table_number"`
	Capacity    int    `db:"capacity"`
	Active      bool   `db:"active"`
	model.Metadata
}
