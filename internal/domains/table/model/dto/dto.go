package dto

import (
	"tablebook/internal/domains/table/model"
	"tablebook/shared"
	gDto "tablebook/shared/dto"
	gModel "tablebook/shared/model"
	"tablebook/shared/timezone"

	"github.com/google/uuid"
)

type CreateTableRequest struct {
	TableNumber int   `json:"table_number" validate:"required,min=1"`
	Capacity    int   `json:"capacity"     validate:"required,min=1,max=50"`
	Active      *bool `json:"active"       validate:"omitempty"`
}

func (c *CreateTableRequest) ToModel(user string) model.Table {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Table{
		ID:          uuid.NewString(),
		TableNumber: c.TableNumber,
		Capacity:    c.Capacity,
		Active:      active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type TableResponse struct {
	ID          string `json:"id"`
	TableNumber int    `json:"table_number"`
	Capacity    int    `json:"capacity"`
	Active      bool   `json:"active"`
	gDto.Metadata
}

func (r *TableResponse) FromModel(model model.Table) {
	r.ID = model.ID
	r.TableNumber = model.TableNumber
	r.Capacity = model.Capacity
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetTablesResponse struct {
	Tables    []TableResponse `json:"tables"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetTablesResponse) FromModels(models []model.Table, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Tables = make([]TableResponse, len(models))
	for i, mod := range models {
		r.Tables[i].FromModel(mod)
	}
}
