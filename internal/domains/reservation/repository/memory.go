package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"tablebook/internal/domains/reservation/model"
	tableModel "tablebook/internal/domains/table/model"
	gDto "tablebook/shared/dto"
)

// memoryImpl is a mutex-guarded ledger with the same slot semantics as the
// postgres repository. The claim map mirrors the partial unique index: one
// entry per (table, date, time) slot held by an active reservation.
type memoryImpl struct {
	mu           sync.Mutex
	reservations map[string]model.Reservation
	claims       map[string]string
	tables       []tableModel.Table
}

func NewMemory(tables []tableModel.Table) Reservation {
	return &memoryImpl{
		reservations: map[string]model.Reservation{},
		claims:       map[string]string{},
		tables:       tables,
	}
}

func slotKey(tableID, date, time string) string {
	return fmt.Sprintf("%s|%s|%s", tableID, date, time)
}

func (repo *memoryImpl) ClaimSlot(_ context.Context, reservation model.Reservation) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	key := slotKey(reservation.TableID, reservation.ReservationDate, reservation.ReservationTime)
	if _, taken := repo.claims[key]; taken {
		return ErrDuplicateSlot
	}

	repo.claims[key] = reservation.ID
	repo.reservations[reservation.ID] = reservation

	return nil
}

func (repo *memoryImpl) CancelActive(_ context.Context, id, user string) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	reservation, ok := repo.reservations[id]
	if !ok || reservation.Status != model.StatusActive {
		return false, nil
	}

	reservation.Status = model.StatusCancelled
	reservation.ModifiedBy = user
	repo.reservations[id] = reservation

	delete(repo.claims, slotKey(reservation.TableID, reservation.ReservationDate, reservation.ReservationTime))

	return true, nil
}

func (repo *memoryImpl) FindActiveByPhone(_ context.Context, phone string) ([]model.Reservation, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	reservations := []model.Reservation{}

	for _, reservation := range repo.reservations {
		if reservation.CustomerPhone == phone && reservation.Status == model.StatusActive {
			reservations = append(reservations, reservation)
		}
	}

	sort.Slice(reservations, func(i, j int) bool {
		if reservations[i].ReservationDate != reservations[j].ReservationDate {
			return reservations[i].ReservationDate < reservations[j].ReservationDate
		}

		return reservations[i].ReservationTime < reservations[j].ReservationTime
	})

	return reservations, nil
}

func (repo *memoryImpl) AvailableTables(_ context.Context, date, time string, partySize int) ([]tableModel.Table, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	tables := []tableModel.Table{}

	for _, table := range repo.tables {
		if !table.Active || table.Capacity < partySize {
			continue
		}

		if _, taken := repo.claims[slotKey(table.ID, date, time)]; taken {
			continue
		}

		tables = append(tables, table)
	}

	sort.Slice(tables, func(i, j int) bool {
		return tables[i].TableNumber < tables[j].TableNumber
	})

	return tables, nil
}

func (repo *memoryImpl) OccupancyByDate(_ context.Context, date string) ([]model.OccupancySlot, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	counts := map[string]int{}

	for _, reservation := range repo.reservations {
		if reservation.ReservationDate == date && reservation.Status == model.StatusActive {
			counts[reservation.ReservationTime]++
		}
	}

	slots := make([]model.OccupancySlot, 0, len(counts))
	for time, reserved := range counts {
		slots = append(slots, model.OccupancySlot{ReservationTime: time, ReservedTables: reserved})
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].ReservationTime < slots[j].ReservationTime
	})

	return slots, nil
}

func (repo *memoryImpl) Get(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Reservation, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, reservation := range repo.reservations {
		if matchesFilter(reservation, filter) {
			return reservation, nil
		}
	}

	return model.Reservation{}, nil
}

func (repo *memoryImpl) GetAll(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Reservation, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	reservations := []model.Reservation{}

	for _, reservation := range repo.reservations {
		if matchesFilter(reservation, filter) {
			reservations = append(reservations, reservation)
		}
	}

	sort.Slice(reservations, func(i, j int) bool {
		return reservations[i].ID < reservations[j].ID
	})

	if params.Limit > 0 {
		offset := 0
		if params.Page > 1 {
			offset = (params.Page - 1) * params.Limit
		}

		if offset >= len(reservations) {
			return []model.Reservation{}, nil
		}

		end := min(offset+params.Limit, len(reservations))

		reservations = reservations[offset:end]
	}

	return reservations, nil
}

func (repo *memoryImpl) Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error) {
	reservation, err := repo.Get(ctx, filter)
	if err != nil {
		return false, err
	}

	return reservation.ID != "", nil
}

func (repo *memoryImpl) Count(_ context.Context, filter gDto.FilterGroup) (int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	count := 0

	for _, reservation := range repo.reservations {
		if matchesFilter(reservation, filter) {
			count++
		}
	}

	return count, nil
}

// matchesFilter evaluates equality filters against reservation columns.
// Only the operators the services actually build are supported.
func matchesFilter(reservation model.Reservation, filter gDto.FilterGroup) bool {
	for _, raw := range filter.Filters {
		switch f := raw.(type) {
		case gDto.Filter:
			if f.Operator != gDto.FilterOperatorEq {
				continue
			}

			if fieldValue(reservation, f.Field) != fmt.Sprintf("%v", f.Value) {
				return false
			}
		case gDto.FilterGroup:
			if !matchesFilter(reservation, f) {
				return false
			}
		}
	}

	return true
}

func fieldValue(reservation model.Reservation, field string) string {
	switch field {
	case model.FieldID:
		return reservation.ID
	case model.FieldTableID:
		return reservation.TableID
	case model.FieldCustomerPhone:
		return reservation.CustomerPhone
	case model.FieldStatus:
		return reservation.Status
	case model.FieldReservationDate:
		return reservation.ReservationDate
	case model.FieldReservationTime:
		return reservation.ReservationTime
	default:
		return ""
	}
}
