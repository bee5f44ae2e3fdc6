package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"tablebook/infras/otel"
	"tablebook/infras/postgres"
	"tablebook/internal/domains/reservation/model"
	tableModel "tablebook/internal/domains/table/model"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	"tablebook/shared/logger"
	gRepo "tablebook/shared/repository"
	"tablebook/shared/timezone"
)

// ErrDuplicateSlot reports that another active reservation already holds the
// same (table, date, time) slot. The partial unique index on the reservations
// table is the arbiter: under concurrent inserts exactly one writer succeeds.
var ErrDuplicateSlot = errors.New("slot already reserved")

type Reservation interface {
	ClaimSlot(ctx context.Context, model model.Reservation) error
	CancelActive(ctx context.Context, id, user string) (bool, error)
	FindActiveByPhone(ctx context.Context, phone string) ([]model.Reservation, error)
	AvailableTables(ctx context.Context, date, time string, partySize int) ([]tableModel.Table, error)
	OccupancyByDate(ctx context.Context, date string) ([]model.OccupancySlot, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ClaimSlot inserts the reservation and lets the database decide the race.
// A unique violation on the active-slot index maps to ErrDuplicateSlot so the
// service can tell a lost race apart from a storage failure.
func (repo *repositoryImpl) ClaimSlot(ctx context.Context, reservation model.Reservation) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.ClaimSlot")
	defer scope.End()

	columns := []string{
		model.FieldID,
		model.FieldTableID,
		model.FieldCustomerName,
		model.FieldCustomerPhone,
		model.FieldPartySize,
		model.FieldReservationDate,
		model.FieldReservationTime,
		model.FieldDurationHours,
		model.FieldStatus,
		constant.FieldCreatedAt,
		constant.FieldCreatedBy,
		constant.FieldModifiedAt,
		constant.FieldModifiedBy,
	}

	placeholders := make([]string, len(columns))
	for i, col := range columns {
		placeholders[i] = ":" + col
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		model.TableName,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	_, err := repo.db.Write.NamedExecContext(ctx, query, reservation)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
			return ErrDuplicateSlot
		}

		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to claim reservation slot: %w", err)
	}

	return nil
}

// CancelActive flips an active reservation to cancelled. It reports false when
// no active row matched, either because the id is unknown or because the
// reservation was already cancelled.
func (repo *repositoryImpl) CancelActive(ctx context.Context, id, user string) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.CancelActive")
	defer scope.End()

	query := fmt.Sprintf(
		"UPDATE %s SET %s = :new_status, %s = :%s, %s = :%s WHERE %s = :%s AND %s = :current_status",
		model.TableName,
		model.FieldStatus,
		constant.FieldModifiedAt, constant.FieldModifiedAt,
		constant.FieldModifiedBy, constant.FieldModifiedBy,
		model.FieldID, model.FieldID,
		model.FieldStatus,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := repo.db.Write.NamedExecContext(ctx, query, map[string]any{
		"new_status":             model.StatusCancelled,
		"current_status":         model.StatusActive,
		model.FieldID:            id,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to cancel reservation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to read cancel result: %w", err)
	}

	return affected > 0, nil
}

// FindActiveByPhone lists a customer's active reservations ordered by date
// then time, both ascending.
func (repo *repositoryImpl) FindActiveByPhone(ctx context.Context, phone string) ([]model.Reservation, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.FindActiveByPhone")
	defer scope.End()

	query := fmt.Sprintf(
		"SELECT * FROM %s WHERE %s = :%s AND %s = :%s ORDER BY %s ASC, %s ASC",
		model.TableName,
		model.FieldCustomerPhone, model.FieldCustomerPhone,
		model.FieldStatus, model.FieldStatus,
		model.FieldReservationDate,
		model.FieldReservationTime,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var reservations []model.Reservation

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to prepare statement (reservation): %w", err)
	}
	defer prepare.Close()

	err = prepare.SelectContext(ctx, &reservations, map[string]any{
		model.FieldCustomerPhone: phone,
		model.FieldStatus:        model.StatusActive,
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to find reservations by phone: %w", err)
	}

	return reservations, nil
}

// AvailableTables returns the active tables that seat the party and have no
// active reservation at the exact (date, time) slot, ordered by table number.
func (repo *repositoryImpl) AvailableTables(ctx context.Context, date, time string, partySize int) ([]tableModel.Table, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.AvailableTables")
	defer scope.End()

	query := fmt.Sprintf(
		`SELECT t.* FROM %s t
		WHERE t.%s = true
		AND t.%s >= :%s
		AND NOT EXISTS (
			SELECT 1 FROM %s r
			WHERE r.%s = t.%s
			AND r.%s = :%s
			AND r.%s = :%s
			AND r.%s = :%s
		)
		ORDER BY t.%s ASC`,
		tableModel.TableName,
		tableModel.FieldActive,
		tableModel.FieldCapacity, constant.RequestParamPartySize,
		model.TableName,
		model.FieldTableID, tableModel.FieldID,
		model.FieldReservationDate, model.FieldReservationDate,
		model.FieldReservationTime, model.FieldReservationTime,
		model.FieldStatus, model.FieldStatus,
		tableModel.FieldTableNumber,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var tables []tableModel.Table

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to prepare statement (availability): %w", err)
	}
	defer prepare.Close()

	err = prepare.SelectContext(ctx, &tables, map[string]any{
		constant.RequestParamPartySize: partySize,
		model.FieldReservationDate:     date,
		model.FieldReservationTime:     time,
		model.FieldStatus:              model.StatusActive,
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get available tables: %w", err)
	}

	return tables, nil
}

// OccupancyByDate aggregates active reservations per time slot for one date.
func (repo *repositoryImpl) OccupancyByDate(ctx context.Context, date string) ([]model.OccupancySlot, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.OccupancyByDate")
	defer scope.End()

	query := fmt.Sprintf(
		`SELECT %s, COUNT(%s) AS reserved_tables FROM %s
		WHERE %s = :%s AND %s = :%s
		GROUP BY %s
		ORDER BY %s ASC`,
		model.FieldReservationTime,
		model.FieldTableID,
		model.TableName,
		model.FieldReservationDate, model.FieldReservationDate,
		model.FieldStatus, model.FieldStatus,
		model.FieldReservationTime,
		model.FieldReservationTime,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var slots []model.OccupancySlot

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to prepare statement (occupancy): %w", err)
	}
	defer prepare.Close()

	err = prepare.SelectContext(ctx, &slots, map[string]any{
		model.FieldReservationDate: date,
		model.FieldStatus:          model.StatusActive,
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get occupancy: %w", err)
	}

	return slots, nil
}
