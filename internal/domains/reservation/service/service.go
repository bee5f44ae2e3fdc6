package service

import (
	"context"
	"errors"
	"fmt"
	"tablebook/config"
	"tablebook/infras/kafka"
	"tablebook/infras/otel"
	"tablebook/internal/domains/reservation/model"
	"tablebook/internal/domains/reservation/model/dto"
	"tablebook/internal/domains/reservation/repository"
	tableModel "tablebook/internal/domains/table/model"
	tableRepo "tablebook/internal/domains/table/repository"
	"tablebook/shared"
	"tablebook/shared/cache"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	"tablebook/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetReservation = "reservation:get"
	cacheFindByPhone    = "reservation:phone"
	cacheAvailability   = "reservation:availability"
	cacheOccupancy      = "reservation:occupancy"

	topicReservationConfirmed = "reservation.confirmed"
	topicReservationCancelled = "reservation.cancelled"
)

type Reservation interface {
	Reserve(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	Cancel(ctx context.Context, id string) error
	Availability(ctx context.Context, req dto.AvailabilityRequest) (dto.AvailabilityResponse, error)
	FindByPhone(ctx context.Context, phone string) (dto.GetReservationsResponse, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	Occupancy(ctx context.Context, date string) (dto.OccupancyResponse, error)
}

type serviceImpl struct {
	repo      repository.Reservation
	tableRepo tableRepo.Table
	cfg       *config.Config
	cache     cache.RedisCache
	kafka     kafka.Client
	otel      otel.Otel
}

func New(repo repository.Reservation, tableRepo tableRepo.Table, cfg *config.Config, cache cache.RedisCache, kafkaClient kafka.Client, otel otel.Otel) Reservation {
	return &serviceImpl{
		repo:      repo,
		tableRepo: tableRepo,
		cfg:       cfg,
		cache:     cache,
		kafka:     kafkaClient,
		otel:      otel,
	}
}

// Reserve claims the (table, date, time) slot for the customer. The claim is
// settled by the repository: when several requests race for the same slot,
// exactly one succeeds and the rest get SlotTaken.
func (s *serviceImpl) Reserve(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reserve")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyClientID).(string)

	table, err := s.tableRepo.Get(ctx, shared.FilterByID(req.TableID, tableModel.FieldID, tableModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get table for reservation")

		return res, failure.StorageUnavailable(err) // nolint:wrapcheck
	}

	if table.ID == constant.Empty || !table.Active {
		return res, failure.UnknownTable // nolint:wrapcheck
	}

	if req.PartySize > table.Capacity {
		return res, failure.CapacityExceeded // nolint:wrapcheck
	}

	reservation := req.ToModel(user)

	err = s.repo.ClaimSlot(ctx, reservation)
	if errors.Is(err, repository.ErrDuplicateSlot) {
		log.Info().
			Str("tableId", req.TableID).
			Str("date", req.ReservationDate).
			Str("time", req.ReservationTime).
			Msg("slot already taken")

		return res, failure.SlotTaken // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to claim reservation slot")

		return res, failure.StorageUnavailable(err) // nolint:wrapcheck
	}

	res.FromModel(reservation)

	go func() {
		c := context.WithoutCancel(ctx)

		s.publishEvent(c, topicReservationConfirmed, reservation)
		s.invalidateSlotCaches(c, reservation)
	}()

	return res, nil
}

// Cancel releases the reservation's slot. Cancelling twice is reported as
// AlreadyCancelled, never as success.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyClientID).(string)

	cancelled, err := s.repo.CancelActive(ctx, id, user)
	if err != nil {
		log.Error().Err(err).Msg("failed to cancel reservation")

		return failure.StorageUnavailable(err) // nolint:wrapcheck
	}

	if !cancelled {
		reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get reservation after cancel miss")

			return failure.StorageUnavailable(err) // nolint:wrapcheck
		}

		if reservation.ID == constant.Empty {
			return failure.ReservationNotFound // nolint:wrapcheck
		}

		return failure.AlreadyCancelled // nolint:wrapcheck
	}

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation after cancel")

		reservation = model.Reservation{ID: id}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.publishEvent(c, topicReservationCancelled, reservation)
		s.invalidateSlotCaches(c, reservation)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservation, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation from cache")
		}
	}()

	return nil
}

// Availability lists the active tables that fit the party and are free at the
// exact slot. A table reserved at another time on the same date still shows up.
func (s *serviceImpl) Availability(ctx context.Context, req dto.AvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Availability")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheAvailability, req.Date, req.Time, fmt.Sprintf("%d", req.PartySize))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for availability")

		return res, nil
	}

	tables, err := s.repo.AvailableTables(ctx, req.Date, req.Time, req.PartySize)
	if err != nil {
		log.Error().Err(err).Msg("failed to get available tables")

		return res, failure.StorageUnavailable(err) // nolint:wrapcheck
	}

	res.FromModels(req, tables)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save availability to cache")
		}
	}()

	return res, nil
}

// FindByPhone lists the customer's active reservations ordered by date then
// time. Cancelled reservations are excluded.
func (s *serviceImpl) FindByPhone(ctx context.Context, phone string) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".FindByPhone")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheFindByPhone, phone)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations by phone")

		return res, nil
	}

	reservations, err := s.repo.FindActiveByPhone(ctx, phone)
	if err != nil {
		log.Error().Err(err).Msg("failed to find reservations by phone")

		return res, failure.StorageUnavailable(err) // nolint:wrapcheck
	}

	res.FromModels(reservations, len(reservations), 0)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetReservation")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetReservation, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		return res, nil
	}

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, failure.StorageUnavailable(err) // nolint:wrapcheck
	}

	if reservation.ID == constant.Empty {
		return res, failure.ReservationNotFound // nolint:wrapcheck
	}

	res.FromModel(reservation)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	return res, nil
}

// Occupancy reports how many tables are reserved per time slot on a date,
// along with the total table count so callers can compute occupancy rates.
func (s *serviceImpl) Occupancy(ctx context.Context, date string) (res dto.OccupancyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Occupancy")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheOccupancy, date)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for occupancy")

		return res, nil
	}

	slots, err := s.repo.OccupancyByDate(ctx, date)
	if err != nil {
		log.Error().Err(err).Msg("failed to get occupancy")

		return res, failure.StorageUnavailable(err) // nolint:wrapcheck
	}

	total, err := s.tableRepo.Count(ctx, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to count tables for occupancy")

		return res, failure.StorageUnavailable(err) // nolint:wrapcheck
	}

	res.Date = date
	res.TotalTables = total
	res.Slots = slots

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save occupancy to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) publishEvent(ctx context.Context, topic string, reservation model.Reservation) {
	if !s.cfg.Kafka.Enable {
		return
	}

	message := kafka.Message{
		Key:   reservation.ID,
		Value: reservation,
	}

	if err := s.kafka.SendMessages(ctx, topic, message); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("failed to publish reservation event")
	}
}

func (s *serviceImpl) invalidateSlotCaches(ctx context.Context, reservation model.Reservation) {
	shared.InvalidateCaches(ctx, s.cache, cacheAvailability)
	shared.InvalidateCaches(ctx, s.cache, cacheOccupancy)

	if reservation.CustomerPhone != constant.Empty {
		if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheFindByPhone, reservation.CustomerPhone)); err != nil {
			log.Error().Err(err).Msg("failed to delete phone listing from cache")
		}
	}
}
