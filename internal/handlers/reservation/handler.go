package reservation

import (
	"net/http"
	"strconv"
	"tablebook/infras/otel"
	"tablebook/internal/domains/reservation/model/dto"
	"tablebook/internal/domains/reservation/service"
	"tablebook/shared/constant"
	"tablebook/shared/failure"
	"tablebook/shared/validator"
	"tablebook/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Reservation
	otel    otel.Otel
}

func New(service service.Reservation, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateReservation)
		routerGroup.Get("/", handler.GetReservationsByPhone)
		routerGroup.Get("/availability", handler.GetAvailability)
		routerGroup.Get("/occupancy", handler.GetOccupancy)
		routerGroup.Get("/{id}", handler.GetReservationByID)
		routerGroup.Delete("/{id}", handler.CancelReservation)
	})
}

// CreateReservation books a table for an exact date and time slot.
// @Summary Create a reservation
// @Description Reserve a table for a customer. When several requests race for the
// @Description same slot, exactly one wins and the rest receive a conflict.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.CreateReservationRequest true "Create Reservation Request"
// @Success 201 {object} dto.ReservationResponse "Reservation confirmed"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/reservations [post]
func (handler *Handler) CreateReservation(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReservation")
	defer scope.End()

	req := dto.CreateReservationRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	reservation, err := handler.service.Reserve(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create reservation")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Reservation created successfully")

	response.WithJSON(writer, http.StatusCreated, reservation)
}

// GetReservationsByPhone lists a customer's active reservations.
// @Summary Get reservations by phone
// @Description Retrieve a customer's active reservations ordered by date then time.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param phone query string true "Customer phone number"
// @Success 200 {object} dto.GetReservationsResponse "List of reservations"
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/reservations [get]
func (handler *Handler) GetReservationsByPhone(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservationsByPhone")
	defer scope.End()

	phone := r.URL.Query().Get(constant.RequestParamPhone)
	if phone == constant.Empty {
		response.WithError(w, failure.BadRequestFromString("phone parameter is required"))

		return
	}

	reservations, err := handler.service.FindByPhone(ctx, phone)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservations by phone")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetAvailability lists tables free at an exact slot for a party.
// @Summary Get table availability
// @Description List active tables that seat the party and are free at the exact date and time.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param date query string true "Reservation date (2006-01-02)"
// @Param time query string true "Reservation time (15:04)"
// @Param party_size query int true "Party size"
// @Success 200 {object} dto.AvailabilityResponse "Available tables"
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/reservations/availability [get]
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	partySize, _ := strconv.Atoi(r.URL.Query().Get(constant.RequestParamPartySize))

	req := dto.AvailabilityRequest{
		Date:      r.URL.Query().Get(constant.RequestParamDate),
		Time:      r.URL.Query().Get(constant.RequestParamTime),
		PartySize: partySize,
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate availability params")

		response.WithError(w, err)

		return
	}

	availability, err := handler.service.Availability(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, availability)
}

// GetOccupancy reports reserved tables per time slot on a date.
// @Summary Get occupancy by date
// @Description Aggregate active reservations per time slot for a date.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param date query string true "Reservation date (2006-01-02)"
// @Success 200 {object} dto.OccupancyResponse "Occupancy per slot"
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/reservations/occupancy [get]
func (handler *Handler) GetOccupancy(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOccupancy")
	defer scope.End()

	date := r.URL.Query().Get(constant.RequestParamDate)

	if err := validator.ValidateVar(date, "required,datetime=2006-01-02"); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate occupancy date")

		response.WithError(w, err)

		return
	}

	occupancy, err := handler.service.Occupancy(ctx, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get occupancy")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, occupancy)
}

// GetReservationByID retrieves a reservation by its ID.
// @Summary Get a reservation by ID
// @Description Retrieve a reservation by its unique identifier.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} dto.ReservationResponse "Reservation details"
// @Failure 404 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/reservations/{id} [get]
func (handler *Handler) GetReservationByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservationByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	reservation, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservation")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservation)
}

// CancelReservation cancels an active reservation and frees its slot.
// @Summary Cancel a reservation
// @Description Cancel an active reservation. Cancelling an already cancelled
// @Description reservation is reported as a conflict, not success.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Message "Reservation cancelled successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/reservations/{id} [delete]
func (handler *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelReservation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Cancel(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel reservation")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation cancelled successfully")

	response.WithMessage(w, http.StatusOK, "Reservation cancelled successfully")
}
