package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/dto"
	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/repository"
	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/service"
)

type BookingHandler struct {
	svc          service.ReservationService
	availability *service.AvailabilityChecker
	blockRepo    repository.BlockedEventRepository
}

func NewBookingHandler(svc service.ReservationService, availability *service.AvailabilityChecker, blockRepo repository.BlockedEventRepository) *BookingHandler {
	return &BookingHandler{svc: svc, availability: availability, blockRepo: blockRepo}
}

func (h *BookingHandler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/bookings", h.CreateBooking)
	api.GET("/bookings", h.ListBookings)
	api.GET("/bookings/:id", h.GetBooking)
	api.PATCH("/bookings/:id", h.UpdateBooking)
	api.DELETE("/bookings/:id", h.CancelBooking)
	api.GET("/availability", h.GetAvailability)
	api.POST("/blocks", h.CreateBlock)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	if len(req.ParticipantNames) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "participant_names is required")
	}
	if req.ReserverID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "reserver_id is required")
	}

	booking, err := h.svc.CreateBooking(c.Request().Context(), service.CreateBookingInput{
		Date:              date,
		StartHour:         req.StartHour,
		Duration:          req.Duration,
		ParticipantNames:  req.ParticipantNames,
		ReserverID:        req.ReserverID,
		RequestedTotalFee: req.RequestedTotalFee,
	})
	if err != nil {
		return rejectionOrError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	in := service.UpdateBookingInput{
		StartHour:        req.StartHour,
		Duration:         req.Duration,
		ParticipantNames: req.ParticipantNames,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		in.Date = &date
	}

	booking, err := h.svc.UpdateBooking(c.Request().Context(), id, in)
	if err != nil {
		return rejectionOrError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.CancelBookingRequest
	_ = c.Bind(&req) // body is optional on cancel

	booking, refundTriggered, err := h.svc.CancelBooking(c.Request().Context(), id, req.Reason)
	if err != nil {
		return rejectionOrError(c, err)
	}

	return c.JSON(http.StatusOK, dto.CancelBookingResponse{
		Booking:         dto.ToBookingResponse(booking),
		RefundTriggered: refundTriggered,
	})
}

func (h *BookingHandler) CreateBlock(c echo.Context) error {
	var req dto.CreateBlockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	if req.BlockReason == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "block_reason is required")
	}

	block, err := h.svc.CreateBlock(c.Request().Context(), service.CreateBlockInput{
		Date:        date,
		StartHour:   req.StartHour,
		Duration:    req.Duration,
		BlockReason: req.BlockReason,
		BlockNotes:  req.BlockNotes,
	})
	if err != nil {
		return rejectionOrError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(block))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "booking not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date query param must be YYYY-MM-DD")
	}

	bookings, err := h.svc.ListBookings(c.Request().Context(), date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = dto.ToBookingResponse(&bookings[i])
	}
	return c.JSON(http.StatusOK, resp)
}

// GetAvailability renders the per-hour pickers: which hours can start a
// booking and which can end one, plus the external blocks for display.
func (h *BookingHandler) GetAvailability(c echo.Context) error {
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date query param must be YYYY-MM-DD")
	}

	ctx := c.Request().Context()
	startHours, err := h.availability.StartHours(ctx, date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	endHours, err := h.availability.EndHours(ctx, date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	blocked, err := h.blockRepo.FindByDate(ctx, date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := dto.AvailabilityResponse{
		Date:       date.Format("2006-01-02"),
		StartHours: startHours,
		EndHours:   endHours,
		Blocked:    make([]dto.BlockedEventResponse, len(blocked)),
	}
	for i, ev := range blocked {
		resp.Blocked[i] = dto.BlockedEventResponse{
			Name:      ev.Name,
			StartHour: ev.StartHour,
			EndHour:   ev.EndHour,
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// rejectionOrError maps the service error taxonomy onto structured HTTP
// rejections. Anything untyped is a 500.
func rejectionOrError(c echo.Context, err error) error {
	var validationErr *service.ValidationError
	var conflictErr *service.ConflictError
	var gateErr *service.GateError
	var stateErr *service.StateError

	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, dto.RejectionResponse{
			Code:    string(validationErr.Code),
			Message: validationErr.Message,
		})
	case errors.As(err, &conflictErr):
		details := map[string]any{"hours": conflictErr.Hours}
		if conflictErr.SourceEvent != "" {
			details["source_event"] = conflictErr.SourceEvent
		}
		return c.JSON(http.StatusConflict, dto.RejectionResponse{
			Code:    string(conflictErr.Code),
			Message: conflictErr.Error(),
			Details: details,
		})
	case errors.As(err, &gateErr):
		return c.JSON(http.StatusForbidden, dto.RejectionResponse{
			Code:    string(service.RejectOverduePayments),
			Message: gateErr.Error(),
			Details: gateErr.Items,
		})
	case errors.As(err, &stateErr):
		return c.JSON(http.StatusConflict, dto.RejectionResponse{
			Code:    "terminal-status",
			Message: stateErr.Error(),
		})
	case errors.Is(err, service.ErrBookingNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}
	return uint(id), nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
