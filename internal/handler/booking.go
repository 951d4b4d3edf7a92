package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/train-seat-reservation/internal/middleware"
	"github.com/iliyamo/train-seat-reservation/internal/service"
)

// BookingHandler serves seat availability, booking and train endpoints.
type BookingHandler struct {
	Bookings     *service.BookingManager
	Availability *service.Availability
	Trains       *service.TrainRegistry
	Log          *zap.Logger
}

func NewBookingHandler(b *service.BookingManager, a *service.Availability, t *service.TrainRegistry, log *zap.Logger) *BookingHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingHandler{Bookings: b, Availability: a, Trains: t, Log: log}
}

type bookSeatReq struct {
	TrainID     uint64 `json:"train_id"`
	SeatsBooked int    `json:"seats_booked"`
}

type addTrainReq struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	TotalSeats  int    `json:"total_seats"`
}

type bookingResp struct {
	BookingID   uint64 `json:"booking_id"`
	TrainID     uint64 `json:"train_id"`
	SeatsBooked int    `json:"seats_booked"`
}

type availabilityResp struct {
	TrainID        uint64 `json:"train_id"`
	Source         string `json:"source"`
	Destination    string `json:"destination"`
	AvailableSeats int    `json:"available_seats"`
}

// SeatAvailability lists trains for ?source=&destination= with their
// remaining seats.
func (h *BookingHandler) SeatAvailability(c echo.Context) error {
	list, err := h.Availability.ListBySegment(c.Request().Context(), c.QueryParam("source"), c.QueryParam("destination"))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	out := make([]availabilityResp, 0, len(list))
	for _, a := range list {
		out = append(out, availabilityResp{
			TrainID:        a.TrainID,
			Source:         a.Source,
			Destination:    a.Destination,
			AvailableSeats: a.AvailableSeats,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// TrainAvailability returns the remaining seats of one train.
func (h *BookingHandler) TrainAvailability(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return badRequest(c, "invalid train id")
	}
	remaining, err := h.Availability.RemainingSeats(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"train_id": id, "available_seats": remaining})
}

// BookSeat books seats for the authenticated caller.
func (h *BookingHandler) BookSeat(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookSeatReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	id, err := h.Bookings.BookSeats(c.Request().Context(), uid, req.TrainID, req.SeatsBooked)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Seat booked successfully",
		"booking_id": id,
	})
}

// BookingDetails lists the caller's bookings.
func (h *BookingHandler) BookingDetails(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Bookings.BookingsForUser(c.Request().Context(), uid)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	out := make([]bookingResp, 0, len(list))
	for _, b := range list {
		out = append(out, bookingResp{BookingID: b.ID, TrainID: b.TrainID, SeatsBooked: b.SeatsBooked})
	}
	return c.JSON(http.StatusOK, out)
}

// AddTrain registers a train.  Access is enforced by the route's
// middleware chain.
func (h *BookingHandler) AddTrain(c echo.Context) error {
	var req addTrainReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	id, err := h.Trains.CreateTrain(c.Request().Context(), req.Source, req.Destination, req.TotalSeats)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Train added successfully",
		"train_id": id,
	})
}
