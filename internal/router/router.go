// Package router wires handlers and middleware onto an echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/train-seat-reservation/internal/authz"
	"github.com/iliyamo/train-seat-reservation/internal/handler"
	"github.com/iliyamo/train-seat-reservation/internal/middleware"
)

// Deps are everything the routes need.  Cache and RateLimit may be nil.
type Deps struct {
	Log       *zap.Logger
	DB        handler.Pinger
	Auth      *handler.AuthHandler
	Bookings  *handler.BookingHandler
	JWTSecret string
	APIKey    string
	Policy    middleware.Decider
	Roles     middleware.RoleLookup
	Cache     *middleware.ResponseCache
	RateLimit echo.MiddlewareFunc
}

// New returns an echo instance with every route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	if d.RateLimit != nil {
		e.Use(d.RateLimit)
	}

	RegisterRoutes(e, d)
	return e
}

// RegisterRoutes registers public, authenticated and admin routes.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health(d.DB))

	e.POST("/register", d.Auth.Register)
	e.POST("/login", d.Auth.Login)
	e.POST("/refresh", d.Auth.Refresh)
	e.POST("/logout", d.Auth.Logout)

	e.GET("/seat_availability", d.Bookings.SeatAvailability, d.Cache.Middleware())
	e.GET("/trains/:id/availability", d.Bookings.TrainAvailability)

	jwt := middleware.JWTAuth(d.JWTSecret)
	e.GET("/me", d.Auth.Me, jwt)
	e.POST("/book_seat", d.Bookings.BookSeat,
		jwt, middleware.Authorize(d.Policy, d.Roles, authz.ActionBookSeat))
	e.GET("/booking_details", d.Bookings.BookingDetails,
		jwt, middleware.Authorize(d.Policy, d.Roles, authz.ActionViewBookings))

	e.POST("/add_train", d.Bookings.AddTrain,
		middleware.RequireAPIKey(d.APIKey),
		jwt,
		middleware.Authorize(d.Policy, d.Roles, authz.ActionCreateTrain))
}
