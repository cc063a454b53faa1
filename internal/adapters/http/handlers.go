package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/busticket/internal/core/domain"
	"github.com/samirrijal/busticket/internal/core/usecases"
)

// SearchHandler searches trips between two places.
//
//	GET /api/search?origin=bogota&destination=medellin&date=2026-01-28
func SearchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Query("origin")
		destination := c.Query("destination")
		if origin == "" || destination == "" {
			return errBadRequest(c, msgSearchParams)
		}

		res, err := deps.Search.Search(c.UserContext(), origin, destination, c.Query("date"))
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				return newError(c, fiber.StatusBadRequest, "bad_request", msgSearchParams, err.Error())
			}
			return errInternal(c, msgSearchFailed, err.Error())
		}

		c.Set("Cache-Control", "private, max-age=60")
		return c.JSON(res)
	}
}

// SeatsHandler returns the seat map of a trip. Upstream failures are
// answered with the mock layout unless fail-fast mode is configured.
//
//	GET /api/seats?tripId=abc
func SeatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tripID := c.Query("tripId")
		if tripID == "" {
			return errBadRequest(c, msgTripIDRequired)
		}

		res, err := deps.Seats.Seats(c.UserContext(), tripID)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				return errBadRequest(c, msgTripIDRequired)
			}
			return errUnavailable(c, "No fue posible obtener los asientos", err.Error())
		}

		c.Set("Cache-Control", "no-store")
		return c.JSON(res)
	}
}

// PlacesHandler lists cities.
//
//	GET /api/places?q=mede
//	GET /api/places?prefetch=true
func PlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		prefetch := c.Query("prefetch") == "true"
		places := deps.Places.List(c.UserContext(), c.Query("q"), prefetch)
		return c.JSON(places)
	}
}

// DestinationsHandler lists featured destinations.
//
//	GET /api/destinations?limit=4
func DestinationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := usecases.DefaultDestinationLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return errBadRequest(c, "limit debe ser un entero no negativo")
			}
			limit = n
		}

		destinations, total := deps.Catalog.Destinations(limit)
		return c.JSON(fiber.Map{
			"success":      true,
			"count":        total,
			"destinations": destinations,
		})
	}
}

// ServicesHandler lists the company services.
//
//	GET /api/services
func ServicesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		services := deps.Catalog.Services()
		return c.JSON(fiber.Map{
			"success":  true,
			"count":    len(services),
			"services": services,
		})
	}
}

type contactRequest struct {
	Nombre   string `json:"nombre" form:"nombre"`
	Email    string `json:"email" form:"email"`
	Telefono string `json:"telefono" form:"telefono"`
	Asunto   string `json:"asunto" form:"asunto"`
	Mensaje  string `json:"mensaje" form:"mensaje"`
}

// ContactHandler accepts a contact-form message and returns its ticket.
//
//	POST /api/contact
func ContactHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req contactRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, msgInvalidBody)
		}

		receipt, err := deps.Contact.Submit(c.UserContext(), domain.ContactMessage{
			Nombre:   req.Nombre,
			Email:    req.Email,
			Telefono: req.Telefono,
			Asunto:   req.Asunto,
			Mensaje:  req.Mensaje,
		})
		if err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				return errBadRequest(c, verr.Msg)
			}
			return errInternal(c, msgInternal, err.Error())
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": msgContactAccepted,
			"ticket":  receipt.Ticket,
			"data":    receipt.Message,
		})
	}
}

// NotFoundHandler answers every unmatched route.
func NotFoundHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return errNotFound(c, msgRouteNotFound)
	}
}
