package http

import "github.com/gofiber/fiber/v2"

// User-facing error messages.
const (
	msgSearchFailed    = "Error al buscar viajes. Intente nuevamente."
	msgSearchParams    = "Se requiere origen y destino"
	msgTripIDRequired  = "Se requiere tripId"
	msgRouteNotFound   = "Ruta no encontrada"
	msgInternal        = "Error interno del servidor"
	msgRateLimited     = "Demasiadas solicitudes, intente más tarde"
	msgTimeout         = "La solicitud tardó demasiado"
	msgInvalidBody     = "Cuerpo de la solicitud inválido"
	msgContactAccepted = "Mensaje enviado correctamente"
)

// APIError is a structured error response.
type APIError struct {
	Success   bool   `json:"success"`
	Status    int    `json:"status"`
	Code      string `json:"code"`              // Error code: bad_request, not_found, internal_error, etc.
	Error     string `json:"error"`             // Human-readable message
	Message   string `json:"message,omitempty"` // Underlying detail, when useful to the caller
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code, msg, detail string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Error:     msg,
		Message:   detail,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg, msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg, msg)
}

// errInternal returns a 500 error carrying the underlying cause.
func errInternal(c *fiber.Ctx, msg, detail string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg, detail)
}

// errUnavailable returns a 503 error.
func errUnavailable(c *fiber.Ctx, msg, detail string) error {
	return newError(c, fiber.StatusServiceUnavailable, "unavailable", msg, detail)
}

// ErrorHandler renders errors that escape handlers, including Fiber's own
// (unknown method, body too large, timeouts) and recovered panics.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := msgInternal
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
		msg = fe.Message
	}
	switch code {
	case fiber.StatusNotFound:
		return errNotFound(c, msgRouteNotFound)
	case fiber.StatusRequestTimeout:
		return newError(c, code, "timeout", msgTimeout, err.Error())
	case fiber.StatusInternalServerError:
		return errInternal(c, msgInternal, err.Error())
	}
	return newError(c, code, "error", msg, "")
}
