package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Error is the single error shape that leaves this package. Transport and
// status failures are normalized here so UI code never renders a raw
// transport error.
type Error struct {
	Status  int    // 0 for transport-level failures
	Message string // user-readable, already localized
	Err     error  // underlying cause, for logs
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("api: %s: %v", e.Message, e.Err)
	}
	return "api: " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage extracts the user-readable message from any error returned by
// this package, falling back to a generic one.
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Ocurrió un error inesperado"
}

// IsUnauthorized reports whether the server rejected the credential.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == 401
}

func normalizeTransport(err error) *Error {
	msg := "No se pudo conectar con el servidor"
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		msg = "El servidor tardó demasiado en responder"
	case errors.As(err, &netErr) && netErr.Timeout():
		msg = "El servidor tardó demasiado en responder"
	case errors.Is(err, context.Canceled):
		msg = "La operación fue cancelada"
	}
	return &Error{Message: msg, Err: err}
}

func normalizeStatus(status int, serverMessage string) *Error {
	msg := serverMessage
	if msg == "" {
		switch {
		case status == 401:
			msg = "Credenciales inválidas o sesión expirada"
		case status == 403:
			msg = "No tiene permisos para esta operación"
		case status == 404:
			msg = "El recurso solicitado no existe"
		case status >= 500:
			msg = "El servidor presentó un error, intente nuevamente"
		default:
			msg = fmt.Sprintf("El servidor rechazó la solicitud (%d)", status)
		}
	}
	return &Error{Status: status, Message: msg}
}
