package nats

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wilmangio/orders-ms/internal/domain"
)

// RPCError is the error envelope written back on the reply subject,
// mirroring the status/message shape consumers of this service expect.
type RPCError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func successReply(data interface{}) []byte {
	payload, err := json.Marshal(data)
	if err != nil {
		return errorReply(http.StatusInternalServerError, "failed to encode response")
	}
	return payload
}

func errorReply(status int, message string) []byte {
	payload, _ := json.Marshal(RPCError{Status: status, Message: message})
	return payload
}

// mapError translates pipeline errors into the client-facing envelope.
// Internal causes are logged by the callers, never leaked; NotFound is the
// one error that names the missing id.
func mapError(err error) (int, string) {
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, notFound.Error()
	}
	if errors.Is(err, domain.ErrEmptyOrder) {
		return http.StatusBadRequest, domain.ErrEmptyOrder.Error()
	}
	if errors.Is(err, domain.ErrUnresolvedProduct) {
		return http.StatusBadRequest, "one or more requested products could not be validated"
	}
	// Catalog outages and storage faults alike stay internal.
	return http.StatusInternalServerError, "internal error"
}
