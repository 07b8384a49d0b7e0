package services

import (
	"errors"
	"fmt"
	"net/http"
	"price-manager-service/providers"
)

// ServiceError is a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }

func validationError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Message: msg}
}

func internalError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusInternalServerError, Message: msg}
}

// fromGatewayError translates a Magento call failure into a ServiceError.
func fromGatewayError(err error) *ServiceError {
	if errors.Is(err, providers.ErrMissingCredentials) {
		return validationError(err.Error())
	}

	var gwErr *providers.GatewayError
	if !errors.As(err, &gwErr) {
		return &ServiceError{StatusCode: http.StatusBadGateway, Message: "Unexpected Magento response: " + err.Error()}
	}

	switch gwErr.Kind {
	case providers.KindAuthenticationFailed:
		return &ServiceError{StatusCode: http.StatusUnauthorized, Message: "Invalid or expired Magento token"}
	case providers.KindNotFound:
		return &ServiceError{StatusCode: http.StatusNotFound, Message: "Magento resource not found"}
	case providers.KindRemoteRejected:
		return &ServiceError{
			StatusCode: gwErr.Status,
			Message:    "Magento error: " + providers.Truncate(gwErr.Body, providers.MaxErrorBodyLen),
		}
	case providers.KindGatewayTimeout:
		return &ServiceError{StatusCode: http.StatusGatewayTimeout, Message: "Timed out connecting to Magento"}
	default:
		return &ServiceError{StatusCode: http.StatusBadGateway, Message: fmt.Sprintf("Could not connect to Magento: %v", gwErr.Err)}
	}
}

// RowError is the failure of a single import row. It never aborts the batch.
type RowError struct {
	Row     int
	Message string
}

func (e *RowError) Error() string { return fmt.Sprintf("Row %d: %s", e.Row, e.Message) }

// remoteErrorDetail is the short remote diagnostic put into row errors.
func remoteErrorDetail(err error) string {
	var gwErr *providers.GatewayError
	if errors.As(err, &gwErr) && gwErr.Body != "" {
		return providers.Truncate(gwErr.Body, providers.MaxErrorBodyLen)
	}
	return providers.Truncate(err.Error(), providers.MaxErrorBodyLen)
}
