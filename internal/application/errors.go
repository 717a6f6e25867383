package application

import (
	"errors"
	"fmt"
	"net/http"
)

// APPLICATION-LEVEL ERRORS (Orchestration)

type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Fields     []FieldError
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// FieldError is one failed input rule, reported to the client as-is.
type FieldError struct {
	Type     string `json:"type"`
	Value    any    `json:"value,omitempty"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

const (
	ErrCodeValidation        = "VALIDATION_FAILED"
	ErrCodeGateway           = "GATEWAY_ERROR"
	ErrCodeSignatureMismatch = "SIGNATURE_MISMATCH"
	ErrCodeDelivery          = "DELIVERY_FAILED"
	ErrCodeTimeout           = "TIMEOUT"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

func NewValidationError(fields []FieldError) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeValidation,
		Message:    "Invalid input",
		HTTPStatus: http.StatusBadRequest,
		Fields:     fields,
	}
}

func NewGatewayError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeGateway,
		Message:    "Error creating order",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewSignatureMismatchError() *ServiceError {
	return &ServiceError{
		Code:       ErrCodeSignatureMismatch,
		Message:    "Payment verification failed",
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewDeliveryError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeDelivery,
		Message:    "Error sending confirmation email",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInternal,
		Message:    "An internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}

// GatewayError is a non-2xx answer from the payment provider.
type GatewayError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

func IsGatewayError(err error) (*GatewayError, bool) {
	var gwErr *GatewayError
	ok := errors.As(err, &gwErr)
	return gwErr, ok
}
