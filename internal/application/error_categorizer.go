package application

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/DanielPopoola/notes-checkout/internal/domain"
)

// ErrorCategory represents the nature of an error for logging purposes
type ErrorCategory string

const (
	CategoryTransient      ErrorCategory = "TRANSIENT"
	CategoryPermanent      ErrorCategory = "PERMANENT"
	CategoryBusinessRule   ErrorCategory = "BUSINESS_RULE"
	CategoryClientError    ErrorCategory = "CLIENT_ERROR"
	CategoryInfrastructure ErrorCategory = "INFRASTRUCTURE"
)

// CategorizeError determines the error category logged next to a failure.
// Nothing in the service retries on it.
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryTransient
	}

	if errors.Is(err, domain.ErrInvalidTransition) {
		return CategoryBusinessRule
	}

	if domain.IsErrorCode(err, domain.ErrCodeInvalidAmount) ||
		domain.IsErrorCode(err, domain.ErrCodeMissingRequiredField) ||
		errors.Is(err, domain.ErrOrderNotFound) {
		return CategoryClientError
	}

	// Missing attachment and similar local faults.
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
		return CategoryInfrastructure
	}

	if gwErr, ok := IsGatewayError(err); ok {
		switch {
		case gwErr.StatusCode >= 500:
			return CategoryTransient
		case gwErr.StatusCode == http.StatusUnauthorized:
			return CategoryInfrastructure
		default:
			return CategoryPermanent
		}
	}

	if svcErr, ok := IsServiceError(err); ok {
		switch svcErr.Code {
		case ErrCodeValidation:
			return CategoryClientError
		case ErrCodeSignatureMismatch:
			return CategoryBusinessRule
		case ErrCodeInternal:
			return CategoryInfrastructure
		}
		if svcErr.Err != nil {
			return CategorizeError(svcErr.Err)
		}
	}

	// Default: Transient (network and SMTP faults land here)
	return CategoryTransient
}

// ToErrorCode returns the code logged for err.
func ToErrorCode(err error) string {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	if _, ok := IsGatewayError(err); ok {
		return ErrCodeGateway
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeTimeout
	}

	return ErrCodeInternal
}
