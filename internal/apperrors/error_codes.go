// Package apperrors defines the machine-readable error codes returned in the
// stub API server's JSON error responses.
package apperrors

type ErrorCode string

const (
	ErrCodeAuthenticationFailure ErrorCode = "authentication_error"
	ErrCodeInternalError         ErrorCode = "internal_error"
	ErrCodeInvalidRequest        ErrorCode = "invalid_request"
	ErrCodeMalformedBody         ErrorCode = "malformed_body"
	ErrCodeRateLimitExceeded     ErrorCode = "rate_limit_exceeded"
	ErrCodeRequestTooLarge       ErrorCode = "request_too_large"
	ErrCodeResourceNotFound      ErrorCode = "resource_not_found"
	ErrCodeTokenInvalid          ErrorCode = "token_invalid"
	ErrCodeValidationFailure     ErrorCode = "validation_failed"
)
