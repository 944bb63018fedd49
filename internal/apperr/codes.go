// Package apperr provides machine-readable error codes shared by the HTTP,
// gRPC and CLI front ends.
package apperr

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an error that is not an *Error.
	CodeUnknown Code = "UNKNOWN"

	// Reference data is missing: unknown family, level or item.
	CodeConfigurationMissing Code = "CONFIGURATION_MISSING"
	// The requested level pair does not form an upward path on the ladder.
	CodeInvalidLadder Code = "INVALID_LADDER"
	// Malformed request values: negative failstack, bad counts.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	// A market price could not be fetched. Logged, never surfaced by lookups.
	CodePriceUnavailable Code = "PRICE_UNAVAILABLE"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeInvalidLadder, CodeInvalidArgument:
		return codes.InvalidArgument
	case CodeConfigurationMissing:
		return codes.NotFound
	case CodePriceUnavailable:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidLadder, CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeConfigurationMissing:
		return http.StatusNotFound
	case CodePriceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
