package errors

import "net/http"

type Code string

const (
	CodeUnknown            Code = "UNKNOWN"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeOutOfRange         Code = "OUT_OF_RANGE"
	CodeNotFound           Code = "NOT_FOUND"
	CodePermissionDenied   Code = "PERMISSION_DENIED"
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeInternal           Code = "INTERNAL"
	CodeDeadlineExceeded   Code = "DEADLINE_EXCEEDED"
)

var httpStatus = map[Code]int{
	CodeInvalidArgument:    http.StatusBadRequest,
	CodeOutOfRange:         http.StatusBadRequest,
	CodeNotFound:           http.StatusNotFound,
	CodePermissionDenied:   http.StatusForbidden,
	CodeUnauthenticated:    http.StatusUnauthorized,
	CodeFailedPrecondition: http.StatusPreconditionFailed,
	CodeDeadlineExceeded:   http.StatusGatewayTimeout,
	CodeInternal:           http.StatusInternalServerError,
	CodeUnknown:            http.StatusInternalServerError,
}
