package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Code represents an error code. Codes mirror the gRPC status codes.
type Code string

// Error codes
const (
	CodeOK                 Code = "OK"
	CodeCanceled           Code = "CANCELED"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeDeadlineExceeded   Code = "DEADLINE_EXCEEDED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodePermissionDenied   Code = "PERMISSION_DENIED"
	CodeResourceExhausted  Code = "RESOURCE_EXHAUSTED"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeAborted            Code = "ABORTED"
	CodeOutOfRange         Code = "OUT_OF_RANGE"
	CodeUnimplemented      Code = "UNIMPLEMENTED"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"
	CodeDataLoss           Code = "DATA_LOSS"
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
)

type codeMapping struct {
	grpc codes.Code
	http int
}

var codeMappings = map[Code]codeMapping{
	CodeOK:                 {codes.OK, http.StatusOK},
	CodeCanceled:           {codes.Canceled, http.StatusRequestTimeout},
	CodeInvalidArgument:    {codes.InvalidArgument, http.StatusBadRequest},
	CodeDeadlineExceeded:   {codes.DeadlineExceeded, http.StatusGatewayTimeout},
	CodeNotFound:           {codes.NotFound, http.StatusNotFound},
	CodeAlreadyExists:      {codes.AlreadyExists, http.StatusConflict},
	CodePermissionDenied:   {codes.PermissionDenied, http.StatusForbidden},
	CodeResourceExhausted:  {codes.ResourceExhausted, http.StatusTooManyRequests},
	CodeFailedPrecondition: {codes.FailedPrecondition, http.StatusPreconditionFailed},
	CodeAborted:            {codes.Aborted, http.StatusConflict},
	CodeOutOfRange:         {codes.OutOfRange, http.StatusBadRequest},
	CodeUnimplemented:      {codes.Unimplemented, http.StatusNotImplemented},
	CodeInternal:           {codes.Internal, http.StatusInternalServerError},
	CodeUnavailable:        {codes.Unavailable, http.StatusServiceUnavailable},
	CodeDataLoss:           {codes.DataLoss, http.StatusInternalServerError},
	CodeUnauthenticated:    {codes.Unauthenticated, http.StatusUnauthorized},
}

// byGRPCCode is the reverse of codeMappings
var byGRPCCode = func() map[codes.Code]Code {
	out := make(map[codes.Code]Code, len(codeMappings))
	for code, m := range codeMappings {
		out[m.grpc] = code
	}
	return out
}()

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// HTTPStatus returns the corresponding HTTP status code
func (c Code) HTTPStatus() int {
	if m, ok := codeMappings[c]; ok {
		return m.http
	}
	return http.StatusInternalServerError
}

// GRPCCode returns the corresponding gRPC code
func (c Code) GRPCCode() codes.Code {
	if m, ok := codeMappings[c]; ok {
		return m.grpc
	}
	return codes.Unknown
}

// grpcCodeToCode converts a gRPC code to our error code. Unknown codes
// become Internal.
func grpcCodeToCode(grpcCode codes.Code) Code {
	if code, ok := byGRPCCode[grpcCode]; ok {
		return code
	}
	return CodeInternal
}
