package errors

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToGRPCError converts an error to a gRPC status error. Code, message and
// metadata travel as a structpb.Struct detail so FromGRPCError can restore them.
func ToGRPCError(err error) error {
	if err == nil {
		return nil
	}

	// Check if it's already a gRPC status error
	if _, ok := status.FromError(err); ok {
		return err
	}

	var customErr *Error
	if As(err, &customErr) {
		st := status.New(customErr.Code.GRPCCode(), customErr.Message)

		if details, derr := detailsStruct(customErr); derr == nil {
			if withDetails, werr := st.WithDetails(details); werr == nil {
				st = withDetails
			}
		}

		return st.Err()
	}

	return status.Error(codes.Internal, err.Error())
}

// FromGRPCError converts a gRPC error to our custom error
func FromGRPCError(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	customErr := &Error{
		Code:    grpcCodeToCode(st.Code()),
		Message: st.Message(),
	}

	for _, detail := range st.Details() {
		if details, ok := detail.(*structpb.Struct); ok {
			if meta, ok := details.AsMap()["meta"].(map[string]interface{}); ok {
				customErr.Meta = meta
			}
			break
		}
	}

	return customErr
}

// GRPCStatus returns the gRPC status for any error
func GRPCStatus(err error) *status.Status {
	if err == nil {
		return status.New(codes.OK, "")
	}

	if st, ok := status.FromError(err); ok {
		return st
	}

	var customErr *Error
	if As(err, &customErr) {
		return status.New(customErr.Code.GRPCCode(), customErr.Message)
	}

	return status.New(codes.Internal, err.Error())
}

func detailsStruct(e *Error) (*structpb.Struct, error) {
	meta := make(map[string]interface{}, len(e.Meta))
	for k, v := range e.Meta {
		meta[k] = protoSafe(v)
	}
	return structpb.NewStruct(map[string]interface{}{
		"code":    string(e.Code),
		"message": e.Message,
		"meta":    meta,
	})
}

// protoSafe maps metadata values onto types structpb accepts.
func protoSafe(v interface{}) interface{} {
	switch val := v.(type) {
	case Reason:
		return string(val)
	case map[string][]string:
		out := make(map[string]interface{}, len(val))
		for k, msgs := range val {
			list := make([]interface{}, len(msgs))
			for i, m := range msgs {
				list[i] = m
			}
			out[k] = list
		}
		return out
	}
	if _, err := structpb.NewValue(v); err != nil {
		return fmt.Sprint(v)
	}
	return v
}
