package v1alpha1

import (
	"encoding/json"
	"math"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

// toValue converts a json-tagged value into a structpb value
func toValue(v any) (*structpb.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode response")
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, errors.Wrap(err, "failed to encode response")
	}

	val, err := structpb.NewValue(generic)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode response")
	}
	return val, nil
}

// fromValue decodes a structpb value into a json-tagged value
func fromValue(val *structpb.Value, out any) error {
	raw, err := protojson.Marshal(val)
	if err != nil {
		return errors.Wrap(err, "failed to decode message")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.InvalidArgumentf("malformed message: %v", err)
	}
	return nil
}

// response builds a message from named json-tagged fields
func response(fields map[string]any) (*structpb.Struct, error) {
	out := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(fields))}
	for name, v := range fields {
		val, err := toValue(v)
		if err != nil {
			return nil, err
		}
		out.Fields[name] = val
	}
	return out, nil
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

func intField(req *structpb.Struct, name string) (int, error) {
	val, ok := req.GetFields()[name]
	if !ok {
		return 0, nil
	}

	n := val.GetNumberValue()
	if _, isNumber := val.GetKind().(*structpb.Value_NumberValue); !isNumber || n != math.Trunc(n) {
		return 0, errors.InvalidArgumentf("%s must be an integer", name)
	}
	return int(n), nil
}

// commandField reads the command of a SubmitCommand request. Both the short
// CLI syntax ("attack:monster-0") and an object with kind/target/ability/item
// are accepted.
func commandField(req *structpb.Struct) (dungeon.Command, error) {
	val, ok := req.GetFields()["command"]
	if !ok {
		return dungeon.Command{}, errors.InvalidArgument("command is required")
	}

	switch kind := val.GetKind().(type) {
	case *structpb.Value_StringValue:
		cmd, err := dungeon.ParseCommand(kind.StringValue)
		if err != nil {
			return dungeon.Command{}, errors.InvalidArgument(err.Error())
		}
		return cmd, nil
	case *structpb.Value_StructValue:
		var cmd dungeon.Command
		if err := fromValue(val, &cmd); err != nil {
			return dungeon.Command{}, err
		}
		if cmd.Kind == "" {
			return dungeon.Command{}, errors.InvalidArgument("command kind is required")
		}
		return cmd, nil
	}

	return dungeon.Command{}, errors.InvalidArgument("command must be a string or an object")
}
