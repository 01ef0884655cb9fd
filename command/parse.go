package command

import (
	"encoding/json"
	"fmt"
	"math"
)

// Parse decodes a message of the form {"cmd": <id>, "data": {...}}.
// It never returns a partially filled command: any missing or non-numeric
// field rejects the whole message.
func Parse(b []byte) (Command, error) {
	var root any
	if err := json.Unmarshal(b, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}

	obj, _ := root.(map[string]any)
	id, ok := number(obj, "cmd")
	if !ok {
		return nil, fmt.Errorf("%w: cmd missing or not a number", ErrMissingOrInvalidCommand)
	}
	data, _ := obj["data"].(map[string]any)

	switch id {
	case IDSetColor:
		fields, err := numbers(data, "red", "green", "blue")
		if err != nil {
			return nil, err
		}
		return SetColor{Red: fields[0], Green: fields[1], Blue: fields[2]}, nil
	case IDSetBrightness:
		fields, err := numbers(data, "brightness")
		if err != nil {
			return nil, err
		}
		return SetBrightness{Value: fields[0]}, nil
	case IDSetTransition:
		fields, err := numbers(data, "transitionType")
		if err != nil {
			return nil, err
		}
		return SetTransition{Mode: fields[0]}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCommand, id)
	}
}

func numbers(data map[string]any, keys ...string) ([]int, error) {
	values := make([]int, len(keys))
	for i, key := range keys {
		v, ok := number(data, key)
		if !ok {
			return nil, fmt.Errorf("%w: %s missing or not a number", ErrInvalidCommandPayload, key)
		}
		values[i] = v
	}
	return values, nil
}

// number truncates fractional values toward zero and saturates to the
// int32 range.
func number(obj map[string]any, key string) (int, bool) {
	f, ok := obj[key].(float64)
	if !ok {
		return 0, false
	}
	switch {
	case f >= math.MaxInt32:
		return math.MaxInt32, true
	case f <= math.MinInt32:
		return math.MinInt32, true
	}
	return int(f), true
}
