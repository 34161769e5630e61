package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	appErrors "github.com/finedust/calendar-builder/pkg/errors"
)

// The datastore is loosely typed: numbers sometimes arrive quoted and optional
// values arrive as null. These wrappers normalise both.

type flexInt struct {
	Value int
	Valid bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	raw, isNull, err := scalar(data)
	if err != nil || isNull || raw == "" {
		*f = flexInt{}
		return err
	}
	if n, err := strconv.Atoi(raw); err == nil {
		*f = flexInt{Value: n, Valid: true}
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v != float64(int(v)) {
		return fmt.Errorf("not an integer: %s", raw)
	}
	*f = flexInt{Value: int(v), Valid: true}
	return nil
}

func (f flexInt) Ptr() *int {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

type flexFloat struct {
	Value float64
	Valid bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	raw, isNull, err := scalar(data)
	if err != nil || isNull || raw == "" {
		*f = flexFloat{}
		return err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", raw)
	}
	*f = flexFloat{Value: v, Valid: true}
	return nil
}

func (f flexFloat) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	raw, _, err := scalar(data)
	if err != nil {
		return err
	}
	*f = flexString(raw)
	return nil
}

type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	raw, isNull, err := scalar(data)
	if err != nil || isNull || raw == "" {
		*f = false
		return err
	}
	v, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		return fmt.Errorf("not a boolean: %s", raw)
	}
	*f = flexBool(v)
	return nil
}

// scalar returns the textual form of a JSON string, number or boolean.
func scalar(data []byte) (string, bool, error) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return "", true, nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", false, err
		}
		return strings.TrimSpace(s), false, nil
	}
	if len(data) > 0 && (data[0] == '{' || data[0] == '[') {
		return "", false, fmt.Errorf("unexpected composite value %s", data)
	}
	return string(data), false, nil
}

// decodeRecords unmarshals every raw record into T.
func decodeRecords[T any](resource string, records []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(records))
	for i, raw := range records {
		var row T
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrMalformedData.Code, appErrors.ErrMalformedData.Status,
				fmt.Sprintf("malformed %s record #%d", resource, i))
		}
		out = append(out, row)
	}
	return out, nil
}
