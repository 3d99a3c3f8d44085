package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

var jsonNull = []byte("null")

// NullFloat is a nullable numeric field tolerant of the store's loosely
// typed rows: values arrive as numbers, numeric strings, or null. Anything
// unparseable decodes as absent rather than failing the whole record.
type NullFloat struct {
	Value float64
	Valid bool
}

// Float returns a valid NullFloat.
func Float(v float64) NullFloat { return NullFloat{Value: v, Valid: true} }

func (f *NullFloat) UnmarshalJSON(b []byte) error {
	*f = NullFloat{}
	if bytes.Equal(b, jsonNull) {
		return nil
	}
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	f.Value = v
	f.Valid = true
	return nil
}

func (f NullFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid || math.IsNaN(f.Value) || math.IsInf(f.Value, 0) {
		return jsonNull, nil
	}
	return json.Marshal(f.Value)
}

// Finite reports whether the value is present and a finite number.
func (f NullFloat) Finite() bool {
	return f.Valid && !math.IsNaN(f.Value) && !math.IsInf(f.Value, 0)
}

// NullTime is a nullable timestamp. Unparseable values decode as absent so
// a bad created_at never poisons the record it belongs to.
type NullTime struct {
	Time  time.Time
	Valid bool
}

// Timestamp returns a valid NullTime.
func Timestamp(t time.Time) NullTime { return NullTime{Time: t, Valid: true} }

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (t *NullTime) UnmarshalJSON(b []byte) error {
	*t = NullTime{}
	if bytes.Equal(b, jsonNull) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil || s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			t.Valid = true
			return nil
		}
	}
	return nil
}

func (t NullTime) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return jsonNull, nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}
