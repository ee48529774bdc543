package domain

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Geographic position of a sighting in decimal degrees.
// Bounds are inclusive on both ends.
type Location struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

type coordinateKind uint8

const (
	coordinateAbsent coordinateKind = iota
	coordinateNumber
	coordinateString
	coordinateOther
)

// Coordinate is a latitude or longitude exactly as a client submitted it.
// JSON numbers and numeric strings are numeric; booleans, objects, arrays
// and other strings are present but not numeric.
type Coordinate struct {
	raw  string
	kind coordinateKind
}

// CoordinateFromString wraps a textual value such as a form field.
func CoordinateFromString(s string) Coordinate {
	return Coordinate{raw: s, kind: coordinateString}
}

func (c *Coordinate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*c = Coordinate{}
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = CoordinateFromString(s)
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		*c = Coordinate{raw: string(b), kind: coordinateNumber}
	default:
		*c = Coordinate{raw: string(b), kind: coordinateOther}
	}
	return nil
}

// Text is the submitted value as text; empty when absent, null or "".
// Validation treats an empty Text as a missing field.
func (c Coordinate) Text() string {
	if c.kind == coordinateAbsent {
		return ""
	}
	return c.raw
}

// Float returns the numeric value and whether the coordinate is numeric.
// NaN is never numeric; infinities parse and are left to range checks.
func (c Coordinate) Float() (float64, bool) {
	if c.kind != coordinateNumber && c.kind != coordinateString {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(c.raw), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
