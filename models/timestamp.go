package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Timestamp is a position in a video, in seconds.
// It marshals as a JSON number and unmarshals from either a number or a
// display string such as "00:31" or "1:02:03".
type Timestamp float64

// MaxTimestamp is the latest position accepted for a note, about 68 years.
const MaxTimestamp Timestamp = math.MaxInt32

// Seconds returns the timestamp as a float.
func (t Timestamp) Seconds() float64 {
	return float64(t)
}

// String formats the timestamp as mm:ss, or h:mm:ss past the hour.
// Fractions of a second are truncated; values outside [0, MaxTimestamp]
// are clamped.
func (t Timestamp) String() string {
	v := math.Floor(float64(t))
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	total := int64(math.Min(v, float64(MaxTimestamp)))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// MarshalJSON encodes the timestamp as a number of seconds.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(t))
}

// UnmarshalJSON accepts a number of seconds or a display string.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var seconds float64
	if err := json.Unmarshal(data, &seconds); err == nil {
		*t = Timestamp(seconds)
		return nil
	}

	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return fmt.Errorf("timestamp must be a number of seconds or a mm:ss string")
	}

	parsed, err := ParseTimestamp(label)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTimestamp parses "ss", "mm:ss" or "h:mm:ss". Seconds may carry a fraction.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("timestamp is empty")
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}

	var total float64
	for i, part := range parts {
		last := i == len(parts)-1
		var v float64
		if last {
			f, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid timestamp %q", s)
			}
			v = f
		} else {
			n, err := strconv.Atoi(part)
			if err != nil {
				return 0, fmt.Errorf("invalid timestamp %q", s)
			}
			v = float64(n)
		}
		if v < 0 || (i > 0 && v >= 60) {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		total = total*60 + v
	}

	return Timestamp(total), nil
}
