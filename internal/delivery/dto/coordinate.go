package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Coordinate accepts the values web forms actually submit for lat/lng:
// JSON numbers, numeric strings from text inputs, and "" for an untouched
// input (treated as absent).
type Coordinate struct {
	Value float64
	Set   bool
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid coordinate %q", s)
		}
		c.Value, c.Set = v, true
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	c.Value, c.Set = v, true
	return nil
}

// MarshalJSON keeps the round trip symmetric: absent serializes as null.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	if !c.Set {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// Ptr returns the value for nullable storage, nil when absent.
func (c Coordinate) Ptr() *float64 {
	if !c.Set {
		return nil
	}
	v := c.Value
	return &v
}
