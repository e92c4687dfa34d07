package controllers

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Flag is a boolean request field that also accepts the strings understood by
// strconv.ParseBool, such as "true", "0" or "F". Any other value fails decoding.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("flag must be a boolean or a boolean string, got %s", data)
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("flag must be a boolean or a boolean string, got %q", s)
	}
	*f = Flag(b)
	return nil
}

// ptr returns nil for an absent flag
func (f *Flag) ptr() *bool {
	if f == nil {
		return nil
	}
	b := bool(*f)
	return &b
}
