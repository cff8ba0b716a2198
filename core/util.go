package core

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const DateLayout = "2006-01-02"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// FullName joins first and last names, skipping empty parts.
func FullName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// Flag is a JSON boolean that also accepts 1/0 and "1"/"0", as sent by the dashboard.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		*f = false
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return errors.Errorf("invalid flag value %s", data)
	}
	*f = Flag(b)
	return nil
}

func (f Flag) Bool() bool { return bool(f) }
