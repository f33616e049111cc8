package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt accepts both 21 and "21"; HTML forms post numbers as strings.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	s, quoted, err := unquoteNumber(b)
	if err != nil {
		return err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		if quoted {
			return fmt.Errorf("%q is not a whole number", s)
		}
		return fmt.Errorf("%s is not a whole number", s)
	}
	*n = FlexInt(v)
	return nil
}

// Int returns nil for a nil receiver so optional fields stay optional.
func (n *FlexInt) Int() *int {
	if n == nil {
		return nil
	}
	v := int(*n)
	return &v
}

// FlexFloat is FlexInt for decimal values.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	s, _, err := unquoteNumber(b)
	if err != nil {
		return err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%q is not a number", s)
	}
	*f = FlexFloat(v)
	return nil
}

func (f *FlexFloat) Float() *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}

func unquoteNumber(b []byte) (string, bool, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '"' {
		return string(b), false, nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return "", true, err
	}
	return strings.TrimSpace(s), true, nil
}
