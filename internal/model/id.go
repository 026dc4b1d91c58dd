package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is an opaque server-assigned identifier. The CRM API currently issues
// integers, but callers treat the value as a string and it goes back on the
// wire in the form it arrived in.
type ID string

func (id ID) String() string { return string(id) }

// IsZero reports whether the identifier is unset.
func (id ID) IsZero() bool { return id == "" }

// numeric reports whether the identifier is a canonical base-10 integer of
// any width: an optional minus, then digits without a leading zero.
func (id ID) numeric() bool {
	s := strings.TrimPrefix(string(id), "-")
	if s == "" || (s[0] == '0' && (len(s) > 1 || len(s) != len(id))) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}
