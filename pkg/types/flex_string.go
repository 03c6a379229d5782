package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FlexString holds a raw form value that the browser may send either as a JSON string or a number.
type FlexString string

func (f FlexString) String() string {
	return string(f)
}

// IsSet reports whether the caller provided a non-blank value.
func (f FlexString) IsSet() bool {
	return strings.TrimSpace(string(f)) != ""
}

func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	case '{', '[':
		return fmt.Errorf("expected string or number, got %s", string(trimmed))
	}
	// numbers and booleans are kept verbatim; the normalizer decides what they mean
	*f = FlexString(string(trimmed))
	return nil
}
