package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// marshalJSONB encodes v for a jsonb column.
func marshalJSONB(v any) (driver.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// scanJSONB decodes a jsonb column value into dest. NULL and empty values leave dest untouched.
func scanJSONB(value any, dest any, name string) error {
	if value == nil {
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("%s: unsupported scan type %T", name, value)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
