package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/ledgerstore/internal/ir"
)

// marshalContent converts a record to canonical JSON TEXT for storage.
// The entry type is stored in its own column, not in this text.
func marshalContent(record ir.IRObject) (string, error) {
	data, err := ir.MarshalCanonical(record)
	if err != nil {
		return "", fmt.Errorf("marshal content: %w", err)
	}
	return string(data), nil
}

// unmarshalContent parses canonical JSON TEXT back into a record.
// Uses ir.IRObject.UnmarshalJSON, which keeps large integers exact.
func unmarshalContent(data string) (ir.IRObject, error) {
	if data == "" || data == "{}" {
		return ir.IRObject{}, nil
	}
	var obj ir.IRObject
	if err := json.Unmarshal([]byte(data), &obj); err != nil {
		return nil, fmt.Errorf("unmarshal content: %w", err)
	}
	return obj, nil
}
