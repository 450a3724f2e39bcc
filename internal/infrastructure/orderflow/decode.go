package orderflow

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fastygo/orderflow-dashboard/domain"
)

// decodeList parses a collection payload. An empty body or JSON null is an
// absent collection and yields an empty slice; any top-level shape other than
// an array is rejected.
func decodeList[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	if trimmed[0] != '[' {
		return nil, domain.WrapError(domain.ErrCodeUnexpectedPayload,
			fmt.Sprintf("expected JSON array, got %s", describeShape(trimmed[0])), nil)
	}

	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnexpectedPayload, "malformed collection payload", err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func decodeOne[T any](body []byte) (*T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		shape := "empty body"
		if len(trimmed) > 0 {
			shape = describeShape(trimmed[0])
		}
		return nil, domain.WrapError(domain.ErrCodeUnexpectedPayload,
			fmt.Sprintf("expected JSON object, got %s", shape), nil)
	}

	var item T
	if err := json.Unmarshal(trimmed, &item); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnexpectedPayload, "malformed entity payload", err)
	}
	return &item, nil
}

func describeShape(first byte) string {
	switch {
	case first == '{':
		return "object"
	case first == '"':
		return "string"
	case first == 't' || first == 'f':
		return "boolean"
	case first == '-' || (first >= '0' && first <= '9'):
		return "number"
	default:
		return "unknown"
	}
}
