package utils

import (
	"bytes"

	"github.com/bytedance/sonic"
)

// IsEmptyPayload reports whether an upstream payload carries no data worth caching
func IsEmptyPayload(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	switch string(trimmed) {
	case "", "null", "[]", "{}":
		return true
	}
	return false
}

// IsErrorPayload reports whether a 2xx payload is actually an API error document,
// e.g. {"status":{"error_code":429,...}} or {"error":"coin not found"}
func IsErrorPayload(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}

	var doc struct {
		Error  interface{} `json:"error"`
		Status *struct {
			ErrorCode int `json:"error_code"`
		} `json:"status"`
	}
	if err := sonic.Unmarshal(trimmed, &doc); err != nil {
		return false
	}

	if doc.Error != nil {
		return true
	}
	return doc.Status != nil && doc.Status.ErrorCode != 0
}
