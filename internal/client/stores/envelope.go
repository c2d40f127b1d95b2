package stores

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/spicestore/internal/common"
)

var errNoEntity = errors.New("response carries no record")

// unwrap returns the value under the first of keys present in an object
// body, or raw itself when none is.
func unwrap(raw json.RawMessage, keys ...string) json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return raw
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return raw
	}
	for _, k := range keys {
		if v, ok := obj[k]; ok && !isNull(v) {
			return v
		}
	}
	return raw
}

// hasAnyKey reports whether raw is an object carrying at least one of keys.
func hasAnyKey(raw json.RawMessage, keys ...string) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}
	for _, k := range keys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// decodeOne decodes a single record that may be wrapped under one of keys.
func decodeOne(raw json.RawMessage, out any, keys ...string) error {
	body := unwrap(raw, keys...)
	if len(body) == 0 || isNull(body) {
		return errNoEntity
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeList accepts a bare array, an array wrapped under one of keys, or a
// single object, which becomes a one-element list.
func decodeList[T any](raw json.RawMessage, keys ...string) ([]T, error) {
	body := bytes.TrimSpace(unwrap(raw, keys...))
	if len(body) == 0 || isNull(body) {
		return []T{}, nil
	}

	if body[0] == '[' {
		out := []T{}
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return out, nil
	}

	var one T
	if err := json.Unmarshal(body, &one); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return []T{one}, nil
}

// ack is the {success, message} shape most mutations answer with.
type ack struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

func (a ack) failed() bool { return a.Success != nil && !*a.Success }

// err reports a 2xx {success:false} reply as a rejection with the backend's
// message.
func (a ack) err() error {
	return &common.APIError{Status: http.StatusBadRequest, Message: a.Message}
}

// rejected returns the ack error when raw is a {success:false} object.
func rejected(raw json.RawMessage) error {
	var a ack
	if err := json.Unmarshal(raw, &a); err != nil || !a.failed() {
		return nil
	}
	return a.err()
}
