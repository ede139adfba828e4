package vehicle

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errNullResponse = errors.New("response body is null")

// FilterRequest selects vehicles on the source service. The relay always
// sends the zero branch, filter "0" and no forced login.
type FilterRequest struct {
	BranchID   string `json:"branch_id"`
	FilterID   string `json:"filter_id"`
	ForceLogin bool   `json:"force_login"`
}

// DefaultFilter returns the filter sent on every relay run.
func DefaultFilter() FilterRequest {
	return FilterRequest{
		BranchID:   "",
		FilterID:   "0",
		ForceLogin: false,
	}
}

// Payload is the raw "data" field of a source response. A nil Payload
// means the field was absent.
type Payload json.RawMessage

// Present reports whether the source response carried a "data" field.
func (p Payload) Present() bool {
	return p != nil
}

// Count returns the number of records when the payload is a JSON array
// and 0 otherwise.
func (p Payload) Count() int {
	trimmed := bytes.TrimSpace(p)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return 0
	}
	var records []json.RawMessage
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return 0
	}
	return len(records)
}

// Bytes returns the payload as the sink request body. An absent payload
// yields an empty body.
func (p Payload) Bytes() []byte {
	return []byte(p)
}

// Records splits an array payload into its elements.
func (p Payload) Records() ([]json.RawMessage, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(p, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// DecodeResponse parses a source response body and extracts its "data"
// field. Any JSON value other than an object carries no "data" field and
// yields an absent payload, except a top-level null, which is an error.
func DecodeResponse(body []byte) (Payload, error) {
	var top interface{}
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, err
	}
	if top == nil {
		return nil, errNullResponse
	}
	if _, ok := top.(map[string]interface{}); !ok {
		return nil, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	raw, ok := fields["data"]
	if !ok {
		return nil, nil
	}
	return Payload(raw), nil
}
