package payment

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedEvent = errors.New("malformed webhook payload")

// Event is the provider's webhook payload. Only payment events carry data we
// act on; every other type is acknowledged and dropped.
type Event struct {
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

type EventData struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	ExternalReference string `json:"external_reference,omitempty"`
}

// DecodeEvent parses the raw webhook body into the typed schema, failing
// closed on structurally invalid payloads before any field is trusted.
func DecodeEvent(body []byte) (*Event, error) {
	var evt Event
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedEvent, err)
	}
	return &evt, nil
}
