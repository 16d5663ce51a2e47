package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// RawMessage represents an unprocessed message from the request topic.
type RawMessage struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// PlanRequest asks for one multi-crop estimate.
type PlanRequest struct {
	RequestID    string   `json:"request_id"`
	Location     string   `json:"location"`
	PlantingDate string   `json:"planting_date"` // "YYYY-MM-DD"; empty means today
	Crops        []string `json:"crops"`         // site crop ids
}

// PlanResult is the outcome of one PlanRequest, destined for the result topic.
type PlanResult struct {
	RequestID    string    `json:"request_id"`
	PlanID       string    `json:"plan_id"`
	Status       string    `json:"status"`
	Message      string    `json:"message,omitempty"`
	UnknownCrops []string  `json:"unknown_crops,omitempty"`
	Plan         *Plan     `json:"plan,omitempty"`
	Text         string    `json:"text,omitempty"`
	CSV          string    `json:"csv,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// ParsePlanRequest decodes a request message body.
func ParsePlanRequest(raw RawMessage) (PlanRequest, error) {
	var req PlanRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return PlanRequest{}, fmt.Errorf("parse plan request: %w", err)
	}
	if req.RequestID == "" {
		req.RequestID = string(raw.Key)
	}
	return req, nil
}

// Now returns the current time from the package clock, in UTC.
func Now() time.Time {
	return clock.Now().UTC()
}
