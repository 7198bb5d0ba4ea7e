package events

import (
	"encoding/json"
	"time"
)

type Type string

const (
	TypePing         Type = "ping"
	TypeJobSaved     Type = "job_saved"
	TypeJobsImported Type = "jobs_imported"
	TypeJobsPruned   Type = "jobs_pruned"
)

// Event is one SSE message. Data is the type-specific payload.
type Event struct {
	Type      Type            `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

type JobSaved struct {
	JobID string `json:"job_id"`
	Saved bool   `json:"saved"`
}

type JobsImported struct {
	NewJobs int       `json:"new_jobs"`
	Total   int       `json:"total"`
	LastRun time.Time `json:"last_run"`
}

type JobsPruned struct {
	Deleted int64 `json:"deleted"`
}

func New(reqID string, typ Type, data any) Event {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	return Event{
		Type:      typ,
		Version:   1,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
}

// Encode renders e as the data line of an SSE frame.
func (e Event) Encode() string {
	b, _ := json.Marshal(e)
	return string(b)
}
