package model

import "time"

// QueryOutcome is the result class of a processed place query
type QueryOutcome string

const (
	OutcomeOK        QueryOutcome = "ok"
	OutcomeNotFound  QueryOutcome = "not_found"
	OutcomeFailed    QueryOutcome = "failed"
	OutcomeThrottled QueryOutcome = "throttled"
)

// QueryEvent is published after every answered place query
type QueryEvent struct {
	RequestID  string       `json:"request_id"`
	ChatID     int64        `json:"chat_id"`
	Place      string       `json:"place"`
	Outcome    QueryOutcome `json:"outcome"`
	Error      string       `json:"error,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}
