package models

import "time"

type RunState string

const (
	RunStateNotStarted RunState = "not_started"
	RunStateRunning    RunState = "running"
	RunStateCompleted  RunState = "completed"
)

type RunItem struct {
	ID        int64  `json:"id"`
	SourceURL string `json:"source_url"`
}

// BatchRun is one detached refresh of a campaign's content items. It lives
// only in memory or in a queued task payload.
type BatchRun struct {
	RunID       string     `json:"run_id"`
	CampaignID  int64      `json:"campaign_id"`
	OperatorID  int64      `json:"operator_id"`
	Items       []RunItem  `json:"items"`
	BatchSize   int        `json:"batch_size"`
	State       RunState   `json:"state"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (r *BatchRun) TotalBatches() int {
	if r.BatchSize <= 0 || len(r.Items) == 0 {
		return 0
	}
	return (len(r.Items) + r.BatchSize - 1) / r.BatchSize
}

type ItemError struct {
	ItemID  int64  `json:"itemId"`
	Message string `json:"errorMessage"`
}

// RunOutcome accumulates exactly one result per item of a run.
type RunOutcome struct {
	Updated     int         `json:"updated"`
	Fallbacks   int         `json:"fallbacks"`
	RateLimited int         `json:"rateLimited"`
	Errors      []ItemError `json:"errors"`
}

func (o *RunOutcome) Processed() int {
	return o.Updated + len(o.Errors)
}
