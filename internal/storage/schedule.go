package storage

import "time"

const (
	ScheduleScheduled       = "Scheduled"
	ScheduleInProgress      = "In Progress"
	ScheduleCompleted       = "Completed"
	SchedulePendingApproval = "Pending Approval"
)

const (
	RecommendOutsource         = "Outsource"
	RecommendExtraShift        = "Extra Shift"
	RecommendManualApproval    = "Manual Approval"
	RecommendDelayed           = "Delayed"
	RecommendDuplicateSchedule = "Duplicate Schedule"
)

const SuggestedBySystem = "System"

type ScheduleEntry struct {
	ID                       int64           `json:"id"`
	OrderID                  int64           `json:"order_id"`
	OrderNumber              string          `json:"order_number"`
	MachineID                *int64          `json:"machine_id"`
	MachineName              *string         `json:"machine_name"`
	StageName                string          `json:"stage_name"`
	ScheduledStart           time.Time       `json:"scheduled_start"`
	ScheduledEnd             time.Time       `json:"scheduled_end"`
	Quantity                 float64         `json:"quantity"`
	UOM                      string          `json:"uom"`
	Status                   string          `json:"status"`
	IsManualApprovalRequired bool            `json:"is_manual_approval_required"`
	IsApproved               bool            `json:"is_approved"`
	Recommendation           *Recommendation `json:"recommendation,omitempty"`
	Chunks                   []ScheduleChunk `json:"schedule_chunks"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
}

// Active запись занимает этап заказа (эскалации в статусе Pending Approval не считаются).
func (e ScheduleEntry) Active() bool {
	switch e.Status {
	case ScheduleScheduled, ScheduleInProgress, ScheduleCompleted:
		return true
	}
	return false
}

type ScheduleChunk struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Quantity float64   `json:"quantity"`
}

type Recommendation struct {
	Type        string    `json:"type"`
	Reason      string    `json:"reason"`
	SuggestedBy string    `json:"suggested_by"`
	CreatedAt   time.Time `json:"created_at"`
	OrderID     int64     `json:"order_id,omitempty"`
	OrderNumber string    `json:"order_number,omitempty"`
	StageName   string    `json:"stage_name,omitempty"`
}
