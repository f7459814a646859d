package models

// DeletionRequestStats summarizes the deletion request history.
// Durations are rounded to 2 decimal places and are 0 when the
// underlying set of rows is empty.
type DeletionRequestStats struct {
	PendingCount           int     `json:"pending_count"`
	ApprovedLast30Days     int     `json:"approved_last_30_days"`
	RejectedLast30Days     int     `json:"rejected_last_30_days"`
	AverageReviewTimeHours float64 `json:"average_review_time_hours"`
	OldestPendingDays      float64 `json:"oldest_pending_days"`
}
