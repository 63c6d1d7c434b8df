package types

import "time"

// ParentFilterNull is the query sentinel selecting top-level records
// (parentTaskId=null / parentGoalId=null).
const ParentFilterNull = "null"

type TaskFilters struct {
	Statuses   []string
	Priorities []string
	CategoryID string
	Search     string
	DueDate    *time.Time
	Tags       []string
	// ParentTaskID is empty for no filter, ParentFilterNull for top-level
	// tasks, or an exact id.
	ParentTaskID string
}

type GoalFilters struct {
	Category     string
	IsCompleted  *bool
	ParentGoalID string
}

type Sort struct {
	Field string
	Order string
}
