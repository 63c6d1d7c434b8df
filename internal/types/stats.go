package types

type TaskStats struct {
	Total          int64 `json:"total"`
	Pending        int64 `json:"pending"`
	InProgress     int64 `json:"inProgress"`
	Completed      int64 `json:"completed"`
	Backburner     int64 `json:"backburner"`
	Overdue        int64 `json:"overdue"`
	CompletionRate int   `json:"completionRate"`
}

type GoalStats struct {
	Total           int64 `json:"total"`
	Completed       int64 `json:"completed"`
	InProgress      int64 `json:"inProgress"`
	AverageProgress int   `json:"averageProgress"`
	CompletionRate  int   `json:"completionRate"`
}
