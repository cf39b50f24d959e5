package todo

import (
	"math"
	"time"
)

const (
	week  = 7 * 24 * time.Hour
	month = 30 * 24 * time.Hour
)

// Statistics summarizes a set of todos.
type Statistics struct {
	Total int `json:"total"`

	ByStatus   StatusCounts   `json:"byStatus"`
	ByPriority PriorityCounts `json:"byPriority"`

	// CompletionRate is the rounded percentage of completed todos.
	CompletionRate int `json:"completionRate"`

	Overdue          int `json:"overdue"`
	DueThisWeek      int `json:"dueThisWeek"`
	CreatedThisWeek  int `json:"createdThisWeek"`
	CreatedThisMonth int `json:"createdThisMonth"`
}

// StatusCounts counts todos per status.
type StatusCounts struct {
	Unstarted  int `json:"unstarted"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

// PriorityCounts counts todos per priority.
type PriorityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// ReportFilter selects the todos a report covers.
// Zero values mean "don't filter".
type ReportFilter struct {
	Status   Status
	Priority Priority

	// CreatedFrom and CreatedTo bound CreatedAt inclusively.
	CreatedFrom time.Time
	CreatedTo   time.Time
}

// FilterForReport returns the todos matching filter.
func FilterForReport(todos []Todo, filter ReportFilter) []Todo {
	filtered := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		if !filter.CreatedFrom.IsZero() && t.CreatedAt.Before(filter.CreatedFrom) {
			continue
		}
		if !filter.CreatedTo.IsZero() && t.CreatedAt.After(filter.CreatedTo) {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}

// Report computes statistics for todos as of now.
func Report(todos []Todo, now time.Time) Statistics {
	oneWeekAgo := now.Add(-week)
	oneWeekFromNow := now.Add(week)
	oneMonthAgo := now.Add(-month)

	stats := Statistics{Total: len(todos)}
	for _, t := range todos {
		switch t.Status {
		case StatusUnstarted:
			stats.ByStatus.Unstarted++
		case StatusInProgress:
			stats.ByStatus.InProgress++
		case StatusCompleted:
			stats.ByStatus.Completed++
		}

		switch t.Priority {
		case PriorityHigh:
			stats.ByPriority.High++
		case PriorityMedium:
			stats.ByPriority.Medium++
		case PriorityLow:
			stats.ByPriority.Low++
		}

		if t.IsOverdue(now) {
			stats.Overdue++
		}

		if t.DueDate != nil && !t.IsCompleted() && !t.DueDate.Before(now) && !t.DueDate.After(oneWeekFromNow) {
			stats.DueThisWeek++
		}

		if !t.CreatedAt.Before(oneWeekAgo) {
			stats.CreatedThisWeek++
		}
		if !t.CreatedAt.Before(oneMonthAgo) {
			stats.CreatedThisMonth++
		}
	}

	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.ByStatus.Completed) / float64(stats.Total) * 100))
	}

	return stats
}
