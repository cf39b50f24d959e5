package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/amonks/td/todo"
)

func setReportFlags(t *testing.T, status, priority, since, until string) {
	t.Helper()
	prev := [4]string{reportStatus, reportPriority, reportSince, reportUntil}
	t.Cleanup(func() {
		reportStatus, reportPriority, reportSince, reportUntil = prev[0], prev[1], prev[2], prev[3]
	})
	reportStatus, reportPriority, reportSince, reportUntil = status, priority, since, until
}

func TestReportFilterFromFlags(t *testing.T) {
	setReportFlags(t, "in_progress", "high", "2025-01-01", "2025-01-31")

	filter, err := reportFilterFromFlags()
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if filter.Status != todo.StatusInProgress || filter.Priority != todo.PriorityHigh {
		t.Fatalf("unexpected filter %+v", filter)
	}
	if !filter.CreatedFrom.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected since %v", filter.CreatedFrom)
	}
	wantUntil := time.Date(2025, 1, 31, 23, 59, 59, 999_000_000, time.UTC)
	if !filter.CreatedTo.Equal(wantUntil) {
		t.Fatalf("expected until to cover the whole day, got %v", filter.CreatedTo)
	}
}

func TestReportFilterFromFlagsErrors(t *testing.T) {
	cases := []struct {
		name                           string
		status, priority, since, until string
	}{
		{name: "status", status: "later"},
		{name: "priority", priority: "urgent"},
		{name: "since", since: "yesterday"},
		{name: "until before since", since: "2025-02-01", until: "2025-01-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setReportFlags(t, tc.status, tc.priority, tc.since, tc.until)
			if _, err := reportFilterFromFlags(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestWriteReport(t *testing.T) {
	stats := todo.Statistics{
		Total:          4,
		ByStatus:       todo.StatusCounts{Unstarted: 2, InProgress: 1, Completed: 1},
		ByPriority:     todo.PriorityCounts{High: 1, Medium: 2, Low: 1},
		CompletionRate: 25,
		Overdue:        1,
		DueThisWeek:    2,
	}

	var out bytes.Buffer
	writeReport(&out, stats)
	got := out.String()
	for _, want := range []string{
		"Todo Report\nTotal: 4\n",
		"  Unstarted    2\n",
		"  In Progress  1\n",
		"  Completed    1\n",
		"  Medium       2\n",
		"Completion rate:    25%\n",
		"Overdue:            1\n",
		"Due this week:      2\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected report to contain %q, got:\n%s", want, got)
		}
	}
}
