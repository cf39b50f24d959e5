package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/amonks/td/internal/ui"
	"github.com/amonks/td/todo"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize todos",
	Long: `Summarize todos by status and priority, with completion rate and
due-date counts. --since and --until restrict by creation date.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

var (
	reportStatus   string
	reportPriority string
	reportSince    string
	reportUntil    string
	reportJSON     bool
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportStatus, "status", "", "Only count todos with this status")
	reportCmd.Flags().StringVar(&reportPriority, "priority", "", "Only count todos with this priority")
	reportCmd.Flags().StringVar(&reportSince, "since", "", "Only count todos created on or after this date")
	reportCmd.Flags().StringVar(&reportUntil, "until", "", "Only count todos created on or before this date")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Output as JSON")
}

func runReport(cmd *cobra.Command, args []string) error {
	filter, err := reportFilterFromFlags()
	if err != nil {
		return err
	}

	repo, err := openRepository()
	if err != nil {
		return err
	}
	all, err := repo.FindAll()
	if err != nil {
		return err
	}

	stats := todo.Report(todo.FilterForReport(all, filter), todo.Now())
	if reportJSON {
		return encodeJSON(cmd.OutOrStdout(), stats)
	}
	writeReport(cmd.OutOrStdout(), stats)
	return nil
}

func reportFilterFromFlags() (todo.ReportFilter, error) {
	var filter todo.ReportFilter
	if reportStatus != "" {
		status, err := todo.ParseStatus(reportStatus)
		if err != nil {
			return filter, err
		}
		filter.Status = status
	}
	if reportPriority != "" {
		priority, err := todo.ParsePriority(reportPriority)
		if err != nil {
			return filter, err
		}
		filter.Priority = priority
	}
	if reportSince != "" {
		since, err := ui.ParseDate(reportSince)
		if err != nil {
			return filter, &todo.ValidationError{Field: "since", Reason: err.Error()}
		}
		filter.CreatedFrom = since
	}
	if reportUntil != "" {
		until, err := ui.ParseDate(reportUntil)
		if err != nil {
			return filter, &todo.ValidationError{Field: "until", Reason: err.Error()}
		}
		// A bare day includes everything created that day.
		if until.Equal(until.Truncate(24 * time.Hour)) {
			until = until.Add(24*time.Hour - time.Millisecond)
		}
		filter.CreatedTo = until
	}
	if !filter.CreatedFrom.IsZero() && !filter.CreatedTo.IsZero() && filter.CreatedTo.Before(filter.CreatedFrom) {
		return filter, &todo.ValidationError{Field: "until", Reason: "must not be before --since"}
	}
	return filter, nil
}

func writeReport(w io.Writer, stats todo.Statistics) {
	fmt.Fprintln(w, ui.Heading("Todo Report"))
	fmt.Fprintf(w, "Total: %d\n\n", stats.Total)

	fmt.Fprintln(w, ui.Heading("By status"))
	fmt.Fprintf(w, "  %-12s %d\n", todo.StatusUnstarted.Title(), stats.ByStatus.Unstarted)
	fmt.Fprintf(w, "  %-12s %d\n", todo.StatusInProgress.Title(), stats.ByStatus.InProgress)
	fmt.Fprintf(w, "  %-12s %d\n", todo.StatusCompleted.Title(), stats.ByStatus.Completed)
	fmt.Fprintln(w)

	fmt.Fprintln(w, ui.Heading("By priority"))
	fmt.Fprintf(w, "  %-12s %d\n", "High", stats.ByPriority.High)
	fmt.Fprintf(w, "  %-12s %d\n", "Medium", stats.ByPriority.Medium)
	fmt.Fprintf(w, "  %-12s %d\n", "Low", stats.ByPriority.Low)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Completion rate:    %d%%\n", stats.CompletionRate)
	overdue := fmt.Sprintf("%d", stats.Overdue)
	if stats.Overdue > 0 {
		overdue = ui.Overdue(overdue)
	}
	fmt.Fprintf(w, "Overdue:            %s\n", overdue)
	fmt.Fprintf(w, "Due this week:      %d\n", stats.DueThisWeek)
	fmt.Fprintf(w, "Created this week:  %d\n", stats.CreatedThisWeek)
	fmt.Fprintf(w, "Created this month: %d\n", stats.CreatedThisMonth)
}
