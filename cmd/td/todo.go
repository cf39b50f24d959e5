package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/amonks/td/internal/editor"
	"github.com/amonks/td/internal/listflags"
	"github.com/amonks/td/internal/ui"
	"github.com/amonks/td/todo"
)

// add
var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a todo",
	Long: `Add a todo.

When run interactively without a title, opens $EDITOR on a TOML
representation of the todo. Use --edit to force the editor and
--no-edit to skip it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

var (
	addDescription string
	addPriority    string
	addDue         string
)

// update
var updateCmd = &cobra.Command{
	Use:   "update <id>...",
	Short: "Update one or more todos",
	Long: `Update one or more todos.

Without update flags, opens $EDITOR once per todo when running
interactively. Use --edit to force the editor and --no-edit to skip it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpdate,
}

var (
	updateTitle       string
	updateDescription string
	updateStatus      string
	updatePriority    string
	updateDue         string
	updateClearDue    bool
)

var startCmd = &cobra.Command{
	Use:   "start <id>...",
	Short: "Mark todos as in progress",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTransition("Started", todo.Start),
}

var completeCmd = &cobra.Command{
	Use:     "complete <id>...",
	Aliases: []string{"done"},
	Short:   "Mark todos as completed",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runTransition("Completed", todo.Complete),
}

var reopenCmd = &cobra.Command{
	Use:   "reopen <id>...",
	Short: "Move completed todos back to unstarted",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTransition("Reopened", todo.Reopen),
}

var removeCmd = &cobra.Command{
	Use:     "remove <id>...",
	Aliases: []string{"rm"},
	Short:   "Delete todos",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRemove,
}

var showCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show todo details",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShow,
}

var showJSON bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List todos",
	Long: `List todos, in progress first, then by priority and age.
Completed todos are hidden unless --all or --status is given.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listStatus   string
	listPriority string
	listOverdue  bool
	listAll      bool
	listJSON     bool
)

func init() {
	rootCmd.AddCommand(addCmd, updateCmd, startCmd, completeCmd, reopenCmd, removeCmd, showCmd, listCmd)
	addTodoFlagAliases(addCmd, updateCmd)

	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Description (use '-' to read from stdin)")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", string(todo.DefaultPriority), "Priority (low, medium, high)")
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (YYYY-MM-DD or RFC 3339)")
	addEditorFlags(addCmd, "no title")

	updateCmd.Flags().StringVar(&updateTitle, "title", "", "New title")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "New description (use '-' to read from stdin)")
	updateCmd.Flags().StringVar(&updateStatus, "status", "", "New status (unstarted, in_progress, completed)")
	updateCmd.Flags().StringVarP(&updatePriority, "priority", "p", "", "New priority (low, medium, high)")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "New due date (YYYY-MM-DD or RFC 3339)")
	updateCmd.Flags().BoolVar(&updateClearDue, "clear-due", false, "Remove the due date")
	addEditorFlags(updateCmd, "no update flags")

	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")

	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&listPriority, "priority", "", "Filter by priority")
	listCmd.Flags().BoolVar(&listOverdue, "overdue", false, "Only show overdue todos")
	listflags.AddAllFlag(listCmd, &listAll)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
}

func runAdd(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(addDescription, os.Stdin)
		if err != nil {
			return err
		}
		addDescription = desc
	}

	input := todo.AddInput{Description: addDescription}
	priority, err := todo.ParsePriority(addPriority)
	if err != nil {
		return err
	}
	input.Priority = priority
	if addDue != "" {
		due, err := parseDueFlag(addDue)
		if err != nil {
			return err
		}
		input.DueDate = &due
	}
	if len(args) > 0 {
		input.Title = args[0]
	}

	if useEditor(cmd.Flags(), len(args) > 0, editor.IsInteractive()) {
		data := editor.DefaultCreateData()
		data.Title = input.Title
		data.Priority = string(input.Priority)
		data.Description = input.Description
		if input.DueDate != nil {
			data.Due = input.DueDate.Format(ui.DateLayout)
		}
		parsed, err := editor.EditTodoWithData(data)
		if err != nil {
			return err
		}
		input = parsed.ToAddInput()
	} else if len(args) == 0 {
		return fmt.Errorf("title is required (use --edit to open editor)")
	}

	repo, err := openRepository()
	if err != nil {
		return err
	}
	created, err := todo.Add(repo, input)
	if err != nil {
		return err
	}

	highlight := logHighlighter(todoPrefixLengths(repo), ui.HighlightID)
	fmt.Fprintf(cmd.OutOrStdout(), "Created todo %s: %s\n", highlight(created.ID.String()), created.Title)
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(updateDescription, os.Stdin)
		if err != nil {
			return err
		}
		updateDescription = desc
	}

	changes, err := updateChangesFromFlags(cmd)
	if err != nil {
		return err
	}

	repo, err := openRepository()
	if err != nil {
		return err
	}
	resolved, err := todo.Resolve(repo, args...)
	if err != nil {
		return err
	}

	openEditor := useEditor(cmd.Flags(), !changes.IsEmpty(), editor.IsInteractive())
	updated := make([]todo.Todo, 0, len(resolved))
	for _, id := range resolved {
		itemChanges := changes
		if openEditor {
			existing, err := repo.FindByID(id)
			if err != nil {
				return err
			}
			preview, err := changes.Apply(existing)
			if err != nil {
				return err
			}
			parsed, err := editor.EditTodo(&preview)
			if err != nil {
				return err
			}
			itemChanges = parsed.ToChanges()
		}

		item, err := todo.Update(repo, id, itemChanges)
		if err != nil {
			return err
		}
		updated = append(updated, item)
	}

	highlight := logHighlighter(todoPrefixLengths(repo), ui.HighlightID)
	for _, item := range updated {
		fmt.Fprintf(cmd.OutOrStdout(), "Updated todo %s: %s\n", highlight(item.ID.String()), item.Title)
	}
	return nil
}

func addEditorFlags(cmd *cobra.Command, defaultWhen string) {
	cmd.Flags().BoolP("edit", "e", false, "Open $EDITOR (default if interactive and "+defaultWhen+")")
	cmd.Flags().Bool("no-edit", false, "Do not open $EDITOR")
}

// useEditor decides whether add or update opens $EDITOR. --edit wins over
// --no-edit; otherwise the editor opens only for an interactive session
// that gave no title or update flags.
func useEditor(flags *pflag.FlagSet, hasInput bool, interactive bool) bool {
	if edit, _ := flags.GetBool("edit"); edit {
		return true
	}
	if noEdit, _ := flags.GetBool("no-edit"); noEdit {
		return false
	}
	if hasInput {
		return false
	}
	return interactive
}

func updateChangesFromFlags(cmd *cobra.Command) (todo.Changes, error) {
	var changes todo.Changes
	flags := cmd.Flags()
	if flags.Changed("title") {
		changes.Title = &updateTitle
	}
	if flags.Changed("description") {
		changes.Description = &updateDescription
	}
	if flags.Changed("status") {
		status, err := todo.ParseStatus(updateStatus)
		if err != nil {
			return todo.Changes{}, err
		}
		changes.Status = &status
	}
	if flags.Changed("priority") {
		priority, err := todo.ParsePriority(updatePriority)
		if err != nil {
			return todo.Changes{}, err
		}
		changes.Priority = &priority
	}
	if flags.Changed("due") {
		due, err := parseDueFlag(updateDue)
		if err != nil {
			return todo.Changes{}, err
		}
		changes.DueDate = &due
	}
	changes.ClearDueDate = updateClearDue
	return changes, nil
}

func parseDueFlag(value string) (time.Time, error) {
	due, err := ui.ParseDate(value)
	if err != nil {
		return time.Time{}, &todo.ValidationError{Field: "due", Reason: err.Error()}
	}
	return todo.Millis(due), nil
}

func runTransition(verb string, transition func(todo.Repository, todo.ID) (todo.Todo, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		repo, err := openRepository()
		if err != nil {
			return err
		}
		resolved, err := todo.Resolve(repo, args...)
		if err != nil {
			return err
		}

		highlight := logHighlighter(todoPrefixLengths(repo), ui.HighlightID)
		for _, id := range resolved {
			item, err := transition(repo, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s todo %s: %s\n", verb, highlight(item.ID.String()), item.Title)
		}
		return nil
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
	repo, err := openRepository()
	if err != nil {
		return err
	}
	resolved, err := todo.Resolve(repo, args...)
	if err != nil {
		return err
	}
	if err := todo.Remove(repo, resolved...); err != nil {
		return err
	}
	for _, id := range resolved {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed todo %s\n", id)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	repo, err := openRepository()
	if err != nil {
		return err
	}
	resolved, err := todo.Resolve(repo, args...)
	if err != nil {
		return err
	}

	items := make([]todo.Todo, 0, len(resolved))
	for _, id := range resolved {
		item, err := repo.FindByID(id)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	if showJSON {
		return writeTodosJSON(cmd.OutOrStdout(), items)
	}

	highlight := logHighlighter(todoPrefixLengths(repo), ui.HighlightID)
	now := todo.Now()
	for i, item := range items {
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		fmt.Fprint(cmd.OutOrStdout(), formatTodoDetail(item, highlight, now, ui.TerminalWidth(todoDetailLineWidth)))
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	filter := todo.ListFilter{HideCompleted: !listAll}
	if listStatus != "" {
		status, err := todo.ParseStatus(listStatus)
		if err != nil {
			return err
		}
		filter.Status = status
	}
	if listPriority != "" {
		priority, err := todo.ParsePriority(listPriority)
		if err != nil {
			return err
		}
		filter.Priority = priority
	}
	now := todo.Now()
	if listOverdue {
		filter.OverdueAt = now
	}

	repo, err := openRepository()
	if err != nil {
		return err
	}
	items, err := todo.List(repo, filter)
	if err != nil {
		return err
	}

	if listJSON {
		return writeTodosJSON(cmd.OutOrStdout(), items)
	}
	if len(items) == 0 {
		all, err := repo.FindAll()
		if err != nil {
			return err
		}
		hasCompleted := len(todo.FilterByStatus(all, todo.StatusCompleted)) > 0
		fmt.Fprintln(cmd.OutOrStdout(), todoEmptyListMessage(len(all), filter, hasCompleted))
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), formatTodoTable(items, todoPrefixLengths(repo), ui.HighlightID, now))
	return nil
}
