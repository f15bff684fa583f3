package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/taskdeck/internal/storage"
	"github.com/dohr-michael/taskdeck/internal/task"
)

// NewTasksCommand returns the tasks subcommand.
func NewTasksCommand() *cli.Command {
	return &cli.Command{
		Name:  "tasks",
		Usage: "Manage tasks from the command line",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List tasks",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Usage: "Filter by status (active|next|waiting|done|archived)"},
					&cli.StringSliceFlag{Name: "tag", Usage: "Filter by tag (repeatable, all must match)"},
					&cli.StringFlag{Name: "type", Usage: "Filter by type (task|project)"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of rows"},
				},
				Action: runTasksList,
			},
			{
				Name:      "show",
				Usage:     "Show one task in full",
				ArgsUsage: "<task_id>",
				Action:    runTasksShow,
			},
			{
				Name:      "add",
				Usage:     "Add a task",
				ArgsUsage: "<title>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "enrich", Usage: "Parse the text with the configured model"},
				},
				Action: runTasksAdd,
			},
			{
				Name:      "done",
				Usage:     "Mark a task done",
				ArgsUsage: "<task_id>",
				Action:    runTasksDone,
			},
			{
				Name:      "archive",
				Usage:     "Archive a task",
				ArgsUsage: "<task_id>",
				Action:    runTasksArchive,
			},
			{
				Name:      "rm",
				Usage:     "Delete a task file permanently",
				ArgsUsage: "<task_id>",
				Action:    runTasksRemove,
			},
		},
		DefaultCommand: "list",
	}
}

func runTasksList(_ context.Context, cmd *cli.Command) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	var filter task.Filter
	if v := cmd.String("status"); v != "" {
		status, err := task.ParseStatus(v)
		if err != nil {
			return err
		}
		filter.Status = &status
	}
	if v := cmd.String("type"); v != "" {
		typ, err := task.ParseItemType(v)
		if err != nil {
			return err
		}
		filter.Type = &typ
	}
	filter.Tags = cmd.StringSlice("tag")
	filter.Limit = cmd.Int("limit")

	items, err := rt.store.List(filter)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	if len(items) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE")
	for _, it := range items {
		due := it.DueDate
		if due == "" {
			due = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", it.ID, it.Status, it.Priority, due, it.Title)
	}
	return w.Flush()
}

func runTasksShow(_ context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: taskdeck tasks show <task_id>")
	}

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	it, err := rt.store.Get(id)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}

	fmt.Printf("ID:        %s\n", it.ID)
	fmt.Printf("Title:     %s\n", it.Title)
	fmt.Printf("Type:      %s\n", it.Type)
	fmt.Printf("Status:    %s\n", it.Status)
	fmt.Printf("Priority:  %s\n", it.Priority)
	if len(it.Tags) > 0 {
		fmt.Printf("Tags:      %s\n", strings.Join(it.Tags, ", "))
	}
	if it.DueDate != "" {
		fmt.Printf("Due:       %s\n", it.DueDate)
	}
	if it.StartDate != "" || it.EndDate != "" {
		fmt.Printf("Window:    %s .. %s\n", it.StartDate, it.EndDate)
	}
	if it.Progress != nil {
		fmt.Printf("Progress:  %d%%\n", *it.Progress)
	}
	if it.ParentGoalID != "" {
		fmt.Printf("Project:   %s\n", it.ParentGoalID)
	}
	fmt.Printf("Created:   %s\n", it.CreatedAt)
	if it.Body != "" {
		fmt.Printf("\n%s\n", it.Body)
	}
	return nil
}

func runTasksAdd(ctx context.Context, cmd *cli.Command) error {
	raw := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if raw == "" {
		return fmt.Errorf("usage: taskdeck tasks add <title>")
	}

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	it := task.New(raw, task.TypeTask)
	if cmd.Bool("enrich") {
		fields := rt.enricher(ctx).Enrich(ctx, raw)
		it.Title = fields.Title
		fields.Apply(it)
	}

	if _, err := rt.store.Write(it); err != nil {
		return fmt.Errorf("write task: %w", err)
	}
	rt.activity.Record(storage.OpCreate, it)
	fmt.Printf("Created %s: %s\n", it.ID, it.Title)
	return nil
}

func runTasksDone(_ context.Context, cmd *cli.Command) error {
	return setStatus(cmd, task.StatusDone, storage.OpDone, "done")
}

func runTasksArchive(_ context.Context, cmd *cli.Command) error {
	return setStatus(cmd, task.StatusArchived, storage.OpArchive, "archived")
}

func setStatus(cmd *cli.Command, status task.Status, op, verb string) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: taskdeck tasks %s <task_id>", cmd.Name)
	}

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	it, err := rt.store.Get(id)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	it.Status = status
	if _, err := rt.store.Write(it); err != nil {
		return fmt.Errorf("write task: %w", err)
	}
	rt.activity.Record(op, it)
	fmt.Printf("Task %s %s.\n", id, verb)
	return nil
}

func runTasksRemove(_ context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: taskdeck tasks rm <task_id>")
	}

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	it, err := rt.store.Get(id)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	if err := rt.store.Delete(it); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	rt.activity.Record(storage.OpDelete, it)
	fmt.Printf("Task %s deleted.\n", id)
	return nil
}
