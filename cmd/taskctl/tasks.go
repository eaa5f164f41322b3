package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yukikurage/task-review-api/internal/client"
	"github.com/yukikurage/task-review-api/internal/dto"
	"github.com/yukikurage/task-review-api/internal/models"
	"github.com/yukikurage/task-review-api/internal/visibility"
)

var (
	taskListAll      bool
	taskListStatus   string
	taskListPage     int
	taskListPageSize int

	taskTitle       string
	taskDescription string
	taskDeadline    string
	taskTags        []string
	taskAssignees   []string
	taskStatus      string
	taskClearDue    bool
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Work with tasks",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List visible tasks (--all for every task, admin only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		opts := client.ListOptions{Page: taskListPage, PageSize: taskListPageSize, Status: taskListStatus}
		var (
			resp *dto.TaskListResponse
			err  error
		)
		if taskListAll {
			resp, err = api.ListTasks(cmd.Context(), opts)
		} else {
			resp, err = api.ListVisibleTasks(cmd.Context(), opts)
		}
		if err != nil {
			return err
		}

		user := manager.CurrentUser()
		for _, t := range resp.Tasks {
			marker := " "
			if visibility.SpecificallyAssigned(t, user.ID) {
				marker = "*"
			}
			fmt.Printf("%s %-6d %-9s %s\n", marker, t.ID, t.Status, t.Title)
		}
		fmt.Printf("page %d/%d, %d tasks\n", resp.Page, resp.TotalPages, resp.TotalCount)
		return nil
	},
}

var tasksShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show one task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		task, err := api.GetTask(cmd.Context(), taskID)
		if err != nil {
			return err
		}
		return printJSON(task)
	},
}

var tasksCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a task",
	RunE: func(cmd *cobra.Command, args []string) error {
		deadline, err := parseDeadline(taskDeadline)
		if err != nil {
			return err
		}
		assignees, err := parseIDs(taskAssignees, "user")
		if err != nil {
			return err
		}
		task, err := api.CreateTask(cmd.Context(), dto.CreateTaskRequest{
			Title:           taskTitle,
			Description:     taskDescription,
			Deadline:        deadline,
			Tags:            taskTags,
			AssignedUserIDs: assignees,
		})
		if err != nil {
			return err
		}
		return printJSON(task)
	},
}

var tasksEditCmd = &cobra.Command{
	Use:   "edit <task-id>",
	Short: "Edit a task; only the flags given are changed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}

		req := dto.UpdateTaskRequest{ClearDeadline: taskClearDue}
		flags := cmd.Flags()
		if flags.Changed("title") {
			req.Title = &taskTitle
		}
		if flags.Changed("description") {
			req.Description = &taskDescription
		}
		if flags.Changed("deadline") {
			if req.Deadline, err = parseDeadline(taskDeadline); err != nil {
				return err
			}
		}
		if flags.Changed("tag") {
			req.Tags = &taskTags
		}
		if flags.Changed("assignee") {
			assignees, err := parseIDs(taskAssignees, "user")
			if err != nil {
				return err
			}
			req.AssignedUserIDs = &assignees
		}
		if flags.Changed("status") {
			status := models.TaskStatus(strings.ToUpper(taskStatus))
			req.Status = &status
		}

		task, err := api.UpdateTask(cmd.Context(), taskID, req)
		if err != nil {
			return err
		}
		return printJSON(task)
	},
}

var tasksAssignCmd = &cobra.Command{
	Use:   "assign <task-id> <user-id>",
	Short: "Assign a worker to a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		userID, err := parseID(args[1], "user")
		if err != nil {
			return err
		}
		task, err := api.AssignTask(cmd.Context(), taskID, userID)
		if err != nil {
			return err
		}
		return printJSON(task)
	},
}

var tasksCompleteCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Mark a task done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		task, err := api.CompleteTask(cmd.Context(), taskID)
		if err != nil {
			return err
		}
		return printJSON(task)
	},
}

var tasksDeleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Delete a task and its submissions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		if err := api.DeleteTask(cmd.Context(), taskID); err != nil {
			return err
		}
		fmt.Printf("Deleted task %d\n", taskID)
		return nil
	},
}

var tasksHistoryCmd = &cobra.Command{
	Use:   "history <task-id>",
	Short: "Show a task's audit trail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		entries, err := api.TaskHistory(cmd.Context(), taskID)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%s  %-16s %q -> %q\n", e.ChangedAt.Format(time.RFC3339), e.FieldChanged, e.OldValue, e.NewValue)
		}
		return nil
	},
}

var tasksGenerateCmd = &cobra.Command{
	Use:   "generate <text>",
	Short: "Draft tasks from free text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		drafts, err := api.GenerateTasks(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printJSON(drafts)
	},
}

func parseIDs(raw []string, label string) ([]uint64, error) {
	ids := make([]uint64, 0, len(raw))
	for _, r := range raw {
		id, err := parseID(strings.TrimSpace(r), label)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseDeadline(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid deadline %q, use RFC3339 or YYYY-MM-DD", raw)
}

func init() {
	tasksListCmd.Flags().BoolVar(&taskListAll, "all", false, "list every task (admin only)")
	tasksListCmd.Flags().StringVar(&taskListStatus, "status", "", "PENDING, ASSIGNED or DONE")
	tasksListCmd.Flags().IntVar(&taskListPage, "page", 1, "page number")
	tasksListCmd.Flags().IntVar(&taskListPageSize, "page-size", 20, "page size")

	for _, c := range []*cobra.Command{tasksCreateCmd, tasksEditCmd} {
		c.Flags().StringVar(&taskTitle, "title", "", "task title")
		c.Flags().StringVar(&taskDescription, "description", "", "task description")
		c.Flags().StringVar(&taskDeadline, "deadline", "", "deadline (RFC3339 or YYYY-MM-DD)")
		c.Flags().StringSliceVar(&taskTags, "tag", nil, "tag (repeatable)")
		c.Flags().StringSliceVar(&taskAssignees, "assignee", nil, "assigned user ID (repeatable)")
	}
	_ = tasksCreateCmd.MarkFlagRequired("title")
	tasksEditCmd.Flags().StringVar(&taskStatus, "status", "", "PENDING, ASSIGNED or DONE")
	tasksEditCmd.Flags().BoolVar(&taskClearDue, "clear-deadline", false, "remove the deadline")

	tasksCmd.AddCommand(tasksListCmd, tasksShowCmd, tasksCreateCmd, tasksEditCmd, tasksAssignCmd,
		tasksCompleteCmd, tasksDeleteCmd, tasksHistoryCmd, tasksGenerateCmd)
	rootCmd.AddCommand(tasksCmd)
}
