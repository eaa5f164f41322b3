package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yukikurage/task-review-api/internal/client"
	"github.com/yukikurage/task-review-api/internal/dto"
	"github.com/yukikurage/task-review-api/internal/models"
)

var (
	submissionTaskID   uint64
	submissionPage     int
	submissionPageSize int
)

var submitCmd = &cobra.Command{
	Use:   "submit <task-id> <link>",
	Short: "Submit work for a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		submission, err := api.Submit(cmd.Context(), taskID, args[1])
		if err != nil {
			return err
		}
		return printJSON(submission)
	},
}

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "List submissions (--task for one task, otherwise everything; admin only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := client.ListOptions{Page: submissionPage, PageSize: submissionPageSize}

		var (
			resp *dto.SubmissionListResponse
			err  error
		)
		if submissionTaskID != 0 {
			resp, err = api.ListTaskSubmissions(cmd.Context(), submissionTaskID, opts)
		} else {
			resp, err = api.ListSubmissions(cmd.Context(), opts)
		}
		if err != nil {
			return err
		}

		printSubmissions(resp.Submissions)
		fmt.Printf("page %d/%d, %d submissions\n", resp.Page, resp.TotalPages, resp.TotalCount)
		return nil
	},
}

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your submissions across every visible task",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		submissions, err := api.MySubmissions(cmd.Context())
		if err != nil {
			return err
		}
		printSubmissions(submissions)
		return nil
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review <submission-id> <accepted|rejected>",
	Short: "Review a submission",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		submissionID, err := parseID(args[0], "submission")
		if err != nil {
			return err
		}
		status := models.SubmissionStatus(strings.ToUpper(args[1]))
		submission, err := api.Review(cmd.Context(), submissionID, status)
		if err != nil {
			return err
		}
		return printJSON(submission)
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment <submission-id> <text>",
	Short: "Comment on a submission",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		submissionID, err := parseID(args[0], "submission")
		if err != nil {
			return err
		}
		comment, err := api.AddComment(cmd.Context(), submissionID, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		return printJSON(comment)
	},
}

var commentsCmd = &cobra.Command{
	Use:   "comments <submission-id>",
	Short: "Show a submission's comment thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		submissionID, err := parseID(args[0], "submission")
		if err != nil {
			return err
		}
		comments, err := api.ListComments(cmd.Context(), submissionID)
		if err != nil {
			return err
		}
		for _, c := range comments {
			fmt.Printf("%s  user %d: %s\n", c.CreatedAt.Format(time.RFC3339), c.UserID, c.Comment)
		}
		return nil
	},
}

func printSubmissions(submissions []dto.SubmissionDTO) {
	for _, s := range submissions {
		fmt.Printf("%-6d task %-6d user %-6d %-8s %s %s\n",
			s.ID, s.TaskID, s.UserID, s.Status, s.SubmissionTime.Format(time.RFC3339), s.GitHubLink)
	}
}

func init() {
	submissionsCmd.Flags().Uint64Var(&submissionTaskID, "task", 0, "only this task's submissions")
	submissionsCmd.Flags().IntVar(&submissionPage, "page", 1, "page number")
	submissionsCmd.Flags().IntVar(&submissionPageSize, "page-size", 20, "page size")

	rootCmd.AddCommand(submitCmd, submissionsCmd, mineCmd, reviewCmd, commentCmd, commentsCmd)
}
