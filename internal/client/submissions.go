package client

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"github.com/yukikurage/task-review-api/internal/constants"
	"github.com/yukikurage/task-review-api/internal/dto"
	"github.com/yukikurage/task-review-api/internal/models"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches bounds the per-task requests MySubmissions keeps in flight
const maxConcurrentFetches = 4

// Submit sends a worker's link for a task
func (c *Client) Submit(ctx context.Context, taskID uint64, link string) (*dto.SubmissionDTO, error) {
	return c.submissionCall(ctx, request{
		method: http.MethodPost,
		path:   idPath("/api/tasks/%d/submissions", taskID),
		body:   dto.SubmitRequest{GitHubLink: link},
	})
}

// GetSubmission fetches one submission
func (c *Client) GetSubmission(ctx context.Context, submissionID uint64) (*dto.SubmissionDTO, error) {
	return c.submissionCall(ctx, request{method: http.MethodGet, path: idPath("/api/submissions/%d", submissionID)})
}

// Review records ACCEPTED or REJECTED on a submission (admin only)
func (c *Client) Review(ctx context.Context, submissionID uint64, status models.SubmissionStatus) (*dto.SubmissionDTO, error) {
	return c.submissionCall(ctx, request{
		method: http.MethodPost,
		path:   idPath("/api/submissions/%d/review", submissionID),
		body:   dto.ReviewRequest{Status: status},
	})
}

// ListTaskSubmissions lists a task's submissions newest first
func (c *Client) ListTaskSubmissions(ctx context.Context, taskID uint64, opts ListOptions) (*dto.SubmissionListResponse, error) {
	return c.submissionList(ctx, idPath("/api/tasks/%d/submissions", taskID), opts)
}

// ListSubmissions lists every submission (admin only)
func (c *Client) ListSubmissions(ctx context.Context, opts ListOptions) (*dto.SubmissionListResponse, error) {
	return c.submissionList(ctx, "/api/submissions", opts)
}

// AddComment appends to a submission's thread
func (c *Client) AddComment(ctx context.Context, submissionID uint64, text string) (*dto.CommentDTO, error) {
	var comment dto.CommentDTO
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   idPath("/api/submissions/%d/comments", submissionID),
		body:   dto.AddCommentRequest{Comment: text},
	}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments returns a submission's thread oldest first
func (c *Client) ListComments(ctx context.Context, submissionID uint64) ([]dto.CommentDTO, error) {
	var resp dto.CommentListResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath("/api/submissions/%d/comments", submissionID)}, &resp); err != nil {
		return nil, err
	}
	return resp.Comments, nil
}

// MySubmissions collects the caller's submissions across every visible task,
// newest first. Any failed fetch fails the whole call.
func (c *Client) MySubmissions(ctx context.Context) ([]dto.SubmissionDTO, error) {
	tasks, err := c.allVisibleTasks(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu  sync.Mutex
		all []dto.SubmissionDTO
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for _, task := range tasks {
		taskID := task.ID
		g.Go(func() error {
			submissions, err := c.allTaskSubmissions(gctx, taskID)
			if err != nil {
				return err
			}
			mu.Lock()
			all = append(all, submissions...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].SubmissionTime.Equal(all[j].SubmissionTime) {
			return all[i].SubmissionTime.After(all[j].SubmissionTime)
		}
		return all[i].ID > all[j].ID
	})

	return all, nil
}

func (c *Client) allVisibleTasks(ctx context.Context) ([]dto.TaskDTO, error) {
	var tasks []dto.TaskDTO
	for page := 1; ; page++ {
		resp, err := c.ListVisibleTasks(ctx, ListOptions{Page: page, PageSize: constants.MaxPageSize})
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, resp.Tasks...)
		if page >= resp.TotalPages {
			return tasks, nil
		}
	}
}

func (c *Client) allTaskSubmissions(ctx context.Context, taskID uint64) ([]dto.SubmissionDTO, error) {
	var submissions []dto.SubmissionDTO
	for page := 1; ; page++ {
		resp, err := c.ListTaskSubmissions(ctx, taskID, ListOptions{Page: page, PageSize: constants.MaxPageSize})
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, resp.Submissions...)
		if page >= resp.TotalPages {
			return submissions, nil
		}
	}
}

func (c *Client) submissionCall(ctx context.Context, req request) (*dto.SubmissionDTO, error) {
	var submission dto.SubmissionDTO
	if err := c.do(ctx, req, &submission); err != nil {
		return nil, err
	}
	return &submission, nil
}

func (c *Client) submissionList(ctx context.Context, path string, opts ListOptions) (*dto.SubmissionListResponse, error) {
	var resp dto.SubmissionListResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: path, query: opts.values()}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
