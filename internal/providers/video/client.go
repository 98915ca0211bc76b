package video

import (
	"context"

	"server/internal/providers/genai"
)

// StatusError is the non-success download status reported by Fetch.
type StatusError = genai.StatusError

// Job is the handle for one in-flight video generation.
type Job struct {
	ID        string
	Done      bool
	Failure   string
	ResultURI string
}

// Request carries the normalized inputs for one video generation.
type Request struct {
	Prompt        string
	ImageBytes    []byte
	ImageMimeType string
	AspectRatio   string
}

// JobClient runs the asynchronous video generation protocol. Submit starts
// the job, Status reports its current state, and Fetch downloads the result
// bytes once a job completes with a result URI.
type JobClient interface {
	Submit(ctx context.Context, req Request) (Job, error)
	Status(ctx context.Context, job Job) (Job, error)
	Fetch(ctx context.Context, uri string) ([]byte, string, error)
}

// GeminiJobClient is the Veo-backed JobClient.
type GeminiJobClient struct {
	client *genai.Client
}

func NewGeminiJobClient(client *genai.Client) *GeminiJobClient {
	return &GeminiJobClient{client: client}
}

func (c *GeminiJobClient) Submit(ctx context.Context, req Request) (Job, error) {
	op, err := c.client.StartVideo(ctx, genai.VideoRequest{
		Prompt:        req.Prompt,
		ImageBytes:    req.ImageBytes,
		ImageMimeType: req.ImageMimeType,
		AspectRatio:   req.AspectRatio,
	})
	if err != nil {
		return Job{}, err
	}
	return jobFromOperation(op), nil
}

func (c *GeminiJobClient) Status(ctx context.Context, job Job) (Job, error) {
	op, err := c.client.GetOperation(ctx, &genai.Operation{Name: job.ID})
	if err != nil {
		return Job{}, err
	}
	return jobFromOperation(op), nil
}

func (c *GeminiJobClient) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	return c.client.FetchVideo(ctx, uri)
}

func jobFromOperation(op *genai.Operation) Job {
	return Job{
		ID:        op.Name,
		Done:      op.Done,
		Failure:   op.Error,
		ResultURI: op.VideoURI,
	}
}
