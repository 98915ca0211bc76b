package lifecycle

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/image"
	"server/internal/providers/video"
)

// Validation and quota messages shown for requests that never reach the
// provider.
const (
	msgPromptImage = "Please enter a prompt to generate an image."
	msgPromptVideo = "Please enter a prompt to generate a video."
	msgPromptVeo   = "Please enter a prompt to generate a Veo video."
	msgUploadImage = "Please upload an image to generate a video."
	msgSignIn      = "Please sign in to continue."

	msgImageQuota = "You have reached your image generation limit for this plan. Please upgrade to continue."
	msgVideoQuota = "You have reached your video generation limit for this plan. Please upgrade to continue."
)

// Terminal provider-side failures.
const (
	msgPollFailed     = "Failed to get operation status. The process may have been interrupted."
	msgNoDownloadLink = "Video generation failed to produce a valid download link."
	msgNoImage        = "Image generation failed to produce an image."
)

// defaultAnimatePrompt is sent when an image-to-video request arrives with
// an empty prompt.
const defaultAnimatePrompt = "Animate this image."

var aspectRatios = map[string]bool{
	"1:1":  true,
	"16:9": true,
	"9:16": true,
	"4:3":  true,
	"3:4":  true,
}

// BlobStore persists result bytes and returns a URL the client can load.
type BlobStore interface {
	Save(ctx context.Context, key string, data []byte) (string, error)
}

// Options wires a Manager.
type Options struct {
	Images        image.Generator
	Videos        video.JobClient
	Subscriptions domain.SubscriptionStore
	History       domain.HistoryStore
	Blobs         BlobStore
	PollInterval  time.Duration
	PollMaxWait   time.Duration
	Logger        *infra.Logger
}

// Manager drives a generation request through its whole lifecycle: validate,
// check quota, call the provider, poll to completion for videos, persist the
// outputs, and record the attempt in history. It is safe for concurrent use;
// all state lives in the injected stores.
type Manager struct {
	images        image.Generator
	videos        video.JobClient
	subscriptions domain.SubscriptionStore
	history       domain.HistoryStore
	blobs         BlobStore
	pollInterval  time.Duration
	pollMaxWait   time.Duration
	logger        *infra.Logger

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
	newID func() string
}

func NewManager(opts Options) *Manager {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	maxWait := opts.PollMaxWait
	if maxWait <= 0 {
		maxWait = 10 * time.Minute
	}
	logger := opts.Logger
	if logger == nil {
		discard := infra.Logger(zerolog.New(io.Discard))
		logger = &discard
	}
	return &Manager{
		images:        opts.Images,
		videos:        opts.Videos,
		subscriptions: opts.Subscriptions,
		history:       opts.History,
		blobs:         opts.Blobs,
		pollInterval:  interval,
		pollMaxWait:   maxWait,
		logger:        logger,
		sleep:         sleepContext,
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

// Generate runs one request end to end for the given user. On success
// exactly one usage counter increment and one history append have happened;
// on any failure neither has. The returned error is a GenerationError for
// every user-attributable or provider failure.
func (m *Manager) Generate(ctx context.Context, userID string, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	sub, err := m.subscriptions.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNoSubscription) {
			return nil, domain.NewGenerationError(domain.ErrKindAuthRequired, msgSignIn, err)
		}
		return nil, fmt.Errorf("load subscription: %w", err)
	}
	if sub.AtLimit(req.Kind) {
		msg := msgImageQuota
		if req.Kind.IsVideo() {
			msg = msgVideoQuota
		}
		return nil, domain.NewGenerationError(domain.ErrKindQuotaExceeded, msg, nil)
	}

	finalPrompt := resolvePrompt(req)
	ratio := resolveAspectRatio(req)

	var outputs []string
	if req.Kind.IsVideo() {
		outputs, err = m.generateVideo(ctx, req, finalPrompt, ratio)
	} else {
		outputs, err = m.generateImages(ctx, req, finalPrompt, ratio)
	}
	if err != nil {
		m.logger.Warn().
			Err(err).
			Str("user_id", userID).
			Str("kind", string(req.Kind)).
			Msg("generation failed")
		return nil, err
	}

	item := domain.HistoryItem{
		ID:         m.newID(),
		Type:       req.Kind,
		Prompt:     finalPrompt,
		Outputs:    outputs,
		Parameters: buildParameters(req, ratio),
		CreatedAt:  m.now().UTC(),
	}

	if err := m.subscriptions.IncrementUsage(ctx, userID, req.Kind); err != nil {
		return nil, fmt.Errorf("increment usage: %w", err)
	}
	if err := m.history.Append(ctx, userID, item); err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}

	m.logger.Info().
		Str("user_id", userID).
		Str("kind", string(req.Kind)).
		Str("history_id", item.ID).
		Int("outputs", len(outputs)).
		Msg("generation completed")

	return &domain.GenerationResult{
		Outputs:     outputs,
		FinalPrompt: finalPrompt,
		Parameters:  item.Parameters,
		HistoryID:   item.ID,
	}, nil
}

func (m *Manager) generateImages(ctx context.Context, req domain.GenerationRequest, prompt, ratio string) ([]string, error) {
	assets, err := m.images.Generate(ctx, image.Request{
		Prompt:      prompt,
		Count:       clampImageCount(req.ImageCount),
		AspectRatio: ratio,
	})
	if err != nil {
		return nil, classifyProviderError(err)
	}
	if len(assets) == 0 {
		return nil, domain.NewGenerationError(domain.ErrKindProviderPermanent, msgNoImage, nil)
	}
	outputs := make([]string, 0, len(assets))
	for _, asset := range assets {
		mime := asset.MimeType
		if mime == "" {
			mime = "image/jpeg"
		}
		outputs = append(outputs, "data:"+mime+";base64,"+base64.StdEncoding.EncodeToString(asset.Data))
	}
	return outputs, nil
}

func (m *Manager) generateVideo(ctx context.Context, req domain.GenerationRequest, prompt, ratio string) ([]string, error) {
	videoReq := video.Request{Prompt: prompt, AspectRatio: ratio}
	if req.Image != nil {
		videoReq.ImageBytes = req.Image.Data
		videoReq.ImageMimeType = req.Image.MimeType
	}

	job, err := m.videos.Submit(ctx, videoReq)
	if err != nil {
		return nil, classifyProviderError(err)
	}

	deadline := m.now().Add(m.pollMaxWait)
	for !job.Done {
		if m.now().After(deadline) {
			return nil, domain.NewGenerationError(domain.ErrKindPollingInterrupted, msgPollFailed, nil)
		}
		if err := m.sleep(ctx, m.pollInterval); err != nil {
			return nil, domain.NewGenerationError(domain.ErrKindPollingInterrupted, msgPollFailed, err)
		}
		job, err = m.videos.Status(ctx, job)
		if err != nil {
			return nil, domain.NewGenerationError(domain.ErrKindPollingInterrupted, msgPollFailed, err)
		}
	}

	if job.Failure != "" {
		return nil, classifyProviderError(errors.New(job.Failure))
	}
	if job.ResultURI == "" {
		return nil, domain.NewGenerationError(domain.ErrKindProviderPermanent, msgNoDownloadLink, nil)
	}

	blob, _, err := m.videos.Fetch(ctx, job.ResultURI)
	if err != nil {
		var statusErr *video.StatusError
		if errors.As(err, &statusErr) {
			msg := fmt.Sprintf("Failed to download the generated video. Server responded with status: %d", statusErr.Code)
			return nil, domain.NewGenerationError(domain.ErrKindNetworkFailure, msg, err)
		}
		return nil, domain.NewGenerationError(domain.ErrKindNetworkFailure, err.Error(), err)
	}

	url, err := m.blobs.Save(ctx, "videos/"+m.newID()+".mp4", blob)
	if err != nil {
		return nil, fmt.Errorf("store video: %w", err)
	}
	return []string{url}, nil
}

func validateRequest(req domain.GenerationRequest) error {
	if !req.Kind.Valid() {
		return domain.NewGenerationError(domain.ErrKindValidation, fmt.Sprintf("Unknown generation type: %q.", string(req.Kind)), nil)
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" && req.Kind.RequiresPrompt() {
		switch req.Kind {
		case domain.KindTextToImage:
			return domain.NewGenerationError(domain.ErrKindValidation, msgPromptImage, nil)
		case domain.KindVeoVideo:
			return domain.NewGenerationError(domain.ErrKindValidation, msgPromptVeo, nil)
		default:
			return domain.NewGenerationError(domain.ErrKindValidation, msgPromptVideo, nil)
		}
	}
	if req.Kind == domain.KindImageToVideo && (req.Image == nil || len(req.Image.Data) == 0) {
		return domain.NewGenerationError(domain.ErrKindValidation, msgUploadImage, nil)
	}
	if req.AspectRatio != "" && !aspectRatios[req.AspectRatio] {
		return domain.NewGenerationError(domain.ErrKindValidation, fmt.Sprintf("Unsupported aspect ratio: %q.", req.AspectRatio), nil)
	}
	return nil
}

// resolvePrompt computes the prompt actually sent to the provider.
func resolvePrompt(req domain.GenerationRequest) string {
	prompt := strings.TrimSpace(req.Prompt)
	switch req.Kind {
	case domain.KindImageToVideo:
		if prompt == "" {
			return defaultAnimatePrompt
		}
	case domain.KindVeoVideo:
		if dialogue := strings.TrimSpace(req.Dialogue); dialogue != "" {
			return prompt + "\n\nAudio description: " + dialogue
		}
	}
	return prompt
}

func resolveAspectRatio(req domain.GenerationRequest) string {
	if req.AspectRatio != "" {
		return req.AspectRatio
	}
	if req.Kind.IsVideo() {
		return "16:9"
	}
	return "1:1"
}

func buildParameters(req domain.GenerationRequest, ratio string) map[string]any {
	params := map[string]any{"aspectRatio": ratio}
	switch req.Kind {
	case domain.KindTextToImage:
		params["numberOfImages"] = clampImageCount(req.ImageCount)
	case domain.KindImageToVideo:
		if req.Image != nil {
			params["sourceMimeType"] = req.Image.MimeType
		}
	case domain.KindVeoVideo:
		if dialogue := strings.TrimSpace(req.Dialogue); dialogue != "" {
			params["dialogue"] = dialogue
		}
	}
	return params
}

func clampImageCount(count int) int {
	if count <= 0 {
		return 1
	}
	if count > 4 {
		return 4
	}
	return count
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
