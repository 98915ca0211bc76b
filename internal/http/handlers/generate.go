package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"server/internal/domain"
)

// maxUploadBytes bounds the source image for image-to-video requests.
const maxUploadBytes = 16 << 20

type generateImageRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio"`
	ImageCount  int    `json:"image_count"`
}

type generateVideoRequest struct {
	Type        string        `json:"type"`
	Prompt      string        `json:"prompt"`
	AspectRatio string        `json:"aspect_ratio"`
	Dialogue    string        `json:"dialogue"`
	Image       *inlineUpload `json:"image"`
}

type inlineUpload struct {
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
}

type generateResponse struct {
	HistoryID    string                   `json:"history_id"`
	Outputs      []string                 `json:"outputs"`
	FinalPrompt  string                   `json:"final_prompt"`
	Parameters   map[string]any           `json:"parameters"`
	Subscription *domain.UserSubscription `json:"subscription"`
}

// GenerateImage runs a synchronous text-to-image generation.
func (a *App) GenerateImage(w http.ResponseWriter, r *http.Request) {
	claims := a.currentClaims(r)
	if claims == nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req generateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	a.runGeneration(w, r, claims.Sub, domain.GenerationRequest{
		Kind:        domain.KindTextToImage,
		Prompt:      req.Prompt,
		AspectRatio: req.AspectRatio,
		ImageCount:  req.ImageCount,
	})
}

// GenerateVideo runs one of the three video flows. The request is either
// JSON (image inlined as base64) or multipart form data with an "image"
// file part.
func (a *App) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	claims := a.currentClaims(r)
	if claims == nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	var genReq domain.GenerationRequest
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		genReq, err = parseVideoMultipart(r)
	} else {
		genReq, err = parseVideoJSON(r)
	}
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	a.runGeneration(w, r, claims.Sub, genReq)
}

func parseVideoJSON(r *http.Request) (domain.GenerationRequest, error) {
	var req generateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return domain.GenerationRequest{}, errors.New("invalid payload")
	}
	genReq := domain.GenerationRequest{
		Kind:        videoKind(req.Type),
		Prompt:      req.Prompt,
		AspectRatio: req.AspectRatio,
		Dialogue:    req.Dialogue,
	}
	if req.Image != nil && req.Image.Data != "" {
		data, err := base64.StdEncoding.DecodeString(req.Image.Data)
		if err != nil {
			return domain.GenerationRequest{}, errors.New("image data is not valid base64")
		}
		genReq.Image = &domain.InputImage{Data: data, MimeType: req.Image.MimeType}
	}
	return genReq, nil
}

func parseVideoMultipart(r *http.Request) (domain.GenerationRequest, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return domain.GenerationRequest{}, errors.New("invalid multipart payload")
	}
	genReq := domain.GenerationRequest{
		Kind:        videoKind(r.FormValue("type")),
		Prompt:      r.FormValue("prompt"),
		AspectRatio: r.FormValue("aspect_ratio"),
		Dialogue:    r.FormValue("dialogue"),
	}
	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			return domain.GenerationRequest{}, errors.New("failed to read image upload")
		}
		genReq.Image = &domain.InputImage{
			Data:     data,
			MimeType: header.Header.Get("Content-Type"),
		}
	} else if !errors.Is(err, http.ErrMissingFile) {
		return domain.GenerationRequest{}, errors.New("invalid image upload")
	}
	return genReq, nil
}

// videoKind maps the request type field, defaulting to plain text-to-video.
func videoKind(raw string) domain.GenerationKind {
	kind := domain.GenerationKind(strings.TrimSpace(raw))
	if kind == "" {
		return domain.KindTextToVideo
	}
	return kind
}

func (a *App) runGeneration(w http.ResponseWriter, r *http.Request, userID string, req domain.GenerationRequest) {
	if remaining := a.Cooldowns.Remaining(userID, req.Kind); remaining > 0 {
		seconds := int(math.Ceil(remaining.Seconds()))
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
		a.error(w, http.StatusTooManyRequests, "cooldown",
			fmt.Sprintf("Please wait %d seconds before generating again.", seconds))
		return
	}
	// Every attempt starts the cooldown, success or not.
	a.Cooldowns.Touch(userID, req.Kind)

	result, err := a.Lifecycle.Generate(r.Context(), userID, req)
	if err != nil {
		a.generationError(w, err)
		return
	}

	sub, err := a.Subscriptions.Get(r.Context(), userID)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("reload subscription after generation")
		sub = nil
	}
	a.json(w, http.StatusOK, generateResponse{
		HistoryID:    result.HistoryID,
		Outputs:      result.Outputs,
		FinalPrompt:  result.FinalPrompt,
		Parameters:   result.Parameters,
		Subscription: sub,
	})
}

func (a *App) generationError(w http.ResponseWriter, err error) {
	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) {
		a.error(w, http.StatusInternalServerError, "internal", "generation failed")
		return
	}
	status := http.StatusBadGateway
	switch genErr.Kind {
	case domain.ErrKindValidation:
		status = http.StatusUnprocessableEntity
	case domain.ErrKindQuotaExceeded:
		status = http.StatusForbidden
	case domain.ErrKindAuthRequired:
		status = http.StatusUnauthorized
	}
	a.error(w, status, string(genErr.Kind), genErr.Message)
}
