package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/infra"
)

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	ImageModel string
	VideoModel string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client is a lightweight facade over the Gemini REST surface. Image
// generation (Imagen) is a single synchronous predict call; video generation
// (Veo) starts a long-running operation that callers poll and whose result
// is downloaded separately with the API key as the access credential.
type Client struct {
	apiKey     string
	baseURL    string
	imageModel string
	videoModel string
	httpClient *http.Client
	logger     *infra.Logger
}

// ImageRequest describes one synchronous image generation call.
type ImageRequest struct {
	Prompt      string
	Count       int
	AspectRatio string
}

// ImageAsset is one generated image, returned inline.
type ImageAsset struct {
	Data     []byte
	MimeType string
}

// DataURL encodes the asset as an inline data URL suitable for display.
func (a ImageAsset) DataURL() string {
	mime := a.MimeType
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// VideoRequest describes one long-running video generation submission.
type VideoRequest struct {
	Prompt         string
	ImageBytes     []byte
	ImageMimeType  string
	AspectRatio    string
	NumberOfVideos int
}

// Operation is the job handle for an in-flight video generation. Once Done
// is true it carries either Error or a result URI.
type Operation struct {
	Name     string
	Done     bool
	Error    string
	VideoURI string
}

// StatusError reports a non-success HTTP status from a result download.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters *predictParams    `json:"parameters,omitempty"`
}

type predictInstance struct {
	Prompt string       `json:"prompt"`
	Image  *inlineImage `json:"image,omitempty"`
}

type inlineImage struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType,omitempty"`
}

type predictParams struct {
	SampleCount    int    `json:"sampleCount,omitempty"`
	AspectRatio    string `json:"aspectRatio,omitempty"`
	OutputMimeType string `json:"outputMimeType,omitempty"`
	NumberOfVideos int    `json:"numberOfVideos,omitempty"`
}

type predictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
}

type operationResponse struct {
	Name  string `json:"name"`
	Done  bool   `json:"done"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Response *struct {
		GenerateVideoResponse *struct {
			GeneratedSamples []videoSample `json:"generatedSamples"`
			GeneratedVideos  []videoSample `json:"generatedVideos"`
		} `json:"generateVideoResponse"`
	} `json:"response"`
}

type videoSample struct {
	Video struct {
		URI string `json:"uri"`
	} `json:"video"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// NewClient constructs a Gemini client with sane defaults. Callers may
// provide a nil HTTP client; a reusable one with sensible timeouts will be
// created.
func NewClient(opts Options) (*Client, error) {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	imageModel := opts.ImageModel
	if imageModel == "" {
		imageModel = "imagen-4.0-generate-001"
	}
	videoModel := opts.VideoModel
	if videoModel == "" {
		videoModel = "veo-2.0-generate-001"
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		imageModel: imageModel,
		videoModel: videoModel,
		httpClient: client,
		logger:     logger,
	}, nil
}

// GenerateImages runs one synchronous Imagen predict call and returns the
// inline image bytes. There is no polling phase for images.
func (c *Client) GenerateImages(ctx context.Context, req ImageRequest) ([]ImageAsset, error) {
	count := clampCount(req.Count)
	payload := predictRequest{
		Instances: []predictInstance{{Prompt: req.Prompt}},
		Parameters: &predictParams{
			SampleCount:    count,
			AspectRatio:    req.AspectRatio,
			OutputMimeType: "image/jpeg",
		},
	}

	var response predictResponse
	path := fmt.Sprintf("/models/%s:predict", url.PathEscape(c.imageModel))
	if err := c.invoke(ctx, path, payload, &response); err != nil {
		return nil, err
	}

	assets := make([]ImageAsset, 0, len(response.Predictions))
	for _, pred := range response.Predictions {
		if pred.BytesBase64Encoded == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(pred.BytesBase64Encoded)
		if err != nil {
			return nil, fmt.Errorf("decode image bytes: %w", err)
		}
		mime := pred.MimeType
		if mime == "" {
			mime = "image/jpeg"
		}
		assets = append(assets, ImageAsset{Data: data, MimeType: mime})
	}

	c.logger.Debug().
		Str("model", c.imageModel).
		Int("count", len(assets)).
		Msg("genai: generated image assets")

	return assets, nil
}

// StartVideo submits a long-running Veo generation and returns the initial
// operation handle without waiting for completion.
func (c *Client) StartVideo(ctx context.Context, req VideoRequest) (*Operation, error) {
	instance := predictInstance{Prompt: req.Prompt}
	if len(req.ImageBytes) > 0 {
		instance.Image = &inlineImage{
			BytesBase64Encoded: base64.StdEncoding.EncodeToString(req.ImageBytes),
			MimeType:           req.ImageMimeType,
		}
	}
	videos := req.NumberOfVideos
	if videos <= 0 {
		videos = 1
	}
	payload := predictRequest{
		Instances: []predictInstance{instance},
		Parameters: &predictParams{
			NumberOfVideos: videos,
			AspectRatio:    req.AspectRatio,
		},
	}

	var response operationResponse
	path := fmt.Sprintf("/models/%s:predictLongRunning", url.PathEscape(c.videoModel))
	if err := c.invoke(ctx, path, payload, &response); err != nil {
		return nil, err
	}
	if response.Name == "" {
		return nil, fmt.Errorf("no operation name returned")
	}

	c.logger.Debug().
		Str("model", c.videoModel).
		Str("operation", response.Name).
		Msg("genai: started video operation")

	return operationFromResponse(&response), nil
}

// GetOperation fetches the current state of a video operation.
func (c *Client) GetOperation(ctx context.Context, op *Operation) (*Operation, error) {
	if op == nil || op.Name == "" {
		return nil, fmt.Errorf("operation name is required")
	}
	endpoint := c.baseURL + "/" + strings.TrimLeft(op.Name, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get operation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.decodeAPIError(resp)
	}

	var response operationResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode operation: %w", err)
	}
	if response.Name == "" {
		response.Name = op.Name
	}
	return operationFromResponse(&response), nil
}

// FetchVideo downloads the generated video bytes from the result URI,
// appending the API key as the access credential. A non-success status is
// reported as a StatusError.
func (c *Client) FetchVideo(ctx context.Context, uri string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create download request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, "", &StatusError{Code: resp.StatusCode}
	}

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read video: %w", err)
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = "video/mp4"
	}
	return blob, mime, nil
}

func (c *Client) invoke(ctx context.Context, path string, payload any, out any) error {
	endpoint := c.baseURL + path
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey == "" {
		return
	}
	q := req.URL.Query()
	q.Set("key", c.apiKey)
	req.URL.RawQuery = q.Encode()
}

// decodeAPIError surfaces the provider's own message verbatim so that
// downstream classification can match on it.
func (c *Client) decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)
	var apiErr geminiErrorResponse
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("gemini status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}
	if len(data) > 0 {
		return fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return fmt.Errorf("gemini status %d", resp.StatusCode)
}

func operationFromResponse(response *operationResponse) *Operation {
	op := &Operation{Name: response.Name, Done: response.Done}
	if response.Error != nil {
		op.Error = response.Error.Message
	}
	if response.Response != nil && response.Response.GenerateVideoResponse != nil {
		samples := response.Response.GenerateVideoResponse.GeneratedSamples
		if len(samples) == 0 {
			samples = response.Response.GenerateVideoResponse.GeneratedVideos
		}
		if len(samples) > 0 {
			op.VideoURI = samples[0].Video.URI
		}
	}
	return op
}

func clampCount(count int) int {
	if count <= 0 {
		return 1
	}
	if count > 4 {
		return 4
	}
	return count
}
