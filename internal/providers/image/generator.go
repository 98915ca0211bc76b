package image

import (
	"context"

	"server/internal/providers/genai"
)

// Asset is one generated image ready for persistence.
type Asset struct {
	Data     []byte
	MimeType string
}

// Request carries the normalized inputs for one image generation.
type Request struct {
	Prompt      string
	Count       int
	AspectRatio string
}

// Generator produces images synchronously. Implementations return the
// provider error unwrapped so callers can classify it.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]Asset, error)
}

// GeminiGenerator is the Imagen-backed Generator.
type GeminiGenerator struct {
	client *genai.Client
}

func NewGeminiGenerator(client *genai.Client) *GeminiGenerator {
	return &GeminiGenerator{client: client}
}

func (g *GeminiGenerator) Generate(ctx context.Context, req Request) ([]Asset, error) {
	raw, err := g.client.GenerateImages(ctx, genai.ImageRequest{
		Prompt:      req.Prompt,
		Count:       req.Count,
		AspectRatio: req.AspectRatio,
	})
	if err != nil {
		return nil, err
	}
	assets := make([]Asset, 0, len(raw))
	for _, a := range raw {
		assets = append(assets, Asset{Data: a.Data, MimeType: a.MimeType})
	}
	return assets, nil
}
