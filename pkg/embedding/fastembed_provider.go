package embedding

import (
	"context"
	"fmt"

	fastembed "github.com/anush008/fastembed-go"
)

// FastEmbedProvider runs the all-MiniLM-L6-v2 ONNX model in process via
// fastembed. No network dependency; the model is downloaded into cacheDir on
// first use. Vectors come out of the model already L2 normalized.
type FastEmbedProvider struct {
	model *fastembed.FlagEmbedding
	dim   int
}

func NewFastEmbedProvider(cacheDir string, dimension int) (*FastEmbedProvider, error) {
	model, err := fastembed.NewFlagEmbedding(&fastembed.InitOptions{
		Model:    fastembed.AllMiniLML6V2,
		CacheDir: cacheDir,
	})
	if err != nil {
		return nil, fmt.Errorf("init fastembed model: %w", err)
	}
	return &FastEmbedProvider{
		model: model,
		dim:   dimension,
	}, nil
}

func (p *FastEmbedProvider) Dim() int { return p.dim }

func (p *FastEmbedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	// All fragments are embedded as passages so comparisons stay symmetric.
	vectors, err := p.model.PassageEmbed([]string{text}, 1)
	if err != nil {
		return nil, fmt.Errorf("passage embed: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("passage embed returned no vector")
	}
	return vectors[0], nil
}

func (p *FastEmbedProvider) Close() error {
	if p.model != nil {
		p.model.Destroy()
	}
	return nil
}
