package uploads

import (
	"context"

	"github.com/portfolio-site/portfolio-backend/internal/common"
)

// Destination is one storage strategy in the fallback chain. Store persists
// the object and returns its public URL, or an error that sends the
// pipeline on to the next destination.
type Destination interface {
	Name() string
	Store(ctx context.Context, obj *Object) (string, error)
}

// Pipeline runs an upload through its ordered destination chain. The first
// destination is the primary provider; its error is the root cause reported
// when every tier fails, so operators see why the primary rejected the
// upload rather than the last fallback's symptom.
type Pipeline struct {
	destinations []Destination
	log          *common.Logger
}

func NewPipeline(log *common.Logger, destinations ...Destination) *Pipeline {
	return &Pipeline{destinations: destinations, log: log}
}

// Upload validates the payload and walks the destination chain until one
// succeeds. No storage I/O happens before validation passes.
func (p *Pipeline) Upload(ctx context.Context, folder, originalName, contentType string, data []byte) (*Result, error) {
	if err := Validate(folder, contentType, int64(len(data))); err != nil {
		return nil, err
	}

	obj := &Object{
		Key:          GenerateKey(originalName),
		Folder:       folder,
		ContentType:  contentType,
		OriginalName: originalName,
		Bytes:        data,
	}

	var rootCause error
	for _, d := range p.destinations {
		url, err := d.Store(ctx, obj)
		if err == nil {
			p.log.Info().
				Str("destination", d.Name()).
				Str("folder", folder).
				Str("key", obj.Key).
				Str("url", url).
				Msg("upload stored")
			return &Result{
				URL:  url,
				Name: originalName,
				Type: contentType,
				Size: int64(len(data)),
			}, nil
		}

		p.log.Error().
			Err(err).
			Str("destination", d.Name()).
			Str("folder", folder).
			Str("key", obj.Key).
			Msg("destination failed, trying next tier")

		if rootCause == nil {
			rootCause = err
		}
	}

	if rootCause == nil {
		rootCause = ErrStorageExhausted
	}
	p.log.Error().Err(rootCause).Str("key", obj.Key).Msg("all storage destinations exhausted")
	return nil, exhausted(rootCause)
}
