// Package postprocessors turns extracted documents into index-ready chunks
// by running a configurable chain of processors.
package postprocessors

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/core/ports/driven"
	"github.com/custodia-labs/yonerge/internal/logger"
)

const tracerName = "github.com/custodia-labs/yonerge/internal/postprocessors"

var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline runs chunking stages in order. The first stage receives no chunks
// and creates them from the document pages; later stages refine them.
type Pipeline struct {
	processors []driven.PostProcessor
}

// NewPipeline creates a pipeline running processors in the given order.
func NewPipeline(processors ...driven.PostProcessor) *Pipeline {
	return &Pipeline{processors: processors}
}

// BuildPipeline assembles the stages listed in cfg using r.
func BuildPipeline(r *Registry, cfg domain.PipelineConfig) (*Pipeline, error) {
	if len(cfg.Processors) == 0 {
		return nil, fmt.Errorf("chunking pipeline has no stages")
	}
	p := NewPipeline()
	for _, name := range cfg.Processors {
		stage, err := r.Build(name, cfg.GetProcessorConfig(name))
		if err != nil {
			return nil, err
		}
		p.Add(stage)
	}
	logger.Debug("chunking pipeline: %v", p.Names())
	return p, nil
}

// Process chunks doc. An empty pipeline yields no chunks.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "chunk")
	defer span.End()
	span.SetAttributes(
		attribute.String("yonerge.document", doc.Name),
		attribute.Int("yonerge.pages", len(doc.Pages)),
	)

	var chunks []domain.Chunk
	for _, stage := range p.processors {
		var err error
		chunks, err = stage.Process(ctx, doc, chunks)
		if err != nil {
			return nil, fmt.Errorf("%s stage: %w", stage.Name(), err)
		}
		span.SetAttributes(attribute.Int("yonerge.chunks."+stage.Name(), len(chunks)))
	}
	return chunks, nil
}

// Add appends a stage.
func (p *Pipeline) Add(processor driven.PostProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of stages.
func (p *Pipeline) Len() int {
	return len(p.processors)
}

// Names returns the stage names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.processors))
	for i, proc := range p.processors {
		names[i] = proc.Name()
	}
	return names
}
