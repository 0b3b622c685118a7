package usecase

import (
	"context"

	"github.com/riskibarqy/hockey-analytics/internal/domain/entity"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("hockey-analytics/internal/usecase")

// startUsecaseSpan only opens a child span; without a traced parent the
// context is returned with a no-op span.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if name == "" || !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func entityAttrs(e entity.Entity) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("hockey.entity.kind", string(e.Kind)),
		attribute.String("hockey.entity.label", e.Label()),
	}
}
