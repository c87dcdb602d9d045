// Tracing instrumentation for round execution.
package rounds

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies this instrumentation scope.
const tracerName = "stockwars/rounds"

// startRoundSpan starts a span for a trade or news round.
func startRoundSpan(ctx context.Context, kind, agentID string) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "round."+kind)
	span.SetAttributes(
		attribute.String("round.kind", kind),
		attribute.String("round.agent", agentID),
	)
	return ctx, span
}

// endRoundSpan ends the round span with outcome info.
func endRoundSpan(span trace.Span, model string, fellBack bool, err error) {
	span.SetAttributes(
		attribute.String("round.model", model),
		attribute.Bool("round.fallback", fellBack),
	)
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}
