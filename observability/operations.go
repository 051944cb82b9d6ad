package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the tracer name for propman operations
	TracerName = "github.com/willibrandon/propman"
)

// Common attribute keys
const (
	AttrDocumentPath  = attribute.Key("propman.document.path")
	AttrDocumentKind  = attribute.Key("propman.document.kind")
	AttrConfiguration = attribute.Key("propman.configuration")
	AttrSheet         = attribute.Key("propman.sheet")
	AttrField         = attribute.Key("propman.field")
	AttrOperation     = attribute.Key("propman.operation")
	AttrIntent        = attribute.Key("propman.intent")
	AttrOutcome       = attribute.Key("propman.intent.outcome")
)

// StartDocumentSpan starts a span for a load or mutation of an MSBuild document
func StartDocumentSpan(ctx context.Context, kind, operation, path string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "document."+operation,
		trace.WithAttributes(
			AttrDocumentKind.String(kind),
			AttrDocumentPath.String(path),
			AttrOperation.String(operation),
		),
	)
}

// StartIntentSpan starts a span for a controller intent
func StartIntentSpan(ctx context.Context, intent, configuration string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "intent."+intent,
		trace.WithAttributes(
			AttrIntent.String(intent),
			AttrConfiguration.String(configuration),
		),
	)
}

// StartSheetScanSpan starts a span for listing the property sheet directory
func StartSheetScanSpan(ctx context.Context, dir string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "sheets.scan",
		trace.WithAttributes(
			attribute.String("sheets.dir", dir),
		),
	)
}

// RecordIntentOutcome adds an "intent.outcome" event to the current span
func RecordIntentOutcome(ctx context.Context, outcome string) {
	AddEvent(ctx, "intent.outcome", AttrOutcome.String(outcome))
}

// RecordSheetCounts records active/inactive sheet counts on the current span
func RecordSheetCounts(ctx context.Context, active, inactive int) {
	SetAttributes(ctx,
		attribute.Int("sheets.active", active),
		attribute.Int("sheets.inactive", inactive),
	)
}

// EndSpanWithError ends a span with an error status
func EndSpanWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
