package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewAddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "debug")

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background()) // nolint:errcheck

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	logger.InfoContext(ctx, "inside span")
	span.End()

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	if rec["trace_id"] != span.SpanContext().TraceID().String() {
		t.Fatalf("expected trace_id %s, got %v", span.SpanContext().TraceID(), rec["trace_id"])
	}
	if rec["span_id"] == nil {
		t.Fatalf("expected span_id in %v", rec)
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "loud")

	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be filtered, got %s", buf.String())
	}
	logger.Info("shown")
	if buf.Len() == 0 {
		t.Fatalf("expected info line")
	}
}
