package emit

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTestTracer(t *testing.T) (*tracetest.InMemoryExporter, trace.Tracer) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})
	return exporter, tp.Tracer("test")
}

func attrValue(attrs []attribute.KeyValue, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range attrs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

// TestOTelEmitter_SpanPerEvent verifies each event becomes one span named
// after the event message, carrying the standard attributes.
func TestOTelEmitter_SpanPerEvent(t *testing.T) {
	exporter, tracer := newTestTracer(t)
	emitter := NewOTelEmitter(tracer)

	emitter.Emit(Event{
		SessionID: "sess-001",
		Stage:     "initial",
		AgentID:   "gpt",
		Msg:       MsgAgentResult,
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	span := spans[0]
	if span.Name != MsgAgentResult {
		t.Errorf("span name = %q, want %q", span.Name, MsgAgentResult)
	}

	tests := []struct {
		key  attribute.Key
		want string
	}{
		{"consensus.session_id", "sess-001"},
		{"consensus.stage", "initial"},
		{"consensus.agent_id", "gpt"},
	}
	for _, tt := range tests {
		val, ok := attrValue(span.Attributes, tt.key)
		if !ok {
			t.Errorf("missing attribute %s", tt.key)
			continue
		}
		if val.AsString() != tt.want {
			t.Errorf("attribute %s = %q, want %q", tt.key, val.AsString(), tt.want)
		}
	}
}

// TestOTelEmitter_MetadataConversion verifies metadata types convert to
// typed attributes and the well-known keys are remapped.
func TestOTelEmitter_MetadataConversion(t *testing.T) {
	exporter, tracer := newTestTracer(t)
	emitter := NewOTelEmitter(tracer)

	emitter.Emit(Event{
		SessionID: "sess-001",
		Msg:       MsgAgentResult,
		Meta: map[string]interface{}{
			"status":      "ok",
			"duration_ms": int64(1250),
			"valid":       3,
			"ratio":       0.5,
			"degraded":    false,
			"elapsed":     1500 * time.Millisecond,
		},
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	attrs := spans[0].Attributes

	if val, ok := attrValue(attrs, "consensus.call.status"); !ok || val.AsString() != "ok" {
		t.Errorf("consensus.call.status = %v, want ok", val)
	}
	if val, ok := attrValue(attrs, "consensus.call.duration_ms"); !ok || val.AsInt64() != 1250 {
		t.Errorf("consensus.call.duration_ms = %v, want 1250", val)
	}
	if val, ok := attrValue(attrs, "valid"); !ok || val.AsInt64() != 3 {
		t.Errorf("valid = %v, want 3", val)
	}
	if val, ok := attrValue(attrs, "ratio"); !ok || val.AsFloat64() != 0.5 {
		t.Errorf("ratio = %v, want 0.5", val)
	}
	if val, ok := attrValue(attrs, "degraded"); !ok || val.AsBool() != false {
		t.Errorf("degraded = %v, want false", val)
	}
	if val, ok := attrValue(attrs, "elapsed"); !ok || val.AsInt64() != 1500 {
		t.Errorf("elapsed = %v, want 1500", val)
	}
}

// TestOTelEmitter_ErrorStatus verifies an error in the metadata marks the
// span with error status and a recorded error event.
func TestOTelEmitter_ErrorStatus(t *testing.T) {
	exporter, tracer := newTestTracer(t)
	emitter := NewOTelEmitter(tracer)

	emitter.Emit(Event{
		SessionID: "sess-001",
		Msg:       MsgSessionEnd,
		Meta: map[string]interface{}{
			"status": "failed",
			"error":  "openai: too many requests (rate_limited)",
		},
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	span := spans[0]
	if span.Status.Code != codes.Error {
		t.Errorf("status code = %v, want Error", span.Status.Code)
	}
	if span.Status.Description != "openai: too many requests (rate_limited)" {
		t.Errorf("status description = %q", span.Status.Description)
	}
	if len(span.Events) == 0 {
		t.Error("no recorded error event on span")
	}
}

// TestOTelEmitter_Flush verifies Flush succeeds when the global provider
// has no ForceFlush.
func TestOTelEmitter_Flush(t *testing.T) {
	_, tracer := newTestTracer(t)
	emitter := NewOTelEmitter(tracer)

	if err := emitter.Flush(context.Background()); err != nil {
		t.Errorf("Flush: %v", err)
	}
}
