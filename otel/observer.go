// Package otel provides OpenTelemetry integration for salescast: metrics
// and spans around protocol dispatches and resilient remote calls, plus an
// OTLP trace provider bootstrap.
package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/petal-labs/salescast/tool"
)

// CallObserver records dispatch and caller signals into OpenTelemetry.
type CallObserver struct {
	tracer trace.Tracer

	dispatches metric.Int64Counter
	calls      metric.Int64Counter
	fallbacks  metric.Int64Counter
	latency    metric.Float64Histogram
}

// NewCallObserver creates an observer bound to the provided meter/tracer.
func NewCallObserver(meter metric.Meter, tracer trace.Tracer) (*CallObserver, error) {
	dispatches, err := meter.Int64Counter(
		"salescast.dispatch.count",
		metric.WithDescription("Number of protocol dispatches"),
	)
	if err != nil {
		return nil, err
	}
	calls, err := meter.Int64Counter(
		"salescast.caller.calls",
		metric.WithDescription("Number of resilient remote calls"),
	)
	if err != nil {
		return nil, err
	}
	fallbacks, err := meter.Int64Counter(
		"salescast.caller.fallbacks",
		metric.WithDescription("Number of calls answered from the fallback dataset"),
	)
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram(
		"salescast.call.latency",
		metric.WithDescription("Dispatch and remote call latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &CallObserver{
		tracer:     tracer,
		dispatches: dispatches,
		calls:      calls,
		fallbacks:  fallbacks,
		latency:    latency,
	}, nil
}

// ObserveDispatch records one server-side dispatch outcome.
func (o *CallObserver) ObserveDispatch(obs tool.DispatchObservation) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("operation", obs.Operation),
		attribute.Bool("success", obs.Success),
	}
	if obs.ErrorCode != "" {
		attrs = append(attrs, attribute.String("error_code", obs.ErrorCode))
	}

	ctx := context.Background()
	options := metric.WithAttributes(attrs...)
	o.dispatches.Add(ctx, 1, options)
	o.latency.Record(ctx, seconds(obs.DurationMS), options)

	if o.tracer == nil {
		return
	}
	_, span := o.tracer.Start(ctx, "tool.dispatch", trace.WithAttributes(attrs...))
	if !obs.Success {
		span.SetStatus(codes.Error, obs.ErrorCode)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// ObserveCall records one caller-side exchange, including provenance of the
// result the caller returned.
func (o *CallObserver) ObserveCall(obs tool.CallObservation) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("specialist", obs.Specialist),
		attribute.String("operation", obs.Operation),
		attribute.String("source", obs.Source),
	}
	if obs.ErrorCode != "" {
		attrs = append(attrs, attribute.String("error_code", obs.ErrorCode))
	}

	ctx := context.Background()
	options := metric.WithAttributes(attrs...)
	o.calls.Add(ctx, 1, options)
	o.latency.Record(ctx, seconds(obs.DurationMS), options)
	if obs.Source != "live" {
		o.fallbacks.Add(ctx, 1, options)
	}

	if o.tracer == nil {
		return
	}
	_, span := o.tracer.Start(ctx, "caller.call", trace.WithAttributes(attrs...))
	if obs.ErrorCode != "" {
		span.SetStatus(codes.Error, obs.ErrorCode)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func seconds(durationMS int64) float64 {
	return float64(time.Duration(durationMS)*time.Millisecond) / float64(time.Second)
}

var _ tool.Observer = (*CallObserver)(nil)
