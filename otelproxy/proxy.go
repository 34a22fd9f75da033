// Package otelproxy provides an fsm.ActionProxy that traces every action with OpenTelemetry.
package otelproxy

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/enetx/fsm/v2"
)

// SpanName is the name of the span started around each action.
const SpanName = "fsm.action"

// New returns a proxy starting one span per action invocation. The span is a
// child of the span carried by the submission's context, if any. When next is
// non-nil the action is handed to it instead of being called directly, so proxies
// can be chained.
func New[S, E comparable](tracer trace.Tracer, next fsm.ActionProxy[S, E]) fsm.ActionProxy[S, E] {
	return func(ctx *fsm.ActionContext[S, E], action fsm.Action[S, E]) error {
		_, span := tracer.Start(ctx.Ctx(), SpanName,
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(
				attribute.Int64("fsm.instance", int64(ctx.InstanceID())),
				attribute.String("fsm.from", fmt.Sprint(ctx.From())),
				attribute.String("fsm.to", fmt.Sprint(ctx.To())),
				attribute.String("fsm.event", fmt.Sprint(ctx.Event())),
			),
		)
		defer span.End()

		var err error
		if next != nil {
			err = next(ctx, action)
		} else {
			err = action(ctx)
		}

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		return err
	}
}
