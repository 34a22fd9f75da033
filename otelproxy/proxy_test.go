package otelproxy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/goleak"

	"github.com/enetx/fsm/v2"
	"github.com/enetx/fsm/v2/otelproxy"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTracer(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	return sr, tp
}

func TestProxy_SpanPerAction(t *testing.T) {
	sr, tp := newTracer(t)
	errFail := errors.New("fail")

	b := fsm.NewBuilder[string, string]()
	b.When("a").On("go").TransitionTo("b").
		Execute(func(*fsm.ActionContext[string, string]) error { return nil })
	b.When("b").On("go").TransitionTo("c").
		Execute(func(*fsm.ActionContext[string, string]) error { return errFail })
	b.SetActionProxy(otelproxy.New[string, string](tp.Tracer("fsm-test"), nil))

	m := b.Build("a")

	_, err := m.FireEventBlocking("go")
	require.NoError(t, err)

	_, err = m.FireEventBlocking("go")
	require.ErrorIs(t, err, errFail)

	spans := sr.Ended()
	require.Len(t, spans, 2)

	for _, span := range spans {
		assert.Equal(t, otelproxy.SpanName, span.Name())
	}

	assert.Contains(t, spans[0].Attributes(), attribute.String("fsm.from", "a"))
	assert.Contains(t, spans[0].Attributes(), attribute.String("fsm.to", "b"))
	assert.Contains(t, spans[0].Attributes(), attribute.String("fsm.event", "go"))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestProxy_ParentFromSubmission(t *testing.T) {
	sr, tp := newTracer(t)
	tracer := tp.Tracer("fsm-test")

	b := fsm.NewBuilder[string, string]()
	b.When("a").On("go").TransitionTo("b").
		Execute(func(*fsm.ActionContext[string, string]) error { return nil })
	b.SetActionProxy(otelproxy.New[string, string](tracer, nil))

	ctx, parent := tracer.Start(context.Background(), "request")
	_, err := b.Build("a").FireEventContext(ctx, "go").Wait()
	parent.End()
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestProxy_ChainsInnerProxy(t *testing.T) {
	sr, tp := newTracer(t)
	var ran bool

	suppress := func(*fsm.ActionContext[string, string], fsm.Action[string, string]) error { return nil }

	b := fsm.NewBuilder[string, string]()
	b.When("a").On("go").TransitionTo("b").
		Execute(func(*fsm.ActionContext[string, string]) error {
			ran = true
			return nil
		})
	b.SetActionProxy(otelproxy.New[string, string](tp.Tracer("fsm-test"), suppress))

	s, err := b.Build("a").FireEventBlocking("go")
	require.NoError(t, err)
	assert.Equal(t, "b", s)
	assert.False(t, ran)
	assert.Len(t, sr.Ended(), 1)
}
