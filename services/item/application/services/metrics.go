package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	itemdomain "github.com/ghuser/itemstore/services/item/domain"
)

const instrumentationName = "github.com/ghuser/itemstore/services/item"

// Outcome label values of item_operations_total.
const (
	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeInvalid  = "invalid"
	outcomeError    = "error"
)

type instruments struct {
	tracer trace.Tracer
	ops    metric.Int64Counter
}

func newInstruments() instruments {
	ops, err := otel.Meter(instrumentationName).Int64Counter("item_operations_total",
		metric.WithDescription("Item service operations by operation and outcome."),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		otel.Handle(err)
	}
	return instruments{
		tracer: otel.Tracer(instrumentationName),
		ops:    ops,
	}
}

// start opens a span for op. The returned func ends it and counts the outcome of *errp.
func (in instruments) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(errp *error)) {
	ctx, span := in.tracer.Start(ctx, "ItemService."+op, trace.WithAttributes(attrs...))
	return ctx, func(errp *error) {
		var err error
		if errp != nil {
			err = *errp
		}
		outcome := outcomeOf(err)
		if err != nil && outcome == outcomeError {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.String("outcome", outcome))
		span.End()

		if in.ops != nil {
			in.ops.Add(ctx, 1, metric.WithAttributes(
				attribute.String("operation", op),
				attribute.String("outcome", outcome),
			))
		}
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, itemdomain.ErrItemNotFound):
		return outcomeNotFound
	case errors.Is(err, itemdomain.ErrInvalidItemName), errors.Is(err, itemdomain.ErrInvalidItemID):
		return outcomeInvalid
	default:
		return outcomeError
	}
}
