package telemetry

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/semconv/v1.13.0/httpconv"
	"go.opentelemetry.io/otel/trace"
)

type restyInstrument struct {
	tracer trace.Tracer
	pages  metric.Int64Counter
}

// opens a span per request made by `client` and counts fetched pages.
func InstrumentResty(client *resty.Client, tracerName string) {
	pages, _ := Meter(tracerName).Int64Counter(
		"pages_fetched",
		metric.WithDescription("number of pages fetched from the source site"),
	)
	i := restyInstrument{
		tracer: Tracer(tracerName),
		pages:  pages,
	}

	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

func (i restyInstrument) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	ctx, _ := i.tracer.Start(req.Context(), req.Method)
	slog.DebugContext(ctx, "start request", "method", req.Method, "url", req.URL)
	req.SetContext(ctx)
	return nil
}

func headerAttributes(prefix string, headers http.Header) []attribute.KeyValue {
	var out []attribute.KeyValue
	for header, values := range headers {
		if len(values) == 1 {
			out = append(out, attribute.String(fmt.Sprintf("%s: %s", prefix, header), values[0]))
			continue
		}
		for n, v := range values {
			out = append(out, attribute.String(fmt.Sprintf("%s: %s (%d)", prefix, header, n), v))
		}
	}
	return out
}

func (i restyInstrument) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	ctx := res.Request.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	// request attributes are set here since res.Request.RawRequest is nil in onBeforeRequest
	span.SetName(fmt.Sprintf("http %s", res.Request.Method))
	if res.RawResponse != nil {
		span.SetAttributes(httpconv.ClientResponse(res.RawResponse)...)
	}
	if res.Request.RawRequest != nil {
		span.SetAttributes(httpconv.ClientRequest(res.Request.RawRequest)...)
	}
	span.SetAttributes(headerAttributes("request/header", res.Request.Header)...)
	span.SetAttributes(headerAttributes("response/header", res.Header())...)
	span.SetAttributes(attribute.Int("response/body_length", len(res.Body())))

	if res.IsError() {
		span.SetStatus(codes.Error, res.Status())
	}
	i.pages.Add(ctx, 1, metric.WithAttributes(attribute.Int("status", res.StatusCode())))

	slog.DebugContext(
		ctx, "request finished",
		"method", res.Request.Method,
		"url", res.Request.URL,
		"status", res.StatusCode(),
		"bytes", len(res.Body()),
	)
	return nil
}

func (i restyInstrument) onError(req *resty.Request, err error) {
	ctx := req.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.RecordError(err)
	span.SetStatus(codes.Error, "request failed")
	span.SetName(fmt.Sprintf("http %s", req.Method))
	if req.RawRequest != nil {
		span.SetAttributes(httpconv.ClientRequest(req.RawRequest)...)
	}

	slog.ErrorContext(ctx, "request failed", "method", req.Method, "url", req.URL, "err", err)
}
