package observer

import (
	"context"
	"fmt"
	"time"

	"github.com/dfellipe/gomkit"

	"go.opentelemetry.io/otel/codes"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ObservedRunner wraps a gomkit.ModelRunner with OTEL instrumentation.
type ObservedRunner struct {
	inner gomkit.ModelRunner
	inst  *Instruments
}

// WrapRunner returns an instrumented runner that emits a span, metrics, and
// a structured log record per model run.
func WrapRunner(inner gomkit.ModelRunner, inst *Instruments) *ObservedRunner {
	return &ObservedRunner{inner: inner, inst: inst}
}

var _ gomkit.ModelRunner = (*ObservedRunner)(nil)

func (o *ObservedRunner) Run(ctx context.Context, req gomkit.RunRequest) (gomkit.RunResult, error) {
	ctx, span := o.inst.Tracer.Start(ctx, "gom.model_run", trace.WithAttributes(
		AttrRunKRange.String(fmt.Sprintf("%d-%d", req.KInitial, req.KFinal)),
		AttrCaseID.String(req.CaseID),
		AttrInputRows.Int(req.Table.RowCount()),
	))
	defer span.End()
	start := time.Now()

	result, err := o.inner.Run(ctx, req)

	durationMs := float64(time.Since(start).Milliseconds())
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	o.inst.ModelRuns.Add(ctx, 1, metric.WithAttributes(AttrRunStatus.String(status)))
	o.inst.ModelDuration.Record(ctx, durationMs, metric.WithAttributes(AttrRunStatus.String(status)))

	var rec otellog.Record
	rec.SetSeverity(otellog.SeverityInfo)
	rec.SetBody(otellog.StringValue("model run completed"))
	rec.AddAttributes(
		otellog.String("gom.case_id", req.CaseID),
		otellog.Int("gom.k_initial", req.KInitial),
		otellog.Int("gom.k_final", req.KFinal),
		otellog.Float64("gom.duration_ms", durationMs),
		otellog.String("status", status),
	)
	o.inst.Logger.Emit(ctx, rec)

	return result, err
}

// RecordExtraction emits the extraction-side span, metrics, and log record.
// Call it once per convert operation with the extraction outcome.
func (o *Instruments) RecordExtraction(ctx context.Context, k, rows, dropped int, d time.Duration, err error) {
	_, span := o.Tracer.Start(ctx, "gom.extraction", trace.WithAttributes(
		AttrRunK.Int(k),
		AttrOutputRows.Int(rows),
		AttrDropped.Int(dropped),
	))
	defer span.End()

	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	o.Extractions.Add(ctx, 1, metric.WithAttributes(AttrRunStatus.String(status)))
	o.DroppedRows.Add(ctx, int64(dropped), metric.WithAttributes(AttrRunK.Int(k)))
	o.ExtractDuration.Record(ctx, float64(d.Milliseconds()),
		metric.WithAttributes(AttrRunStatus.String(status)))

	var rec otellog.Record
	rec.SetSeverity(otellog.SeverityInfo)
	rec.SetBody(otellog.StringValue("report extraction completed"))
	rec.AddAttributes(
		otellog.Int("gom.k", k),
		otellog.Int("gom.rows", rows),
		otellog.Int("gom.dropped_rows", dropped),
		otellog.Float64("gom.duration_ms", float64(d.Milliseconds())),
		otellog.String("status", status),
	)
	o.Logger.Emit(ctx, rec)
}
