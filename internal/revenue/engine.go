package revenue

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/joelkehle/revenue-readiness/internal/revenue"

type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

type analyzer struct {
	stage string
	run   func(Input, *Outputs)
}

var defaultAnalyzers = []analyzer{
	{stage: "market_clarity", run: func(in Input, o *Outputs) { o.MarketClarity = AnalyzeMarketClarity(in) }},
	{stage: "positioning", run: func(in Input, o *Outputs) { o.Positioning = AnalyzePositioning(in) }},
	{stage: "pricing", run: func(in Input, o *Outputs) { o.Pricing = AnalyzePricing(in) }},
	{stage: "conversion", run: func(in Input, o *Outputs) { o.Conversion = AnalyzeConversion(in) }},
	{stage: "traffic", run: func(in Input, o *Outputs) { o.Traffic = AnalyzeTraffic(in) }},
}

// Engine runs the five analyzers concurrently, then aggregates and plans.
// It holds no per-analysis state and is safe for concurrent use.
type Engine struct {
	tracer    trace.Tracer
	analyzers []analyzer
}

func NewEngine() *Engine {
	return &Engine{tracer: otel.Tracer(tracerName), analyzers: defaultAnalyzers}
}

// Run produces the full report for in. The only error is a *StageError from
// a panicking stage; no partial report is returned in that case.
func (e *Engine) Run(ctx context.Context, in Input) (Report, error) {
	ctx, span := e.tracer.Start(ctx, "revenue.run", trace.WithAttributes(
		attribute.String("revenue.product", in.ProductName),
	))
	defer span.End()

	in = in.Normalize()
	var out Outputs
	g, gctx := errgroup.WithContext(ctx)
	for _, a := range e.analyzers {
		g.Go(func() error {
			return e.stage(gctx, a.stage, func() { a.run(in, &out) })
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Report{}, err
	}

	var score Score
	if err := e.stage(ctx, "aggregate", func() { score = Aggregate(out) }); err != nil {
		return Report{}, err
	}
	var plan ActionPlan
	if err := e.stage(ctx, "action_plan", func() { plan = GenerateActionPlan(in, score, out) }); err != nil {
		return Report{}, err
	}
	span.SetAttributes(
		attribute.Int("revenue.total_score", score.TotalScore),
		attribute.String("revenue.interpretation", string(score.Interpretation)),
	)

	return Report{
		Input:         in,
		MarketClarity: out.MarketClarity,
		Positioning:   out.Positioning,
		Pricing:       out.Pricing,
		Conversion:    out.Conversion,
		Traffic:       out.Traffic,
		ActionPlan:    plan,
		Score:         score,
	}, nil
}

func (e *Engine) stage(ctx context.Context, name string, fn func()) (err error) {
	_, span := e.tracer.Start(ctx, "revenue."+name)
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			err = &StageError{Stage: name, Err: fmt.Errorf("panic: %v", r)}
			span.RecordError(err)
			span.SetStatus(codes.Error, "panic")
		}
	}()
	fn()
	return nil
}
