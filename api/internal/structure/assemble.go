package structure

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

const (
	minConfidence   = 0.80
	confidenceRange = 0.20

	// reported when the upstream call failed; not a measured value either
	failureConfidence = 0.9

	queryPreviewRunes = 100
)

var (
	defaultBreakdown = []string{
		"Analyzed the code/concept",
		"Provided detailed explanation",
		"Included step-by-step breakdown",
		"Added relevant analysis",
		"Ensured clarity for the target audience level",
	}
	defaultCodeAnalysis = []string{"# Code analysis will be generated here"}

	failureExplanation = "Error occurred during explanation generation"
	failureBreakdown   = []string{"Please check your API key and try again"}
)

// RandomSource yields floats in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// GenerateFunc performs the upstream LLM call and returns its raw answer.
type GenerateFunc func(ctx context.Context) (string, error)

// Assembler turns raw LLM answers into Results. It holds no per-request
// state and is safe for concurrent use as long as its RandomSource is.
type Assembler struct {
	rnd RandomSource
	now func() time.Time
}

type Option func(*Assembler)

// WithRandom sets the source for the placeholder confidence score.
func WithRandom(r RandomSource) Option {
	return func(a *Assembler) {
		if r != nil {
			a.rnd = r
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		if now != nil {
			a.now = now
		}
	}
}

func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		rnd: globalSource{},
		now: time.Now,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Now reports the assembler's clock; callers use it to stamp request start.
func (a *Assembler) Now() time.Time { return a.now() }

// Run records the start time, performs the upstream call and assembles the
// answer. Upstream failures become a Result with Success=false. Only a
// cancelled ctx yields an error, and then no Result is produced.
func (a *Assembler) Run(ctx context.Context, query, source string, generate GenerateFunc) (Result, error) {
	start := a.now()
	text, err := generate(ctx)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return Result{}, ctx.Err()
		}
		return a.Failure(err, start), nil
	}
	return a.Assemble(text, start, query, source), nil
}

// Assemble structures one LLM answer. source names the engine in the
// success message and may be empty.
func (a *Assembler) Assemble(text string, start time.Time, query, source string) Result {
	seg := Segment(text)
	resources := ExtractResources(text)

	res := Result{
		Success:           true,
		Explanation:       seg.Explanation,
		Breakdown:         seg.Breakdown,
		CodeAnalysis:      seg.CodeAnalysis,
		ExternalResources: resources,
		Message:           "Explanation generated successfully",
	}
	if res.Explanation == "" {
		res.Explanation = fmt.Sprintf("Explanation for: %s...", truncateRunes(query, queryPreviewRunes))
	}
	if len(res.Breakdown) == 0 {
		res.Breakdown = append([]string(nil), defaultBreakdown...)
	}
	if len(res.CodeAnalysis) == 0 {
		res.CodeAnalysis = append([]string(nil), defaultCodeAnalysis...)
	}
	if source != "" {
		res.Message += " using " + source
	}
	res.GenerationTime = a.elapsed(start)
	res.Confidence = a.confidence()
	return res
}

// Failure builds the result reported when the upstream call failed.
func (a *Assembler) Failure(cause error, start time.Time) Result {
	msg := "Error: unknown error"
	if cause != nil {
		msg = "Error: " + cause.Error()
	}
	return Result{
		Success:           false,
		Explanation:       failureExplanation,
		Breakdown:         append([]string(nil), failureBreakdown...),
		CodeAnalysis:      []string{},
		Confidence:        failureConfidence,
		GenerationTime:    a.elapsed(start),
		Message:           msg,
		ExternalResources: []Resource{},
	}
}

// confidence is cosmetic: uniform in [0.80, 1.00).
func (a *Assembler) confidence() float64 {
	u := a.rnd.Float64()
	if u < 0 || math.IsNaN(u) {
		u = 0
	}
	c := minConfidence + confidenceRange*u
	if c >= 1 {
		c = math.Nextafter(1, 0)
	}
	return c
}

func (a *Assembler) elapsed(start time.Time) float64 {
	d := a.now().Sub(start)
	if d < 0 {
		return 0
	}
	return d.Seconds()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
