package structure

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock advances by step on every call.
type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func TestAssemble(t *testing.T) {
	clock := &stepClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), step: 1500 * time.Millisecond}
	a := NewAssembler(WithClock(clock.Now), WithRandom(fixedSource(0.5)))

	start := a.Now()
	res := a.Assemble("Explanation: Works by recursion.\nBreakdown: see steps\n1. Base case\n2. Recursive case", start, "recursion", "gpt gpt-4o")

	assert.True(t, res.Success)
	assert.Equal(t, "Works by recursion.", res.Explanation)
	assert.Equal(t, []string{"see steps", "1. Base case", "2. Recursive case"}, res.Breakdown)
	assert.Equal(t, defaultCodeAnalysis, res.CodeAnalysis)
	assert.Empty(t, res.ExternalResources)
	assert.InDelta(t, 0.9, res.Confidence, 1e-12)
	assert.InDelta(t, 1.5, res.GenerationTime, 1e-9)
	assert.Equal(t, "Explanation generated successfully using gpt gpt-4o", res.Message)
}

func TestAssembleFallbacks(t *testing.T) {
	a := NewAssembler()
	query := strings.Repeat("é", 150)

	res := a.Assemble("", a.Now(), query, "")

	assert.True(t, res.Success)
	assert.Equal(t, "Explanation for: "+strings.Repeat("é", 100)+"...", res.Explanation)
	assert.Equal(t, defaultBreakdown, res.Breakdown)
	assert.Equal(t, defaultCodeAnalysis, res.CodeAnalysis)
	assert.NotNil(t, res.ExternalResources)
	assert.Empty(t, res.ExternalResources)
	assert.Equal(t, "Explanation generated successfully", res.Message)
	assert.GreaterOrEqual(t, res.GenerationTime, 0.0)

	// fallbacks are copies
	res.Breakdown[0] = "changed"
	assert.Equal(t, "Analyzed the code/concept", defaultBreakdown[0])
}

func TestConfidenceSeeded(t *testing.T) {
	want := rand.New(rand.NewPCG(7, 11))
	a := NewAssembler(WithRandom(rand.New(rand.NewPCG(7, 11))))

	for i := 0; i < 50; i++ {
		res := a.Assemble("text", a.Now(), "q", "")
		assert.Equal(t, 0.80+0.20*want.Float64(), res.Confidence)
	}
}

func TestConfidenceBounds(t *testing.T) {
	for _, u := range []float64{0, 0.25, 0.999999999, 1, 2, -1} {
		a := NewAssembler(WithRandom(fixedSource(u)))
		c := a.Assemble("x", a.Now(), "q", "").Confidence
		assert.GreaterOrEqual(t, c, 0.80, "u=%v", u)
		assert.Less(t, c, 1.0, "u=%v", u)
	}

	a := NewAssembler()
	for i := 0; i < 1000; i++ {
		c := a.Assemble("x", a.Now(), "q", "").Confidence
		require.GreaterOrEqual(t, c, 0.80)
		require.Less(t, c, 1.0)
	}
}

func TestRun(t *testing.T) {
	clock := &stepClock{t: time.Unix(1000, 0), step: time.Second}
	a := NewAssembler(WithClock(clock.Now), WithRandom(fixedSource(0)))

	t.Run("success", func(t *testing.T) {
		res, err := a.Run(context.Background(), "what is python", "gemini", func(context.Context) (string, error) {
			return "Explanation: Python is a language.\n```\nprint('hi')\n```", nil
		})
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, "Python is a language.", res.Explanation)
		assert.Equal(t, []string{"print('hi')"}, res.CodeAnalysis)
		assert.Equal(t, []string{"Python Official Docs", "Real Python Tutorials"}, names(res.ExternalResources))
		assert.Equal(t, 0.80, res.Confidence)
		assert.InDelta(t, 1.0, res.GenerationTime, 1e-9)
	})

	t.Run("upstream failure", func(t *testing.T) {
		res, err := a.Run(context.Background(), "q", "gpt", func(context.Context) (string, error) {
			return "", errors.New("openai: 401 invalid api key")
		})
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "Error: openai: 401 invalid api key", res.Message)
		assert.Equal(t, []string{"Please check your API key and try again"}, res.Breakdown)
		assert.Empty(t, res.CodeAnalysis)
		assert.Empty(t, res.ExternalResources)
		assert.InDelta(t, 1.0, res.GenerationTime, 1e-9)
	})

	t.Run("deadline is an upstream failure", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()
		<-ctx.Done()

		res, err := a.Run(ctx, "q", "gpt", func(ctx context.Context) (string, error) {
			return "", ctx.Err()
		})
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "deadline exceeded")
	})

	t.Run("cancelled caller gets no result", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := a.Run(ctx, "q", "gpt", func(ctx context.Context) (string, error) {
			return "", ctx.Err()
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, Result{}, res)
	})
}

func TestResultJSON(t *testing.T) {
	a := NewAssembler()

	b, err := json.Marshal(a.Failure(errors.New("boom"), a.Now()))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, false, m["success"])
	assert.Equal(t, []any{}, m["code_analysis"])
	assert.Equal(t, []any{}, m["external_resources"])
	assert.Equal(t, "Error: boom", m["message"])
	assert.Contains(t, m, "generation_time")

	b, err = json.Marshal(a.Assemble("Python Documentation", a.Now(), "q", ""))
	require.NoError(t, err)
	var res Result
	require.NoError(t, json.Unmarshal(b, &res))
	assert.Equal(t, Resource{Name: "Python Documentation", URL: "https://docs.python.org/"}, res.ExternalResources[0])
}
