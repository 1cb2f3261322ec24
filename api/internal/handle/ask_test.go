package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docugenius/api/internal/llm"
	"docugenius/api/internal/metrics"
	"docugenius/api/internal/structure"
)

type fakeEngine struct {
	name   string
	answer string
	err    error
	got    llm.Request
}

func (f *fakeEngine) Name() string     { return f.name }
func (f *fakeEngine) GetModel() string { return "test-model" }
func (f *fakeEngine) Explain(ctx context.Context, req llm.Request) (string, error) {
	f.got = req
	if f.err != nil {
		return "", f.err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.answer, nil
}

type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

func newTestHandle(eng *fakeEngine) (*Handle, *metrics.Ask) {
	m := metrics.NewAsk(prometheus.NewRegistry())
	engs := &llm.Engines{Default: "gpt"}
	if eng != nil {
		engs.OpenAI = eng
	}
	asm := structure.NewAssembler(structure.WithRandom(constSource(0.25)))
	return New(engs, asm, WithMetrics(m), WithTimeout(5*time.Second)), m
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/ask/", strings.NewReader(body)))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) structure.Result {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res structure.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestAskSuccess(t *testing.T) {
	eng := &fakeEngine{name: "gpt", answer: "Explanation: Works by recursion.\nBreakdown: see steps\n1. Base case\n2. Recursive case\n```python\ndef f(n):\nreturn n\n```"}
	h, m := newTestHandle(eng)

	rec := post(h.Ask, `{"query":"explain recursion","mode":"explain_concept","audience":"expert"}`)
	res := decode(t, rec)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.True(t, res.Success)
	assert.Equal(t, "Works by recursion.", res.Explanation)
	assert.Equal(t, []string{"see steps", "1. Base case", "2. Recursive case"}, res.Breakdown)
	assert.Equal(t, []string{"def f(n):\nreturn n"}, res.CodeAnalysis)
	assert.Equal(t, "Explanation generated successfully using gpt test-model", res.Message)
	assert.InDelta(t, 0.85, res.Confidence, 1e-9)
	require.NotEmpty(t, res.ExternalResources)
	assert.Equal(t, "Python Official Docs", res.ExternalResources[0].Name)

	assert.Contains(t, eng.got.System, "Real-world analogies")
	assert.Contains(t, eng.got.System, "optimization techniques")
	assert.Contains(t, eng.got.User, "Analyze and explain: explain recursion")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("gpt", "success")))
}

func TestAskDefaultsModeAndAudience(t *testing.T) {
	eng := &fakeEngine{name: "gpt", answer: ""}
	h, _ := newTestHandle(eng)

	res := decode(t, post(h.Ask, `{"query":"  what is a closure  "}`))
	assert.True(t, res.Success)
	assert.Equal(t, "Explanation for: what is a closure...", res.Explanation)
	assert.Len(t, res.Breakdown, 5)
	assert.Contains(t, eng.got.System, "breaking down each line")
	assert.Contains(t, eng.got.System, "avoid jargon")
}

func TestAskUpstreamFailure(t *testing.T) {
	eng := &fakeEngine{name: "gpt", err: errors.New("openai explain: status code: 401")}
	h, m := newTestHandle(eng)

	res := decode(t, post(h.Ask, `{"query":"q"}`))
	assert.False(t, res.Success)
	assert.Equal(t, "Error: openai explain: status code: 401", res.Message)
	assert.Equal(t, []string{"Please check your API key and try again"}, res.Breakdown)
	assert.Empty(t, res.CodeAnalysis)
	assert.Empty(t, res.ExternalResources)
	assert.GreaterOrEqual(t, res.GenerationTime, 0.0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("gpt", "error")))
}

func TestAskNoEngineConfigured(t *testing.T) {
	h, _ := newTestHandle(nil)

	res := decode(t, post(h.Ask, `{"query":"q"}`))
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "not configured")
}

func TestAskRejects(t *testing.T) {
	h, _ := newTestHandle(&fakeEngine{name: "gpt"})

	tests := []struct {
		name string
		body string
		code int
	}{
		{"bad json", `{"query":`, http.StatusBadRequest},
		{"missing query", `{"mode":"explain_code"}`, http.StatusUnprocessableEntity},
		{"blank query", `{"query":"   "}`, http.StatusUnprocessableEntity},
		{"unknown engine", `{"query":"q","llm_name":"claude"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(h.Ask, tt.body)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestAskClientCancelled(t *testing.T) {
	h, m := newTestHandle(&fakeEngine{name: "gpt", answer: "Explanation: x"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ask/", strings.NewReader(`{"query":"q"}`)).WithContext(ctx)
	h.Ask(rec, req)

	assert.Empty(t, rec.Body.String())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("gpt", "success")))
}

func TestRootAndModes(t *testing.T) {
	h, _ := newTestHandle(nil)

	rec := httptest.NewRecorder()
	h.Root(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	var root map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &root))
	assert.Equal(t, Version, root["version"])
	assert.Equal(t, "/ask/", root["endpoints"].(map[string]any)["generate"])

	rec = httptest.NewRecorder()
	h.Modes(rec, httptest.NewRequest(http.MethodGet, "/ask/modes", nil))
	var modes struct {
		Modes []struct {
			ID      string `json:"id"`
			BestFor string `json:"best_for"`
		} `json:"modes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &modes))
	require.Len(t, modes.Modes, 2)
	assert.Equal(t, "explain_code", modes.Modes[0].ID)
	assert.Equal(t, "Learning new concepts", modes.Modes[1].BestFor)
}
