package structure

import "strings"

const fenceMarker = "```"

var (
	explanationHeaders = []string{"explanation", "analysis"}
	breakdownHeaders   = []string{"breakdown", "step", "1.", "2."}
	// "analysis" never reaches this list: explanationHeaders claims it first.
	codeHeaders = []string{"code", "analysis"}
)

// Segments is what the line fold extracts from one answer.
type Segments struct {
	Explanation  string
	Breakdown    []string
	CodeAnalysis []string
}

// Accumulator is the state of the line fold. The zero value is ready to use.
// Feed it lines with Step and collect the output with Finish.
type Accumulator struct {
	Section         Section
	InFence         bool
	CodeBuffer      []string
	CodeSectionSeen bool

	Explanation  string
	Breakdown    []string
	CodeAnalysis []string
}

// Step applies the first matching rule to a single trimmed, non-blank line.
// Rule order matters: header prefixes win over fence handling, so a line
// like "step 1" inside a fenced block is still read as a breakdown header.
func (a *Accumulator) Step(line string) {
	lower := strings.ToLower(line)

	switch {
	case hasAnyPrefix(lower, explanationHeaders):
		a.Section = SectionExplanation
		a.Explanation = afterColon(line)

	case hasAnyPrefix(lower, breakdownHeaders):
		a.Section = SectionBreakdown
		content := line
		if strings.HasPrefix(lower, "breakdown") || strings.HasPrefix(lower, "step") {
			if strings.Contains(line, ":") {
				content = afterColon(line)
			}
		}
		if content != "" {
			a.Breakdown = append(a.Breakdown, content)
		}

	case hasAnyPrefix(lower, codeHeaders):
		a.Section = SectionCodeAnalysis
		a.CodeSectionSeen = true

	case strings.HasPrefix(line, fenceMarker):
		if a.InFence {
			a.flush()
			a.InFence = false
		} else {
			a.InFence = true
		}

	case a.InFence:
		a.CodeBuffer = append(a.CodeBuffer, line)

	case a.Section == SectionExplanation && a.Explanation == "":
		a.Explanation = line

	case a.Section == SectionBreakdown && !strings.HasPrefix(lower, "breakdown"):
		a.Breakdown = append(a.Breakdown, line)
	}
}

// Finish flushes an unterminated code block and returns the fold output.
func (a *Accumulator) Finish() Segments {
	a.flush()
	return Segments{
		Explanation:  a.Explanation,
		Breakdown:    a.Breakdown,
		CodeAnalysis: a.CodeAnalysis,
	}
}

func (a *Accumulator) flush() {
	if len(a.CodeBuffer) == 0 {
		return
	}
	a.CodeAnalysis = append(a.CodeAnalysis, strings.Join(a.CodeBuffer, "\n"))
	a.CodeBuffer = nil
}

// Segment runs the fold over every non-blank line of text.
func Segment(text string) Segments {
	var acc Accumulator
	for _, line := range Lines(text) {
		acc.Step(line)
	}
	return acc.Finish()
}

// Lines splits text on newlines, trims each line and drops the blank ones.
func Lines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// afterColon returns the trimmed text after the first colon, or "" when the
// line has none.
func afterColon(line string) string {
	_, rest, ok := strings.Cut(line, ":")
	if !ok {
		return ""
	}
	return strings.TrimSpace(rest)
}
