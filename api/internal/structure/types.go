package structure

// Resource is a named external link suggested alongside an answer.
type Resource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Result is the structured answer returned to clients. Field names are the
// wire contract with the UI.
type Result struct {
	Success           bool       `json:"success"`
	Explanation       string     `json:"explanation"`
	Breakdown         []string   `json:"breakdown"`
	CodeAnalysis      []string   `json:"code_analysis"`
	Confidence        float64    `json:"confidence"`
	GenerationTime    float64    `json:"generation_time"` // seconds
	Message           string     `json:"message"`
	ExternalResources []Resource `json:"external_resources"`
}

// Section is the segmenter's cursor over the line stream.
type Section int

const (
	SectionNone Section = iota
	SectionExplanation
	SectionBreakdown
	SectionCodeAnalysis
)

func (s Section) String() string {
	switch s {
	case SectionExplanation:
		return "explanation"
	case SectionBreakdown:
		return "breakdown"
	case SectionCodeAnalysis:
		return "code_analysis"
	default:
		return "none"
	}
}
