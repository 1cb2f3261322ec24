package prompt

import (
	"fmt"
	"strings"
)

const (
	ModeExplainCode    = "explain_code"
	ModeExplainConcept = "explain_concept"

	AudienceBeginner     = "beginner"
	AudienceIntermediate = "intermediate"
	AudienceExpert       = "expert"
)

type Mode struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	BestFor     string `json:"best_for"`
}

var Modes = []Mode{
	{ID: ModeExplainCode, Name: "Explain Code", Description: "Detailed code analysis and explanation", BestFor: "Understanding code logic"},
	{ID: ModeExplainConcept, Name: "Explain Concept", Description: "Easy-to-understand concept explanations", BestFor: "Learning new concepts"},
}

var Audiences = []string{AudienceBeginner, AudienceIntermediate, AudienceExpert}

var modeInstructions = map[string]string{
	ModeExplainCode: `Analyze and explain code in detail, breaking down each line and explaining:
- What each line does and why
- The overall approach and algorithm
- Functions used and their purposes
- Time and space complexity analysis
- Best practices and potential improvements
- Error handling and edge cases`,
	ModeExplainConcept: `Explain technical concepts in simple, easy-to-understand terms with:
- Clear definitions and fundamentals
- Real-world analogies and examples
- The reasoning behind approaches
- Practical applications
- Common misconceptions
- Learning resources`,
}

var audienceInstructions = map[string]string{
	AudienceBeginner:     "Use simple language, avoid jargon, provide lots of examples, and explain the 'why' behind concepts.",
	AudienceIntermediate: "Include technical details, discuss best practices, show real-world applications, and cover edge cases.",
	AudienceExpert:       "Focus on advanced concepts, optimization techniques, design patterns, and implementation details.",
}

// NormalizeMode maps unknown or empty modes to explain_code.
func NormalizeMode(mode string) string {
	m := strings.ToLower(strings.TrimSpace(mode))
	if _, ok := modeInstructions[m]; ok {
		return m
	}
	return ModeExplainCode
}

// NormalizeAudience maps unknown or empty audiences to beginner.
func NormalizeAudience(audience string) string {
	a := strings.ToLower(strings.TrimSpace(audience))
	if _, ok := audienceInstructions[a]; ok {
		return a
	}
	return AudienceBeginner
}

func System(mode, audience string) string {
	return fmt.Sprintf(`You are DocuGenius, an expert code and concept explainer.

MODE: %s

AUDIENCE: %s

Your response should include:
1. A clear, comprehensive explanation
2. Step-by-step breakdown of the code or concept
3. Code analysis (for code explanations)
4. External resources for further learning

Format your response with clear sections and proper numbering.`,
		modeInstructions[NormalizeMode(mode)],
		audienceInstructions[NormalizeAudience(audience)])
}

func User(query string) string {
	return fmt.Sprintf(`Analyze and explain: %s

Please provide:
1. A clear, comprehensive explanation
2. Step-by-step breakdown of the code or concept with proper numbering
3. Code analysis (if explaining code) including:
   - Line-by-line explanation
   - Algorithm analysis
   - Time and space complexity
   - Functions and their purposes
4. External resources and references for further learning

Format the response with clear sections and proper numbering.`, query)
}
