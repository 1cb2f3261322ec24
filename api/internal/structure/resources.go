package structure

import "strings"

// commonResources are well-known sites picked up when the answer names them.
var commonResources = []Resource{
	{Name: "MDN Web Docs", URL: "https://developer.mozilla.org/en-US/"},
	{Name: "Python Documentation", URL: "https://docs.python.org/"},
	{Name: "React Documentation", URL: "https://react.dev/"},
	{Name: "Stack Overflow", URL: "https://stackoverflow.com/"},
	{Name: "GitHub", URL: "https://github.com/"},
	{Name: "W3Schools", URL: "https://www.w3schools.com/"},
	{Name: "Real Python", URL: "https://realpython.com/"},
	{Name: "JavaScript.info", URL: "https://javascript.info/"},
	{Name: "CSS-Tricks", URL: "https://css-tricks.com/"},
	{Name: "Dev.to", URL: "https://dev.to/"},
	{Name: "Medium", URL: "https://medium.com/"},
	{Name: "YouTube", URL: "https://www.youtube.com/"},
	{Name: "Coursera", URL: "https://www.coursera.org/"},
	{Name: "Udemy", URL: "https://www.udemy.com/"},
	{Name: "freeCodeCamp", URL: "https://www.freecodecamp.org/"},
}

type topicTrigger struct {
	keywords  []string
	resources []Resource
}

var (
	domManipulation = Resource{Name: "DOM Manipulation", URL: "https://developer.mozilla.org/en-US/docs/Web/API/Document_Object_Model"}

	// Plain substring match: "js" also fires on "objs" or "jsx".
	topicTriggers = []topicTrigger{
		{
			keywords: []string{"python"},
			resources: []Resource{
				{Name: "Python Official Docs", URL: "https://docs.python.org/"},
				{Name: "Real Python Tutorials", URL: "https://realpython.com/"},
			},
		},
		{
			keywords: []string{"javascript", "js"},
			resources: []Resource{
				{Name: "MDN JavaScript Guide", URL: "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Guide"},
				{Name: "JavaScript.info", URL: "https://javascript.info/"},
				domManipulation,
			},
		},
		{
			keywords: []string{"react"},
			resources: []Resource{
				{Name: "React Official Docs", URL: "https://react.dev/"},
				{Name: "React Tutorial", URL: "https://react.dev/learn"},
			},
		},
		{
			keywords: []string{"api"},
			resources: []Resource{
				{Name: "REST API Tutorial", URL: "https://restfulapi.net/"},
				{Name: "API Design Guide", URL: "https://docs.microsoft.com/en-us/azure/architecture/best-practices/api-design"},
			},
		},
		{
			keywords: []string{"dom"},
			resources: []Resource{
				domManipulation,
				{Name: "DOM Events", URL: "https://developer.mozilla.org/en-US/docs/Web/Events"},
				{Name: "DOM Tutorial", URL: "https://www.w3schools.com/js/js_htmldom.asp"},
			},
		},
	}
)

// ExtractResources scans the whole answer for known resource names and topic
// keywords. The result is unique by name, in first-seen order: common sites
// first, then topic resources.
func ExtractResources(content string) []Resource {
	lower := strings.ToLower(content)

	var candidates []Resource
	for _, r := range commonResources {
		if strings.Contains(lower, strings.ToLower(r.Name)) {
			candidates = append(candidates, r)
		}
	}
	for _, t := range topicTriggers {
		if containsAny(lower, t.keywords) {
			candidates = append(candidates, t.resources...)
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]Resource, 0, len(candidates))
	for _, r := range candidates {
		if _, ok := seen[r.Name]; ok {
			continue
		}
		seen[r.Name] = struct{}{}
		out = append(out, r)
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
