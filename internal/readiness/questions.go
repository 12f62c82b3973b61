package readiness

import "strings"

// MaxQuestions is the fixed length of the generated question list.
const MaxQuestions = 10

type questionTrigger struct {
	keyword  string
	question string
}

// Checked in this order; each hit contributes one question.
var questionTriggers = []questionTrigger{
	{"react", "Compare different state management options in React and when you would pick each."},
	{"node", "How does the Node.js event loop handle blocking work, and how do you avoid stalling it?"},
	{"sql", "Explain indexing and when it helps or hurts query performance."},
	{"java", "Explain how the JVM manages memory and what triggers garbage collection."},
	{"python", "What is the difference between a list and a generator in Python, and when does it matter?"},
	{"javascript", "Explain closures in JavaScript with a practical example."},
	{"docker", "How would you shrink a Docker image and why does layer order matter?"},
	{"dsa", "Describe a scenario where you would choose a Hash Map over a Balanced BST."},
}

var fillerQuestions = []string{
	"Discuss a challenging project and how you overcame a major technical block.",
	"How do you keep your skills updated with the latest industry trends?",
	"Walk through how you would debug a bug that only appears in production.",
	"Describe a time you disagreed with a teammate on a technical decision.",
	"How do you decide between shipping quickly and polishing a solution?",
	"Explain a project decision you would make differently today.",
	"How do you approach learning a new codebase in your first week?",
	"Describe how you test your own code before asking for review.",
	"Tell us about a time you had to explain a technical idea to a non-technical person.",
	"Where do you see your technical growth in the next two years?",
}

// GenerateQuestions returns exactly MaxQuestions questions, skill-specific ones first.
func GenerateQuestions(skills ExtractedSkills) []string {
	detected := make(map[string]bool)
	for _, s := range skills.Flatten() {
		lower := strings.ToLower(strings.TrimSpace(s))
		detected[lower] = true
		detected[strings.TrimSuffix(lower, ".js")] = true
	}

	questions := make([]string, 0, MaxQuestions)
	for _, trigger := range questionTriggers {
		if detected[trigger.keyword] {
			questions = append(questions, trigger.question)
		}
	}
	for _, filler := range fillerQuestions {
		if len(questions) >= MaxQuestions {
			break
		}
		questions = append(questions, filler)
	}
	if len(questions) > MaxQuestions {
		questions = questions[:MaxQuestions]
	}
	return questions
}
