package chatbot

import (
	"fmt"
	"strings"
)

type resource struct {
	key        string
	title      string
	topics     []string
	difficulty string
	duration   string
}

var resources = []resource{
	{"python_basics", "Python Basics", []string{"variables", "data types", "operators", "conditionals", "loops"}, "Beginner", "2-3 hours"},
	{"functions", "Functions and Scope", []string{"function definition", "parameters", "return values", "scope", "lambda"}, "Beginner", "2 hours"},
	{"data_structures", "Data Structures", []string{"lists", "tuples", "dictionaries", "sets", "comprehensions"}, "Intermediate", "3 hours"},
	{"oop", "Object-Oriented Programming", []string{"classes", "objects", "inheritance", "polymorphism", "encapsulation"}, "Intermediate", "4 hours"},
	{"error_handling", "Error Handling and Debugging", []string{"try-except", "custom exceptions", "debugging", "logging"}, "Intermediate", "2.5 hours"},
	{"file_io", "File I/O and JSON", []string{"reading files", "writing files", "JSON", "CSV", "serialization"}, "Beginner", "2 hours"},
	{"apis", "Working with APIs", []string{"HTTP requests", "REST", "API design", "requests library", "response handling"}, "Intermediate", "3 hours"},
	{"databases", "Databases and SQL", []string{"SQL basics", "CRUD operations", "relationships", "joins", "indexing"}, "Intermediate", "4 hours"},
}

type learningTrack struct {
	goal    string
	courses []string
}

var learningPaths = []learningTrack{
	{"web development", []string{"python_basics", "functions", "data_structures", "apis", "databases"}},
	{"data science", []string{"python_basics", "data_structures", "error_handling", "file_io"}},
	{"backend", []string{"python_basics", "oop", "apis", "databases", "error_handling"}},
	{"automation", []string{"python_basics", "functions", "file_io", "error_handling"}},
}

var learningTips = []string{
	"Practice coding every day, even if just for 15 minutes",
	"Build projects to apply what you've learned",
	"Read other people's code to improve your understanding",
	"Join coding communities and participate in discussions",
	"Use version control (Git) from the start",
	"Write clean, readable code with comments",
	"Test your code thoroughly before deployment",
	"Don't just watch tutorials - write code along with them",
	"Solve coding challenges and problems regularly",
	"Teach others what you've learned",
}

func findResource(key string) (resource, bool) {
	for _, r := range resources {
		if r.key == key {
			return r, true
		}
	}
	return resource{}, false
}

// resourceFor describes the course named by topic, e.g. "oop" or "file io".
func resourceFor(topic string) string {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(topic)), " ", "_")
	for _, r := range resources {
		if key == r.key || (key != "" && strings.Contains(key, r.key)) {
			return fmt.Sprintf("%s\n📚 Topics: %s\n🎓 Difficulty: %s\n⏱️ Duration: %s\n\nThis course covers all essential concepts you need to master %s.",
				r.title, strings.Join(r.topics, ", "), r.difficulty, r.duration, strings.ToLower(r.title))
		}
	}
	keys := make([]string, len(resources))
	for i, r := range resources {
		keys[i] = r.key
	}
	return fmt.Sprintf("Sorry, I don't have a resource for '%s'. Available resources: %s", topic, strings.Join(keys, ", "))
}

func (b *Bot) allResources() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s - Available Learning Resources\n", b.name)
	for _, r := range resources {
		fmt.Fprintf(&sb, "\n📚 %s (%s)\n   ⏱️ %s\n   Topics: %s...\n", r.title, r.difficulty, r.duration, strings.Join(r.topics[:3], ", "))
	}
	return sb.String()
}

// pathFor lists the courses for the first goal that goal names or
// that contains goal.
func (b *Bot) pathFor(goal string) string {
	lower := strings.ToLower(strings.TrimSpace(goal))
	for _, p := range learningPaths {
		if strings.Contains(lower, p.goal) || (lower != "" && strings.Contains(p.goal, lower)) {
			var sb strings.Builder
			fmt.Fprintf(&sb, "%s - Learning Path for %s\n", b.name, titleCase(p.goal))
			for i, key := range p.courses {
				r, _ := findResource(key)
				fmt.Fprintf(&sb, "\n%d. %s (%s)", i+1, r.title, r.duration)
			}
			return sb.String()
		}
	}
	goals := make([]string, len(learningPaths))
	for i, p := range learningPaths {
		goals[i] = p.goal
	}
	return fmt.Sprintf("I don't have a learning path for '%s'. Try: %s", goal, strings.Join(goals, ", "))
}

func (b *Bot) tipsForLearning() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s - Tips for Effective Learning\n", b.name)
	for i, tip := range learningTips {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, tip)
	}
	return sb.String()
}
