package chatbot

import (
	"fmt"
	"strings"
)

// solution is one known problem and its fix.
type solution struct {
	name string
	fix  string
}

// Domains are the problem areas the solver knows, in detection order.
var Domains = []string{"python", "debugging", "performance", "web", "database"}

var pythonErrors = []solution{
	{"AttributeError", "This error occurs when trying to access an attribute that doesn't exist. Check if the object has that attribute or if you misspelled it."},
	{"TypeError", "This error means you're performing an operation on incompatible data types. Ensure types match (e.g., int + str)."},
	{"ValueError", "This error occurs when a function receives an argument of correct type but inappropriate value. Check your input values."},
	{"KeyError", "This error occurs when trying to access a dictionary key that doesn't exist. Use .get() method instead."},
	{"IndexError", "This error occurs when trying to access a list index that doesn't exist. Check your list length."},
	{"NameError", "This error occurs when using a variable that hasn't been defined. Define the variable first."},
}

var debuggingTips = []string{
	"Use print() statements to track variable values",
	"Use debugger: import pdb; pdb.set_trace()",
	"Check for typos in variable names",
	"Verify data types are correct",
	"Test functions with different inputs",
	"Use try-except blocks for error handling",
}

var performanceTips = []string{
	"Use list comprehensions instead of loops",
	"Use set for O(1) lookup instead of list",
	"Avoid nested loops when possible",
	"Cache results with functools.lru_cache",
	"Use generators for large datasets",
	"Profile code with cProfile module",
}

var webProblems = []solution{
	{"CORS", "Cross-Origin Resource Sharing error. Add CORS headers or enable a CORS middleware."},
	{"404", "Resource not found. Check URL path and API endpoint."},
	{"500", "Server error. Check server logs for details."},
	{"timeout", "Request timeout. Increase timeout duration or optimize code."},
}

var databaseProblems = []solution{
	{"connection", "Can't connect to database. Check credentials, host, and port."},
	{"syntax", "SQL syntax error. Check your SQL query for typos."},
	{"constraint", "Constraint violation. Check unique/foreign key constraints."},
	{"transaction", "Transaction error. Use ROLLBACK and retry."},
}

// domainKeywords is tried in Domains order; the first keyword hit wins.
var domainKeywords = map[string][]string{
	"python":      {"python", "error", "code", "script", "function"},
	"debugging":   {"debug", "bug", "fix", "wrong", "issue"},
	"performance": {"slow", "fast", "optimize", "performance"},
	"web":         {"api", "web", "cors", "http", "request"},
	"database":    {"database", "sql", "data", "query"},
}

// detectDomain falls back to python when no keyword matches.
func detectDomain(lower string) string {
	for _, d := range Domains {
		if containsAny(lower, domainKeywords[d]...) {
			return d
		}
	}
	return "python"
}

// solveProblem answers a problem description from the domain it mentions.
func solveProblem(problem string) string {
	lower := strings.ToLower(strings.TrimSpace(problem))

	switch detectDomain(lower) {
	case "debugging":
		return bulletList("Debugging Tips:", debuggingTips)
	case "performance":
		return bulletList("Performance Optimization Tips:", performanceTips)
	case "web":
		if s, ok := findSolution(lower, webProblems); ok {
			return fmt.Sprintf("%s Error Solution:\n%s", s.name, s.fix)
		}
		return "I can help with: " + solutionNames(webProblems)
	case "database":
		if s, ok := findSolution(lower, databaseProblems); ok {
			return fmt.Sprintf("%s Issue Solution:\n%s", s.name, s.fix)
		}
		return "I can help with: " + solutionNames(databaseProblems)
	default:
		if s, ok := findSolution(lower, pythonErrors); ok {
			return fmt.Sprintf("%s Solution:\n%s", s.name, s.fix)
		}
		return "I can help with these Python errors: " + solutionNames(pythonErrors)
	}
}

func findSolution(lower string, table []solution) (solution, bool) {
	for _, s := range table {
		if strings.Contains(lower, strings.ToLower(s.name)) {
			return s, true
		}
	}
	return solution{}, false
}

func solutionNames(table []solution) string {
	names := make([]string, len(table))
	for i, s := range table {
		names[i] = s.name
	}
	return strings.Join(names, ", ")
}

type codeExample struct {
	topic string
	code  string
}

var codeExamples = []codeExample{
	{"list comprehension", "numbers = [1, 2, 3, 4, 5]\nsquared = [x**2 for x in numbers]\nprint(squared)"},
	{"try except", "try:\n    value = int('abc')\nexcept ValueError:\n    print('Invalid input')"},
	{"lambda", "square = lambda x: x ** 2\nprint(square(5))"},
	{"decorator", "def my_decorator(func):\n    def wrapper(*args, **kwargs):\n        print(f'Calling {func.__name__}')\n        return func(*args, **kwargs)\n    return wrapper"},
}

// codeExampleFor returns the first example whose topic occurs in topic.
// Underscores and hyphens count as spaces.
func codeExampleFor(topic string) string {
	norm := strings.NewReplacer("_", " ", "-", " ").Replace(strings.ToLower(topic))
	for _, ex := range codeExamples {
		if strings.Contains(norm, ex.topic) {
			return fmt.Sprintf("%s Example:\n```python\n%s\n```", titleCase(ex.topic), ex.code)
		}
	}
	topics := make([]string, len(codeExamples))
	for i, ex := range codeExamples {
		topics[i] = ex.topic
	}
	return fmt.Sprintf("I don't have an example for '%s' yet. I can show: %s.", topic, strings.Join(topics, ", "))
}

func bulletList(title string, items []string) string {
	return title + "\n• " + strings.Join(items, "\n• ")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
