package chatbot

import (
	"fmt"
	"strings"
)

const analyzeReply = "I can analyze your code. Please share the code snippet and I'll provide detailed feedback."

// route answers programming-help requests: problems, code review, learning,
// examples, bot info, tips and the help menu. Checks run in that order and
// the first hit wins. It reports false for small talk.
func (b *Bot) route(text string) (string, bool) {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, "help with", "error", "issue", "problem", "fix", "debug") &&
		containsAny(lower, "error", "exception"):
		b.problemsSolved.Add(1)
		return solveProblem(text), true
	case containsAny(lower, "analyze", "check code", "review"):
		return analyzeReply, true
	case containsAny(lower, "learn", "teach", "resource", "course", "tutorial"):
		switch {
		case containsAny(lower, "learning path", "path for"):
			return b.pathFor(stripPhrases(text, "learning path for", "path for")), true
		case containsAny(lower, "tips", "advice"):
			return b.tipsForLearning(), true
		case strings.Contains(lower, "resources"):
			return b.allResources(), true
		}
		return resourceFor(stripPhrases(text, "learn about", "teach me")), true
	case containsAny(lower, "example", "show me"):
		return codeExampleFor(stripPhrases(text, "example of", "show me")), true
	case containsAny(lower, "about", "version", "features", "capabilities"):
		return b.about(lower), true
	}

	if reply, ok := tipsFor(lower); ok {
		return reply, true
	}
	if strings.Contains(lower, "menu") || (strings.Contains(lower, "help") && strings.Contains(lower, "command")) {
		return b.helpMenu(), true
	}
	return "", false
}

func (b *Bot) about(lower string) string {
	switch {
	case strings.Contains(lower, "version"):
		return fmt.Sprintf("I'm %s version %s, created to help with programming problems and learning!", b.name, b.version)
	case strings.Contains(lower, "features"):
		return bulletList(b.name+" Features:", Features)
	}
	return fmt.Sprintf("I'm %s - an advanced chatbot designed to solve programming problems, analyze code, and provide learning resources.", b.name)
}

func tipsFor(lower string) (string, bool) {
	if !containsAny(lower, "tips", "advice", "optimiz") {
		return "", false
	}
	switch {
	case strings.Contains(lower, "debugging"):
		return bulletList("Debugging Tips:", debuggingTips), true
	case containsAny(lower, "performance", "optimiz"):
		return bulletList("Performance Optimization Tips:", performanceTips), true
	}
	return "", false
}

func (b *Bot) helpMenu() string {
	return b.name + ` - Help Menu

Commands and Topics:
1. Problem Solving: "Help with [Python/Debugging/Performance/Web/Database]"
2. Code Analysis: "Analyze code [provide code snippet]"
3. Learning: "Learn about [topic]" or "Learning path for [goal]"
4. Examples: "Show me example of [concept]"
5. Tips: "Give me [learning/debugging/performance] tips"
6. Info: "About", "Version", "Features"

Example Questions:
• "Help with AttributeError"
• "Optimize my code"
• "Learning resources for web development"
• "Show me list comprehension example"
• "Debugging tips"`
}

// stripPhrases removes the first case-insensitive occurrence of each phrase
// and trims the result.
func stripPhrases(text string, phrases ...string) string {
	for _, p := range phrases {
		lower := strings.ToLower(text)
		if len(lower) != len(text) {
			break
		}
		if i := strings.Index(lower, p); i >= 0 {
			text = text[:i] + text[i+len(p):]
		}
	}
	return strings.TrimSpace(text)
}
