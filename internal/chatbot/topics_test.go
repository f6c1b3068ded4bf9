package chatbot

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBot_EverySuggestionGetsATopicReply(t *testing.T) {
	b := newTestBot()
	want := map[string]string{
		"Help with Python errors":                "I can help with these Python errors: AttributeError, TypeError, ValueError, KeyError, IndexError, NameError",
		"Analyze my code":                        analyzeReply,
		"Learning resources for web development": "ChatBot - Available Learning Resources",
		"Show me a code example":                 "I don't have an example for 'a code example' yet. I can show: list comprehension, try except, lambda, decorator.",
		"Debugging tips":                         "Debugging Tips:\n• Use print() statements",
		"Performance optimization":               "Performance Optimization Tips:\n• Use list comprehensions",
		"Tell me about your features":            "ChatBot Features:\n• Problem solving",
	}
	require.Len(t, want, len(Suggestions))

	helpReplies := intents[5].responses(b)
	for _, chip := range Suggestions {
		got, err := b.Respond(context.Background(), chip)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, want[chip]), "%q answered %q", chip, got)
		assert.NotContains(t, defaultResponses, got, chip)
		assert.NotContains(t, helpReplies, got, chip)
	}
	assert.Equal(t, int64(1), b.ProblemsSolved())
}

func TestBot_TopicRouting(t *testing.T) {
	b := newTestBot()
	cases := map[string]string{
		"Help with KeyError please":        "KeyError Solution:\nThis error occurs when trying to access a dictionary key",
		"got a TypeError exception":        "TypeError Solution:",
		"please review this":               analyzeReply,
		"learning path for data science":   "ChatBot - Learning Path for Data Science\n\n1. Python Basics (2-3 hours)\n2. Data Structures (3 hours)",
		"teach me oop":                     "Object-Oriented Programming\n📚 Topics: classes, objects",
		"learn about quantum":              "Sorry, I don't have a resource for 'quantum'.",
		"any learning tips?":               "ChatBot - Tips for Effective Learning\n\n1. Practice coding every day",
		"show me a lambda example":         "Lambda Example:\n```python\nsquare = lambda x: x ** 2",
		"example of try_except":            "Try Except Example:",
		"tell me about you":                "I'm ChatBot - an advanced chatbot",
		"Optimize my code":                 "Performance Optimization Tips:",
		"open the menu":                    "ChatBot - Help Menu",
		"learning path for underwater art": "I don't have a learning path for 'underwater art'.",
	}
	for in, want := range cases {
		got, err := b.Respond(context.Background(), in)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, want), "%q answered %q", in, got)
	}
	assert.Equal(t, int64(2), b.ProblemsSolved())
}

func TestSolveProblem_Domains(t *testing.T) {
	cases := map[string]string{
		"request blocked by cors": "CORS Error Solution:",
		"web thing broke":         "I can help with: CORS, 404, 500, timeout",
		"sql syntax":              "syntax Issue Solution:",
		"it is too slow":          "Performance Optimization Tips:",
		"there is an issue":       "Debugging Tips:",
		"IndexError in my list":   "IndexError Solution:",
	}
	for in, want := range cases {
		assert.True(t, strings.HasPrefix(solveProblem(in), want), in)
	}
}

func TestStripPhrases(t *testing.T) {
	assert.Equal(t, "data science", stripPhrases("Learning Path For data science", "learning path for", "path for"))
	assert.Equal(t, "a code example", stripPhrases("Show me a code example", "example of", "show me"))
	assert.Equal(t, "nothing", stripPhrases("  nothing ", "show me"))
}
