package chatbot

import (
	"fmt"
	"strings"
	"time"
)

// intent is a canned reply set chosen when any pattern occurs in the input.
type intent struct {
	name      string
	patterns  []string
	responses func(b *Bot) []string
}

// intents are tried in order; the first match wins.
var intents = []intent{
	{
		name:     "greeting",
		patterns: []string{"hello", "hi", "hey", "greetings", "good morning", "good afternoon", "good evening"},
		responses: func(b *Bot) []string {
			return []string{
				fmt.Sprintf("Hello! I'm %s. How can I help you today?", b.name),
				fmt.Sprintf("Hi there! I'm %s. What can I do for you?", b.name),
				fmt.Sprintf("Greetings! I'm %s. How may I assist you?", b.name),
				fmt.Sprintf("Hey! I'm %s. Nice to meet you. What do you need?", b.name),
			}
		},
	},
	{
		name:     "farewell",
		patterns: []string{"bye", "goodbye", "see you", "farewell", "take care", "gotta go", "talk to you later"},
		responses: fixed(
			"Goodbye! Have a great day!",
			"See you later! Take care!",
			"Bye! Thanks for chatting with me!",
			"Farewell! Come back soon!",
		),
	},
	{
		name:     "gratitude",
		patterns: []string{"thank you", "thanks", "thank u", "appreciate"},
		responses: fixed(
			"You're welcome! Happy to help!",
			"My pleasure! Anything else?",
			"Glad I could help! Let me know if you need anything else.",
			"No problem! I'm here to help.",
		),
	},
	{
		name:     "how_are_you",
		patterns: []string{"how are you", "how's it going", "how do you do", "how're you", "what's up"},
		responses: fixed(
			"I'm doing great, thanks for asking! How about you?",
			"I'm good! Ready to help you with anything!",
			"Doing well! What can I do for you?",
			"All systems operational and ready to chat!",
		),
	},
	{
		name:     "name",
		patterns: []string{"what's your name", "who are you", "your name", "what do i call you"},
		responses: func(b *Bot) []string {
			return []string{
				fmt.Sprintf("I'm %s (v%s), your problem-solving assistant!", b.name, b.version),
				fmt.Sprintf("You can call me %s. I'm here to help with coding and learning!", b.name),
			}
		},
	},
	{
		name:     "help",
		patterns: []string{"help", "what can you do", "capabilities", "assist"},
		responses: func(b *Bot) []string {
			return []string{
				fmt.Sprintf("%s can solve programming problems, analyze code, provide learning resources, and much more!", b.name),
				fmt.Sprintf("I'm %s! I can help with debugging, performance optimization, code analysis, and learning Python.", b.name),
			}
		},
	},
	{
		name:     "joke",
		patterns: []string{"tell me a joke", "make me laugh", "joke", "funny"},
		responses: fixed(
			"Why did the programmer quit his job? Because he didn't get arrays!",
			"Why do programmers prefer dark mode? Because light attracts bugs!",
			"How many programmers does it take to change a light bulb? None, that's a hardware problem!",
		),
	},
	{
		name:     "time",
		patterns: []string{"what time is it", "current time", "tell me the time", "what's the time"},
		responses: func(b *Bot) []string {
			now := b.now()
			return []string{
				"The current time is " + now.Format(time.TimeOnly),
				"It's " + now.Format("03:04 PM") + " right now.",
				"According to my clock, it's " + now.Format("15:04"),
			}
		},
	},
	{
		name:     "date",
		patterns: []string{"what's the date", "today's date", "what date is it", "today is"},
		responses: func(b *Bot) []string {
			now := b.now()
			return []string{
				"Today is " + now.Format("Monday, January 02, 2006"),
				"The date is " + now.Format("01/02/2006"),
				"It's " + now.Format("Monday, January 02"),
			}
		},
	},
}

var defaultResponses = []string{
	"That's interesting! Tell me more.",
	"I see. Could you elaborate?",
	"Interesting point! How does that relate to what you're working on?",
	"I understand. What else would you like to know?",
	"Got it! Is there anything else I can help you with?",
	"That's great! Do you have any other questions?",
}

func fixed(responses ...string) func(*Bot) []string {
	return func(*Bot) []string { return responses }
}

// matchIntent returns the first intent with a pattern contained in the
// lowercased input.
func matchIntent(input string) (intent, bool) {
	lower := strings.ToLower(strings.TrimSpace(input))
	for _, in := range intents {
		for _, p := range in.patterns {
			if strings.Contains(lower, p) {
				return in, true
			}
		}
	}
	return intent{}, false
}
