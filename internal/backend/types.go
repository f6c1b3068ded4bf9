package backend

import (
	"time"

	"github.com/zhengjr9/chat-relay/internal/history"
)

const statusSuccess = "success"

// ChatRequest is the body of POST /api/chat. Message is a pointer so an
// absent field can be told apart from an empty one.
type ChatRequest struct {
	Message *string `json:"message"`
}

type ChatResponse struct {
	Status      string    `json:"status"`
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	Timestamp   time.Time `json:"timestamp"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type HistoryResponse struct {
	Status  string          `json:"status"`
	History []history.Entry `json:"history"`
	Total   int             `json:"total"`
}

type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SuggestionsResponse struct {
	Status      string   `json:"status"`
	Suggestions []string `json:"suggestions"`
}

type Info struct {
	Name          string   `json:"name"`
	Version       string   `json:"version"`
	Features      []string `json:"features"`
	Domains       []string `json:"domains"`
	TotalMessages int64    `json:"total_messages"`
}

type InfoResponse struct {
	Status    string    `json:"status"`
	Info      Info      `json:"info"`
	Timestamp time.Time `json:"timestamp"`
}

type Stats struct {
	ChatbotName        string   `json:"chatbot_name"`
	ChatbotVersion     string   `json:"chatbot_version"`
	TotalConversations int64    `json:"total_conversations"`
	ProblemsSolved     int64    `json:"problems_solved"`
	AvailableDomains   []string `json:"available_domains"`
	HistorySize        int      `json:"history_size"`
}

type StatsResponse struct {
	Status    string    `json:"status"`
	Stats     Stats     `json:"stats"`
	Timestamp time.Time `json:"timestamp"`
}
