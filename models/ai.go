package models

import "time"

// ChatRequest is the payload coming from the frontend into /api/chat.
type ChatRequest struct {
	UserID string `json:"user_id"` // filled from the session token, not trusted from the body
	Text   string `json:"text"`    // user's message
}

// ChatResponse is what the chat handler returns to the frontend.
type ChatResponse struct {
	Reply  string         `json:"reply"`            // natural-language reply
	Intent string         `json:"intent"`           // what the assistant understood, e.g. "book", "faq"
	Draft  *DraftSnapshot `json:"draft,omitempty"`  // present while a booking is in progress
	Ask    Field          `json:"asking,omitempty"` // the single field currently being requested
}

// Turn is one message in a user's conversation window.
type Turn struct {
	Role string    `json:"role"` // "user" or "assistant"
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// FieldUpdate is a typed slot-update proposal from the intent extractor.
type FieldUpdate struct {
	Field Field  `json:"field"`
	Value string `json:"value"`
}
