package models

// ChatRequest is the payload coming from the frontend into /api/ai/chat.
type ChatRequest struct {
	Text string `json:"text"` // user's message (voice→text or typed)
}

// ChatResponse is what the chat handler returns to the frontend.
// Bikes is only non-nil when the turn's result is primarily tabular.
type ChatResponse struct {
	Message string         `json:"message"`
	Bikes   []Bike         `json:"bikes,omitempty"`
	Payment *PaymentPrompt `json:"payment,omitempty"`
}

// PaymentPrompt is the structured payment-confirmation payload emitted by the
// bike rental flow before the final booking commit.
type PaymentPrompt struct {
	Action  string `json:"action"` // always "bike_payment"
	Amount  int    `json:"amount"`
	Contact string `json:"contact"`
}

// Turn is one entry in a dialogue transcript.
type Turn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}
