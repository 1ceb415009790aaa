// Package queue defines the hub's broker events and the background consumer
// that records them.
package queue

// Durable queue names.  Each event type has its own queue on the default
// exchange.
const (
	QueueVerificationApproved = "hub.verification.approved"
	QueuePurchaseLogged       = "hub.purchase.logged"
)

// VerificationApprovedEvent is published after an admin approves a
// membership request.  The consumer sends the welcome email from it.
type VerificationApprovedEvent struct {
	RequestID  string `json:"requestId"`
	UserID     string `json:"userId"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	ApprovedBy string `json:"approvedBy"`
	ApprovedAt string `json:"approvedAt"`
}

// LoggedItem is one purchase inside a PurchaseLoggedEvent.
type LoggedItem struct {
	PurchaseID string  `json:"purchaseId"`
	ItemName   string  `json:"itemName"`
	Cost       float64 `json:"cost"`
	Quantity   int     `json:"quantity"`
	Frequency  string  `json:"purchaseFrequency"`
}

// PurchaseLoggedEvent is published when purchases are recorded, one event
// per request (a bulk import is a single event).
type PurchaseLoggedEvent struct {
	Source       string       `json:"source"` // "single" | "bulk"
	LoggedBy     string       `json:"loggedBy"`
	PurchaseDate string       `json:"purchaseDate"`
	Items        []LoggedItem `json:"items"`
	Total        float64      `json:"total"`
	LoggedAt     string       `json:"loggedAt"`
}
