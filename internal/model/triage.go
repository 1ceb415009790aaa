package model

import "time"

// ShoppingListEntry is an item somebody reported as out of stock.  It is
// removed when an admin marks it purchased.
type ShoppingListEntry struct {
	ID         string    `json:"id"`         // shopping_list.id
	ItemName   string    `json:"itemName"`   // shopping_list.item_name
	ReportedBy string    `json:"reportedBy"` // shopping_list.reported_by (user id)
	CreatedAt  time.Time `json:"createdAt"`  // shopping_list.created_at
}

// SuggestionStatus is the admin-controlled state of a suggestion.
type SuggestionStatus string

const (
	SuggestionPending   SuggestionStatus = "Pending"
	SuggestionApproved  SuggestionStatus = "Approved"
	SuggestionDeclined  SuggestionStatus = "Declined"
	SuggestionPurchased SuggestionStatus = "Purchased"
)

// Valid reports whether s is one of the known statuses.
func (s SuggestionStatus) Valid() bool {
	switch s {
	case SuggestionPending, SuggestionApproved, SuggestionDeclined, SuggestionPurchased:
		return true
	}
	return false
}

// Suggestion is a member's request that the stewards buy something.
type Suggestion struct {
	ID            string           `json:"id"`            // suggestions.id
	ItemName      string           `json:"itemName"`      // suggestions.item_name
	Reason        string           `json:"reason"`        // suggestions.reason
	SubmittedBy   string           `json:"submittedBy"`   // suggestions.submitted_by (user id)
	SubmitterName string           `json:"submitterName"` // suggestions.submitted_by_name
	Status        SuggestionStatus `json:"status"`        // suggestions.status
	AdminResponse string           `json:"adminResponse"` // suggestions.admin_response
	CreatedAt     time.Time        `json:"createdAt"`     // suggestions.created_at
}

// VerificationStatus is the state of a membership verification request.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationDenied   VerificationStatus = "denied"
)

// VerificationRequest is created by a newly registered user asking to be
// let into the members team.  Only admins move it out of pending.
type VerificationRequest struct {
	ID        string             `json:"id"`        // verification_requests.id
	UserID    string             `json:"userId"`    // verification_requests.user_id
	UserName  string             `json:"userName"`  // verification_requests.user_name
	Email     string             `json:"email"`     // verification_requests.email
	Status    VerificationStatus `json:"status"`    // verification_requests.status
	CreatedAt time.Time          `json:"createdAt"` // verification_requests.created_at
}
