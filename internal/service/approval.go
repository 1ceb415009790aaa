package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/stewardship-hub/internal/model"
	"github.com/iliyamo/stewardship-hub/internal/queue"
	"github.com/iliyamo/stewardship-hub/internal/repository"
)

// ErrMissingApprovalFields is returned by Approve when any input is empty.
var ErrMissingApprovalFields = errors.New("userId, userEmail, and requestId are required")

// ErrNotPending is returned when the request was already approved or denied.
var ErrNotPending = errors.New("verification request is not pending")

// Approver moves verification requests out of pending.
type Approver struct {
	Verifications *repository.VerificationRepo
	Teams         *repository.TeamRepo
	Users         *repository.UserRepo
	Events        EventPublisher
	MembersTeamID string
}

// ApproveInput names the request and the user it belongs to.  UserEmail is
// carried into the welcome notification; ApprovedBy is the admin's user id.
type ApproveInput struct {
	UserID     string `json:"userId"`
	RequestID  string `json:"requestId"`
	UserEmail  string `json:"userEmail"`
	ApprovedBy string `json:"-"`
}

// Approve grants members-team membership and marks the request approved.
// Granting is idempotent, so approving after a partial failure is safe.
func (a *Approver) Approve(ctx context.Context, in ApproveInput) (model.VerificationRequest, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.RequestID = strings.TrimSpace(in.RequestID)
	in.UserEmail = strings.TrimSpace(in.UserEmail)
	if in.UserID == "" || in.RequestID == "" || in.UserEmail == "" {
		return model.VerificationRequest{}, ErrMissingApprovalFields
	}

	req, err := a.Verifications.GetByID(ctx, in.RequestID)
	if err != nil {
		return req, err
	}
	if req.UserID != in.UserID {
		return req, fmt.Errorf("request %s does not belong to user %s: %w", in.RequestID, in.UserID, repository.ErrConflict)
	}
	if req.Status != model.VerificationPending {
		return req, ErrNotPending
	}

	if err := a.Teams.AddMember(ctx, a.MembersTeamID, in.UserID, ""); err != nil {
		return req, fmt.Errorf("grant membership: %w", err)
	}
	if err := a.Verifications.SetStatus(ctx, req.ID, model.VerificationApproved); err != nil {
		return req, fmt.Errorf("mark approved: %w", err)
	}
	req.Status = model.VerificationApproved

	name := req.UserName
	if a.Users != nil {
		if u, err := a.Users.GetByID(ctx, in.UserID); err == nil && u.Name != "" {
			name = u.Name
		}
	}
	if a.Events != nil {
		_ = a.Events.PublishVerificationApproved(ctx, queue.VerificationApprovedEvent{
			RequestID:  req.ID,
			UserID:     in.UserID,
			Email:      in.UserEmail,
			Name:       name,
			ApprovedBy: in.ApprovedBy,
			ApprovedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return req, nil
}

// Deny marks a pending request denied.  Membership is not touched.
func (a *Approver) Deny(ctx context.Context, requestID string) (model.VerificationRequest, error) {
	req, err := a.Verifications.GetByID(ctx, strings.TrimSpace(requestID))
	if err != nil {
		return req, err
	}
	if req.Status != model.VerificationPending {
		return req, ErrNotPending
	}
	if err := a.Verifications.SetStatus(ctx, req.ID, model.VerificationDenied); err != nil {
		return req, err
	}
	req.Status = model.VerificationDenied
	return req, nil
}
