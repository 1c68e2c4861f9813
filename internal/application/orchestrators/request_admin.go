package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	userStore "homeworkbot/internal/adapters/storage/user"
	"homeworkbot/internal/domain/approval"
	"homeworkbot/internal/domain/user"

	"github.com/google/uuid"
)

// RequestAdminUserStore defines the user store interface for the approval flow.
type RequestAdminUserStore interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	Save(ctx context.Context, value user.User) error
}

// ApprovalStore defines the admin-request store interface.
type ApprovalStore interface {
	GetByID(ctx context.Context, id string) (approval.Request, error)
	Save(ctx context.Context, value approval.Request) error
	PendingByUser(ctx context.Context, userID string) ([]approval.Request, error)
}

// AdminNotifier delivers an approval prompt to one privileged recipient.
type AdminNotifier interface {
	NotifyAdminRequest(ctx context.Context, adminChatID int64, req approval.Request, requester user.User) error
}

// DecisionNotifier tells the requester the outcome of their request.
type DecisionNotifier interface {
	NotifyDecision(ctx context.Context, userID string, approved bool) error
}

// RequestAdminInput identifies the requester.
type RequestAdminInput struct {
	UserID string
}

// RequestAdminDeps holds dependencies for RequestAdmin.
type RequestAdminDeps struct {
	UserStore     RequestAdminUserStore
	ApprovalStore ApprovalStore
	Notifier      AdminNotifier
	AdminChatIDs  []int64
}

// ExecuteRequestAdmin starts the moderated promotion flow: records a pending
// request, moves the requester to pending_admin, and fans the prompt out to
// every configured privileged recipient. Delivery is fire-and-forget per
// recipient: one failure never aborts the others.
// Pending-ness is decided by the stored requests, not the role, so a retry
// after a failed write always starts clean.
// PRE: Requester is a registered non-admin with no pending request
// POST: Request saved with status=pending, requester role=pending_admin;
// on error no pending request is left behind
func ExecuteRequestAdmin(ctx context.Context, input RequestAdminInput, deps RequestAdminDeps) (approval.Request, error) {
	requester, err := deps.UserStore.GetByID(ctx, input.UserID)
	if errors.Is(err, userStore.ErrNotFound) {
		return approval.Request{}, ErrNotRegistered
	}
	if err != nil {
		return approval.Request{}, fmt.Errorf("load requester: %w", err)
	}
	if requester.Role.IsAdmin() {
		return approval.Request{}, ErrAlreadyAdmin
	}
	pending, err := deps.ApprovalStore.PendingByUser(ctx, requester.ID)
	if err != nil {
		return approval.Request{}, fmt.Errorf("check pending requests: %w", err)
	}
	if len(pending) > 0 {
		return approval.Request{}, ErrRequestPending
	}

	req := approval.Request{
		ID:        uuid.New().String(),
		UserID:    requester.ID,
		Class:     requester.Class,
		Status:    approval.StatusPending,
		CreatedAt: time.Now(),
	}

	// Request first: a failed write here leaves nothing behind to clean up.
	if err := deps.ApprovalStore.Save(ctx, req); err != nil {
		return approval.Request{}, fmt.Errorf("save admin request: %w", err)
	}

	// A role already at pending_admin (left by an earlier partial failure)
	// stays as is; the stored request above is what gates re-requesting.
	if requester.Role != user.RolePendingAdmin {
		if err := requester.ChangeRole(user.RolePendingAdmin); err != nil {
			return approval.Request{}, err
		}
		if err := deps.UserStore.Save(ctx, requester); err != nil {
			// Withdraw the request so the next attempt starts clean.
			if rbErr := req.Reject(req.UserID, time.Now()); rbErr == nil {
				if saveErr := deps.ApprovalStore.Save(ctx, req); saveErr != nil {
					slog.Warn("admin_request_withdraw_failed", "request_id", req.ID, "error", saveErr.Error())
				}
			}
			return approval.Request{}, fmt.Errorf("save requester role: %w", err)
		}
	}

	for _, chatID := range deps.AdminChatIDs {
		if err := deps.Notifier.NotifyAdminRequest(ctx, chatID, req, requester); err != nil {
			slog.Warn("admin_request_notify_failed", "request_id", req.ID, "admin_chat", chatID, "error", err.Error())
		}
	}

	return req, nil
}

// ResolveAdminRequestInput carries a moderator's decision.
type ResolveAdminRequestInput struct {
	RequestID string
	Approve   bool
	DecidedBy string
}

// ResolveAdminRequestDeps holds dependencies for ResolveAdminRequest.
type ResolveAdminRequestDeps struct {
	UserStore     RequestAdminUserStore
	ApprovalStore ApprovalStore
	Notifier      DecisionNotifier
}

// ExecuteResolveAdminRequest applies a moderator's decision to a pending
// request. Approval promotes the requester; rejection returns them to the
// plain user role. Deciding twice fails with approval.ErrAlreadyDecided.
func ExecuteResolveAdminRequest(ctx context.Context, input ResolveAdminRequestInput, deps ResolveAdminRequestDeps) (approval.Request, error) {
	req, err := deps.ApprovalStore.GetByID(ctx, input.RequestID)
	if err != nil {
		return approval.Request{}, fmt.Errorf("load admin request: %w", err)
	}

	now := time.Now()
	if input.Approve {
		err = req.Approve(input.DecidedBy, now)
	} else {
		err = req.Reject(input.DecidedBy, now)
	}
	if err != nil {
		return approval.Request{}, err
	}

	requester, err := deps.UserStore.GetByID(ctx, req.UserID)
	switch {
	case errors.Is(err, userStore.ErrNotFound):
		// Requester deleted their profile while the request was pending.
		slog.Warn("admin_request_requester_gone", "request_id", req.ID, "user_id", req.UserID)
	case err != nil:
		return approval.Request{}, fmt.Errorf("load requester: %w", err)
	default:
		next := user.RoleUser
		if input.Approve {
			next = user.RoleAdmin
		}
		if requester.Role == user.RolePendingAdmin {
			if err := requester.ChangeRole(next); err != nil {
				return approval.Request{}, err
			}
			if err := deps.UserStore.Save(ctx, requester); err != nil {
				return approval.Request{}, fmt.Errorf("save requester role: %w", err)
			}
		} else {
			slog.Warn("admin_request_role_drifted", "request_id", req.ID, "role", string(requester.Role))
		}
	}

	if err := deps.ApprovalStore.Save(ctx, req); err != nil {
		return approval.Request{}, fmt.Errorf("save decided request: %w", err)
	}

	if deps.Notifier != nil {
		if err := deps.Notifier.NotifyDecision(ctx, req.UserID, input.Approve); err != nil {
			slog.Warn("admin_decision_notify_failed", "request_id", req.ID, "error", err.Error())
		}
	}

	return req, nil
}
