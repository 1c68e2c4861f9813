package orchestrators

import (
	"context"
	"errors"
	"testing"

	"homeworkbot/internal/domain/approval"
	"homeworkbot/internal/domain/user"
)

type fakeApprovalStore struct {
	requests map[string]approval.Request
	saveErr  error
}

func newFakeApprovalStore() *fakeApprovalStore {
	return &fakeApprovalStore{requests: map[string]approval.Request{}}
}

func (s *fakeApprovalStore) GetByID(_ context.Context, id string) (approval.Request, error) {
	req, ok := s.requests[id]
	if !ok {
		return approval.Request{}, errors.New("request not found")
	}
	return req, nil
}

func (s *fakeApprovalStore) Save(_ context.Context, value approval.Request) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.requests[value.ID] = value
	return nil
}

func (s *fakeApprovalStore) PendingByUser(_ context.Context, userID string) ([]approval.Request, error) {
	var out []approval.Request
	for _, r := range s.requests {
		if r.UserID == userID && r.Status == approval.StatusPending {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	prompts   []int64
	failChats map[int64]bool
	decisions map[string]bool
}

func (n *fakeNotifier) NotifyAdminRequest(_ context.Context, adminChatID int64, _ approval.Request, _ user.User) error {
	if n.failChats[adminChatID] {
		return errors.New("chat unreachable")
	}
	n.prompts = append(n.prompts, adminChatID)
	return nil
}

func (n *fakeNotifier) NotifyDecision(_ context.Context, userID string, approved bool) error {
	if n.decisions == nil {
		n.decisions = map[string]bool{}
	}
	n.decisions[userID] = approved
	return nil
}

func TestExecuteRequestAdmin(t *testing.T) {
	users := newFakeUserStore(user.User{ID: "2", Class: "Б9", Role: user.RoleUser})
	approvals := newFakeApprovalStore()
	notifier := &fakeNotifier{}
	deps := RequestAdminDeps{
		UserStore: users, ApprovalStore: approvals, Notifier: notifier,
		AdminChatIDs: []int64{100, 200},
	}

	req, err := ExecuteRequestAdmin(context.Background(), RequestAdminInput{UserID: "2"}, deps)
	if err != nil {
		t.Fatalf("ExecuteRequestAdmin: %v", err)
	}
	if req.ID == "" {
		t.Error("request id not assigned")
	}
	if req.Status != approval.StatusPending {
		t.Errorf("status = %q", req.Status)
	}
	if users.users["2"].Role != user.RolePendingAdmin {
		t.Errorf("requester role = %q, want pending_admin", users.users["2"].Role)
	}
	if len(notifier.prompts) != 2 {
		t.Errorf("prompts = %v, want both admin chats", notifier.prompts)
	}
	if _, ok := approvals.requests[req.ID]; !ok {
		t.Error("request not persisted")
	}
}

func TestExecuteRequestAdmin_NotifierFailureDoesNotAbort(t *testing.T) {
	users := newFakeUserStore(user.User{ID: "2", Class: "Б9", Role: user.RoleUser})
	notifier := &fakeNotifier{failChats: map[int64]bool{100: true}}
	deps := RequestAdminDeps{
		UserStore: users, ApprovalStore: newFakeApprovalStore(), Notifier: notifier,
		AdminChatIDs: []int64{100, 200},
	}

	req, err := ExecuteRequestAdmin(context.Background(), RequestAdminInput{UserID: "2"}, deps)
	if err != nil {
		t.Fatalf("one unreachable chat must not fail the request: %v", err)
	}
	if req.Status != approval.StatusPending {
		t.Errorf("status = %q", req.Status)
	}
	if len(notifier.prompts) != 1 || notifier.prompts[0] != 200 {
		t.Errorf("prompts = %v, want [200]", notifier.prompts)
	}
}

func TestExecuteRequestAdmin_Rejections(t *testing.T) {
	t.Run("already admin", func(t *testing.T) {
		users := newFakeUserStore(user.User{ID: "2", Class: "Б9", Role: user.RoleAdmin})
		deps := RequestAdminDeps{UserStore: users, ApprovalStore: newFakeApprovalStore(), Notifier: &fakeNotifier{}}
		if _, err := ExecuteRequestAdmin(context.Background(), RequestAdminInput{UserID: "2"}, deps); !errors.Is(err, ErrAlreadyAdmin) {
			t.Errorf("err = %v, want ErrAlreadyAdmin", err)
		}
	})

	t.Run("request pending", func(t *testing.T) {
		users := newFakeUserStore(user.User{ID: "2", Class: "Б9", Role: user.RolePendingAdmin})
		approvals := newFakeApprovalStore()
		approvals.requests["r1"] = approval.Request{ID: "r1", UserID: "2", Class: "Б9", Status: approval.StatusPending}
		deps := RequestAdminDeps{UserStore: users, ApprovalStore: approvals, Notifier: &fakeNotifier{}}
		if _, err := ExecuteRequestAdmin(context.Background(), RequestAdminInput{UserID: "2"}, deps); !errors.Is(err, ErrRequestPending) {
			t.Errorf("err = %v, want ErrRequestPending", err)
		}
	})

	t.Run("not registered", func(t *testing.T) {
		deps := RequestAdminDeps{UserStore: newFakeUserStore(), ApprovalStore: newFakeApprovalStore(), Notifier: &fakeNotifier{}}
		if _, err := ExecuteRequestAdmin(context.Background(), RequestAdminInput{UserID: "99"}, deps); !errors.Is(err, ErrNotRegistered) {
			t.Errorf("err = %v, want ErrNotRegistered", err)
		}
	})
}

func TestExecuteRequestAdmin_RequestSaveFailureKeepsRole(t *testing.T) {
	users := newFakeUserStore(user.User{ID: "2", Class: "Б9", Role: user.RoleUser})
	approvals := newFakeApprovalStore()
	approvals.saveErr = errors.New("db down")
	notifier := &fakeNotifier{}
	deps := RequestAdminDeps{
		UserStore: users, ApprovalStore: approvals, Notifier: notifier,
		AdminChatIDs: []int64{100},
	}

	if _, err := ExecuteRequestAdmin(context.Background(), RequestAdminInput{UserID: "2"}, deps); err == nil {
		t.Fatal("expected error from the failing approval store")
	}
	if got := users.users["2"].Role; got != user.RoleUser {
		t.Fatalf("role = %q after failed request save, want user", got)
	}
	if len(notifier.prompts) != 0 {
		t.Errorf("prompts = %v, want none", notifier.prompts)
	}

	// Nothing was left behind, so the retry must go through.
	approvals.saveErr = nil
	req, err := ExecuteRequestAdmin(context.Background(), RequestAdminInput{UserID: "2"}, deps)
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if req.Status != approval.StatusPending {
		t.Errorf("retry status = %q", req.Status)
	}
	if users.users["2"].Role != user.RolePendingAdmin {
		t.Errorf("retry role = %q, want pending_admin", users.users["2"].Role)
	}
}

func TestExecuteRequestAdmin_RoleSaveFailureWithdrawsRequest(t *testing.T) {
	users := newFakeUserStore(user.User{ID: "2", Class: "Б9", Role: user.RoleUser})
	users.saveErr = errors.New("db down")
	approvals := newFakeApprovalStore()
	deps := RequestAdminDeps{
		UserStore: users, ApprovalStore: approvals, Notifier: &fakeNotifier{},
		AdminChatIDs: []int64{100},
	}

	if _, err := ExecuteRequestAdmin(context.Background(), RequestAdminInput{UserID: "2"}, deps); err == nil {
		t.Fatal("expected error from the failing user store")
	}
	pending, err := approvals.PendingByUser(context.Background(), "2")
	if err != nil {
		t.Fatalf("PendingByUser: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending = %v after failed role save, want none", pending)
	}

	users.saveErr = nil
	if _, err := ExecuteRequestAdmin(context.Background(), RequestAdminInput{UserID: "2"}, deps); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
}

func TestExecuteRequestAdmin_RecoversDriftedRole(t *testing.T) {
	// Role stuck at pending_admin without a stored request must not block a
	// fresh request.
	users := newFakeUserStore(user.User{ID: "2", Class: "Б9", Role: user.RolePendingAdmin})
	notifier := &fakeNotifier{}
	deps := RequestAdminDeps{
		UserStore: users, ApprovalStore: newFakeApprovalStore(), Notifier: notifier,
		AdminChatIDs: []int64{100},
	}

	req, err := ExecuteRequestAdmin(context.Background(), RequestAdminInput{UserID: "2"}, deps)
	if err != nil {
		t.Fatalf("ExecuteRequestAdmin: %v", err)
	}
	if req.Status != approval.StatusPending {
		t.Errorf("status = %q", req.Status)
	}
	if users.users["2"].Role != user.RolePendingAdmin {
		t.Errorf("role = %q, want pending_admin", users.users["2"].Role)
	}
	if len(notifier.prompts) != 1 {
		t.Errorf("prompts = %v, want the admin chat", notifier.prompts)
	}
}

func pendingRequestFixture(t *testing.T) (*fakeUserStore, *fakeApprovalStore, *fakeNotifier, approval.Request) {
	t.Helper()
	users := newFakeUserStore(
		user.User{ID: "1", Class: "Б9", Role: user.RoleAdmin},
		user.User{ID: "2", Class: "Б9", Role: user.RoleUser},
	)
	approvals := newFakeApprovalStore()
	notifier := &fakeNotifier{}
	req, err := ExecuteRequestAdmin(context.Background(), RequestAdminInput{UserID: "2"}, RequestAdminDeps{
		UserStore: users, ApprovalStore: approvals, Notifier: notifier,
	})
	if err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return users, approvals, notifier, req
}

func TestExecuteResolveAdminRequest_Approve(t *testing.T) {
	users, approvals, notifier, req := pendingRequestFixture(t)
	deps := ResolveAdminRequestDeps{UserStore: users, ApprovalStore: approvals, Notifier: notifier}

	got, err := ExecuteResolveAdminRequest(context.Background(), ResolveAdminRequestInput{
		RequestID: req.ID, Approve: true, DecidedBy: "1",
	}, deps)
	if err != nil {
		t.Fatalf("ExecuteResolveAdminRequest: %v", err)
	}
	if got.Status != approval.StatusApproved {
		t.Errorf("status = %q", got.Status)
	}
	if got.DecidedBy != "1" || got.DecidedAt.IsZero() {
		t.Errorf("decision metadata missing: %+v", got)
	}
	if users.users["2"].Role != user.RoleAdmin {
		t.Errorf("requester role = %q, want admin", users.users["2"].Role)
	}
	if approved, ok := notifier.decisions["2"]; !ok || !approved {
		t.Errorf("decisions = %v", notifier.decisions)
	}
}

func TestExecuteResolveAdminRequest_Reject(t *testing.T) {
	users, approvals, notifier, req := pendingRequestFixture(t)
	deps := ResolveAdminRequestDeps{UserStore: users, ApprovalStore: approvals, Notifier: notifier}

	got, err := ExecuteResolveAdminRequest(context.Background(), ResolveAdminRequestInput{
		RequestID: req.ID, Approve: false, DecidedBy: "1",
	}, deps)
	if err != nil {
		t.Fatalf("ExecuteResolveAdminRequest: %v", err)
	}
	if got.Status != approval.StatusRejected {
		t.Errorf("status = %q", got.Status)
	}
	if users.users["2"].Role != user.RoleUser {
		t.Errorf("requester role = %q, want user", users.users["2"].Role)
	}
}

func TestExecuteResolveAdminRequest_DecideTwice(t *testing.T) {
	users, approvals, notifier, req := pendingRequestFixture(t)
	deps := ResolveAdminRequestDeps{UserStore: users, ApprovalStore: approvals, Notifier: notifier}
	input := ResolveAdminRequestInput{RequestID: req.ID, Approve: true, DecidedBy: "1"}

	if _, err := ExecuteResolveAdminRequest(context.Background(), input, deps); err != nil {
		t.Fatalf("first decision: %v", err)
	}
	if _, err := ExecuteResolveAdminRequest(context.Background(), input, deps); !errors.Is(err, approval.ErrAlreadyDecided) {
		t.Errorf("err = %v, want ErrAlreadyDecided", err)
	}
}

func TestExecuteResolveAdminRequest_RequesterGone(t *testing.T) {
	users, approvals, notifier, req := pendingRequestFixture(t)
	delete(users.users, "2")
	deps := ResolveAdminRequestDeps{UserStore: users, ApprovalStore: approvals, Notifier: notifier}

	got, err := ExecuteResolveAdminRequest(context.Background(), ResolveAdminRequestInput{
		RequestID: req.ID, Approve: true, DecidedBy: "1",
	}, deps)
	if err != nil {
		t.Fatalf("a vanished requester must not fail the decision: %v", err)
	}
	if got.Status != approval.StatusApproved {
		t.Errorf("status = %q", got.Status)
	}
}
