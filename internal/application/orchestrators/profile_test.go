package orchestrators

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"homeworkbot/internal/domain/user"
)

type fakeEvictor struct {
	evicted []int64
}

func (e *fakeEvictor) Evict(chatID int64) {
	e.evicted = append(e.evicted, chatID)
}

func TestExecuteToggleKeyboardButton_DoubleToggle(t *testing.T) {
	store := newFakeUserStore(user.User{ID: "2", Class: "Б9", Role: user.RoleUser})
	deps := KeyboardDeps{UserStore: store}
	input := ToggleKeyboardInput{UserID: "2", Label: "📆 Неделя"}

	first, err := ExecuteToggleKeyboardButton(context.Background(), input, deps)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !reflect.DeepEqual(first, []string{"📆 Неделя"}) {
		t.Errorf("first = %v", first)
	}

	second, err := ExecuteToggleKeyboardButton(context.Background(), input, deps)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("double toggle must restore the original layout, got %v", second)
	}
}

func TestExecuteToggleKeyboardButton_UnknownLabel(t *testing.T) {
	store := newFakeUserStore(user.User{ID: "2", Class: "Б9", Role: user.RoleUser})
	deps := KeyboardDeps{UserStore: store}

	_, err := ExecuteToggleKeyboardButton(context.Background(), ToggleKeyboardInput{UserID: "2", Label: "🚀 Ракета"}, deps)
	if !errors.Is(err, user.ErrUnknownButton) {
		t.Errorf("err = %v, want ErrUnknownButton", err)
	}
}

func TestExecuteResetKeyboard(t *testing.T) {
	store := newFakeUserStore(user.User{
		ID: "2", Class: "Б9", Role: user.RoleUser,
		CustomKeyboard: []string{"📆 Неделя", "👤 Профиль"},
	})
	deps := KeyboardDeps{UserStore: store}

	got, err := ExecuteResetKeyboard(context.Background(), "2", deps)
	if err != nil {
		t.Fatalf("ExecuteResetKeyboard: %v", err)
	}
	if !reflect.DeepEqual(got, user.DefaultKeyboard()) {
		t.Errorf("got %v, want default set", got)
	}
	if len(store.users["2"].CustomKeyboard) != 0 {
		t.Errorf("custom layout not cleared: %v", store.users["2"].CustomKeyboard)
	}
}

func TestExecuteToggleNotifications(t *testing.T) {
	store := newFakeUserStore(user.User{ID: "2", Class: "Б9", Role: user.RoleUser, NotificationsEnabled: true})
	deps := KeyboardDeps{UserStore: store}

	got, err := ExecuteToggleNotifications(context.Background(), "2", deps)
	if err != nil {
		t.Fatalf("ExecuteToggleNotifications: %v", err)
	}
	if got {
		t.Error("flag should flip to false")
	}
	if store.users["2"].NotificationsEnabled {
		t.Error("flipped flag not persisted")
	}
}

func TestExecuteDeleteProfile(t *testing.T) {
	store := newFakeUserStore(user.User{ID: "2", Class: "Б9", Role: user.RoleUser})
	evictor := &fakeEvictor{}
	deps := DeleteProfileDeps{UserStore: store, Sessions: evictor}

	if err := ExecuteDeleteProfile(context.Background(), DeleteProfileInput{UserID: "2", ChatID: 77}, deps); err != nil {
		t.Fatalf("ExecuteDeleteProfile: %v", err)
	}
	if _, ok := store.users["2"]; ok {
		t.Error("user record still present")
	}
	if !reflect.DeepEqual(evictor.evicted, []int64{77}) {
		t.Errorf("evicted = %v, want [77]", evictor.evicted)
	}
}

func TestExecuteDeleteProfile_NotRegistered(t *testing.T) {
	deps := DeleteProfileDeps{UserStore: newFakeUserStore(), Sessions: &fakeEvictor{}}
	if err := ExecuteDeleteProfile(context.Background(), DeleteProfileInput{UserID: "99", ChatID: 77}, deps); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("err = %v, want ErrNotRegistered", err)
	}
}
