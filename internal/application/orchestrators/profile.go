package orchestrators

import (
	"context"
	"errors"
	"fmt"

	userStore "homeworkbot/internal/adapters/storage/user"
	"homeworkbot/internal/domain/user"
)

// ProfileUserStore defines the user store interface for profile mutations.
type ProfileUserStore interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	Save(ctx context.Context, value user.User) error
	Delete(ctx context.Context, id string) error
}

// loadRegistered fetches a user, mapping absence to ErrNotRegistered.
func loadRegistered(ctx context.Context, store ProfileUserStore, id string) (user.User, error) {
	u, err := store.GetByID(ctx, id)
	if errors.Is(err, userStore.ErrNotFound) {
		return user.User{}, ErrNotRegistered
	}
	if err != nil {
		return user.User{}, fmt.Errorf("load user %s: %w", id, err)
	}
	return u, nil
}

// ToggleKeyboardInput carries one keyboard customization tap.
type ToggleKeyboardInput struct {
	UserID string
	Label  string
}

// KeyboardDeps holds dependencies for the keyboard orchestrators.
type KeyboardDeps struct {
	UserStore ProfileUserStore
}

// ExecuteToggleKeyboardButton toggles one catalog label on the user's custom
// keyboard and persists the result.
// POST: Returns the updated custom layout (possibly empty)
func ExecuteToggleKeyboardButton(ctx context.Context, input ToggleKeyboardInput, deps KeyboardDeps) ([]string, error) {
	u, err := loadRegistered(ctx, deps.UserStore, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := u.ToggleKeyboardButton(input.Label); err != nil {
		return nil, err
	}
	if err := deps.UserStore.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("save keyboard: %w", err)
	}
	return u.CustomKeyboard, nil
}

// ExecuteResetKeyboard clears the custom layout back to the default set.
func ExecuteResetKeyboard(ctx context.Context, userID string, deps KeyboardDeps) ([]string, error) {
	u, err := loadRegistered(ctx, deps.UserStore, userID)
	if err != nil {
		return nil, err
	}
	u.CustomKeyboard = nil
	if err := deps.UserStore.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("save keyboard: %w", err)
	}
	return user.DefaultKeyboard(), nil
}

// ExecuteToggleNotifications flips the notification flag and returns the new
// value.
func ExecuteToggleNotifications(ctx context.Context, userID string, deps KeyboardDeps) (bool, error) {
	u, err := loadRegistered(ctx, deps.UserStore, userID)
	if err != nil {
		return false, err
	}
	u.NotificationsEnabled = !u.NotificationsEnabled
	if err := deps.UserStore.Save(ctx, u); err != nil {
		return false, fmt.Errorf("save notifications flag: %w", err)
	}
	return u.NotificationsEnabled, nil
}

// SessionEvictor drops a chat's in-memory session.
type SessionEvictor interface {
	Evict(chatID int64)
}

// DeleteProfileInput identifies the profile and its chat session.
type DeleteProfileInput struct {
	UserID string
	ChatID int64
}

// DeleteProfileDeps holds dependencies for DeleteProfile.
type DeleteProfileDeps struct {
	UserStore ProfileUserStore
	Sessions  SessionEvictor
}

// ExecuteDeleteProfile removes the user record and discards the chat's
// session outright.
// POST: User record gone, session evicted (not merely cleared)
func ExecuteDeleteProfile(ctx context.Context, input DeleteProfileInput, deps DeleteProfileDeps) error {
	if _, err := loadRegistered(ctx, deps.UserStore, input.UserID); err != nil {
		return err
	}
	if err := deps.UserStore.Delete(ctx, input.UserID); err != nil {
		return fmt.Errorf("delete user %s: %w", input.UserID, err)
	}
	if deps.Sessions != nil {
		deps.Sessions.Evict(input.ChatID)
	}
	return nil
}
