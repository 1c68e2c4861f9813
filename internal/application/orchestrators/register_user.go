package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"time"

	userStore "homeworkbot/internal/adapters/storage/user"
	"homeworkbot/internal/domain/user"
)

// RegisterUserStore defines the user store interface for registration.
type RegisterUserStore interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	Save(ctx context.Context, value user.User) error
}

// RegisterUserInput carries the registration wizard's accumulated answers.
type RegisterUserInput struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
	Letter    string
	Grade     int
}

// RegisterUserDeps holds dependencies for RegisterUser.
type RegisterUserDeps struct {
	UserStore RegisterUserStore
	MinGrade  int // zero falls back to the domain default
	MaxGrade  int
}

// ExecuteRegisterUser coordinates registration confirmation.
// PRE: The wizard collected letter and grade choices
// POST: User created with role=user, default keyboard, notifications on
// INVARIANT: An existing record is never overwritten (ErrAlreadyRegistered)
func ExecuteRegisterUser(ctx context.Context, input RegisterUserInput, deps RegisterUserDeps) (user.User, error) {
	if input.ID == "" {
		return user.User{}, errors.New("user id cannot be empty")
	}

	minGrade, maxGrade := deps.MinGrade, deps.MaxGrade
	if minGrade == 0 {
		minGrade = user.DefaultMinGrade
	}
	if maxGrade == 0 {
		maxGrade = user.DefaultMaxGrade
	}

	classKey := user.ClassKey(input.Letter, input.Grade)
	if !user.ValidClass(classKey, minGrade, maxGrade) {
		return user.User{}, fmt.Errorf("%w: %q", user.ErrInvalidClass, classKey)
	}

	if _, err := deps.UserStore.GetByID(ctx, input.ID); err == nil {
		return user.User{}, ErrAlreadyRegistered
	} else if !errors.Is(err, userStore.ErrNotFound) {
		return user.User{}, fmt.Errorf("check existing registration: %w", err)
	}

	u := user.User{
		ID:                   input.ID,
		Username:             input.Username,
		FirstName:            input.FirstName,
		LastName:             input.LastName,
		Class:                classKey,
		Role:                 user.RoleUser,
		RegisteredAt:         time.Now(),
		NotificationsEnabled: true,
	}
	if err := u.Validate(); err != nil {
		return user.User{}, err
	}

	if err := deps.UserStore.Save(ctx, u); err != nil {
		return user.User{}, fmt.Errorf("save new user: %w", err)
	}
	return u, nil
}
