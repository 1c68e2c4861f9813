package user

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Role is the closed set of roles a user can hold.
type Role string

// Role constants. PendingAdmin is the transitional state while an admin
// request awaits moderation.
const (
	RoleUser         Role = "user"
	RolePendingAdmin Role = "pending_admin"
	RoleAdmin        Role = "admin"
)

// ClassLetters is the fixed alphabet of class letters.
var ClassLetters = []string{"А", "Б", "В", "Г", "Д"}

// Default grade bounds for a class number. The configured range may narrow
// this but never widen it.
const (
	DefaultMinGrade = 5
	DefaultMaxGrade = 11
)

// Domain errors
var (
	ErrInvalidRole       = errors.New("unknown role")
	ErrInvalidTransition = errors.New("role transition not allowed")
	ErrInvalidClass      = errors.New("class must be a letter from the class alphabet followed by a grade number")
	ErrUnknownButton     = errors.New("button label is not in the catalog")
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RolePendingAdmin || r == RoleAdmin
}

// IsAdmin reports whether the role grants admin privileges.
// INVARIANT: PendingAdmin grants nothing until approved
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// CanTransitionTo reports whether the role transition is allowed.
// The transition table is:
//
//	user          → pending_admin (request admin)
//	pending_admin → admin         (approved)
//	pending_admin → user          (rejected)
//	admin         → user          (demotion / re-registration)
func (r Role) CanTransitionTo(next Role) bool {
	switch r {
	case RoleUser:
		return next == RolePendingAdmin
	case RolePendingAdmin:
		return next == RoleAdmin || next == RoleUser
	case RoleAdmin:
		return next == RoleUser
	}
	return false
}

// Stats holds per-user usage counters.
type Stats struct {
	HomeworkViews int
	LastActive    time.Time
}

// User is one chat participant.
type User struct {
	ID                   string // Telegram id, stable, immutable after creation
	Username             string
	FirstName            string
	LastName             string
	Class                string
	Role                 Role
	RegisteredAt         time.Time
	NotificationsEnabled bool
	CustomKeyboard       []string // empty means the default set
	Stats                Stats
}

// Validate checks if the User has valid data.
// PRE: User struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (u *User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id cannot be empty")
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	if !ValidClass(u.Class, DefaultMinGrade, DefaultMaxGrade) {
		return ErrInvalidClass
	}
	return nil
}

// FullName joins the name parts, skipping empty ones.
func (u User) FullName() string {
	parts := make([]string, 0, 2)
	if u.FirstName != "" {
		parts = append(parts, u.FirstName)
	}
	if u.LastName != "" {
		parts = append(parts, u.LastName)
	}
	return strings.Join(parts, " ")
}

// ChangeRole applies a role transition.
// PRE: next is a valid role
// POST: Role is updated or ErrInvalidTransition is returned
func (u *User) ChangeRole(next Role) error {
	if !next.Valid() {
		return ErrInvalidRole
	}
	if !u.Role.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, u.Role, next)
	}
	u.Role = next
	return nil
}

// ValidClass reports whether class is one letter from the class alphabet
// followed by a grade number within [minGrade, maxGrade].
func ValidClass(class string, minGrade, maxGrade int) bool {
	if class == "" {
		return false
	}
	letter, size := utf8.DecodeRuneInString(class)
	if letter == utf8.RuneError {
		return false
	}
	known := false
	for _, l := range ClassLetters {
		if string(letter) == l {
			known = true
			break
		}
	}
	if !known {
		return false
	}
	grade, err := strconv.Atoi(class[size:])
	if err != nil {
		return false
	}
	return grade >= minGrade && grade <= maxGrade
}

// ClassKey assembles a class identifier from its parts.
func ClassKey(letter string, grade int) string {
	return letter + strconv.Itoa(grade)
}

// DefaultKeyboard returns the default quick-access button set.
func DefaultKeyboard() []string {
	return []string{"📆 Сегодня", "📅 Завтра", "⚙️ Настройка", "🏠 Меню"}
}

// KeyboardCatalog returns every label a user may place on their keyboard.
func KeyboardCatalog() []string {
	return []string{
		"📆 Сегодня", "📅 Завтра", "📆 Неделя", "⏭️ Другая неделя",
		"🔍 Выбор дня", "📥 Всё ДЗ", "📖 Расписание", "👤 Профиль",
		"⚙️ Настройка", "🏠 Меню",
	}
}

// InCatalog reports whether label is a recognized quick-access button.
func InCatalog(label string) bool {
	for _, l := range KeyboardCatalog() {
		if l == label {
			return true
		}
	}
	return false
}

// ToggleKeyboardButton adds the label if absent and removes it if present.
// PRE: label is in the catalog
// POST: CustomKeyboard contains label iff it did not before
func (u *User) ToggleKeyboardButton(label string) error {
	if !InCatalog(label) {
		return ErrUnknownButton
	}
	for i, l := range u.CustomKeyboard {
		if l == label {
			u.CustomKeyboard = append(u.CustomKeyboard[:i], u.CustomKeyboard[i+1:]...)
			return nil
		}
	}
	u.CustomKeyboard = append(u.CustomKeyboard, label)
	return nil
}

// ActiveKeyboard returns the custom layout, falling back to the default set
// when the custom list is empty.
func (u User) ActiveKeyboard() []string {
	if len(u.CustomKeyboard) == 0 {
		return DefaultKeyboard()
	}
	return u.CustomKeyboard
}
