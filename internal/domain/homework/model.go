package homework

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// DateLayout is the ISO calendar date key format.
const DateLayout = "2006-01-02"

// NoDescriptionPlaceholder is stored when a media message carries no caption.
const NoDescriptionPlaceholder = "📎 Домашнее задание (файл/фото без описания)"

// DateMap maps ISO date → subject → task content.
type DateMap map[string]map[string]string

// Set is the per-class homework record.
type Set struct {
	ClassKey        string
	Data            DateMap
	SchedulePhotoID string
	UpdatedAt       time.Time
}

// NormalizeSubject case-normalizes a subject name: first letter uppercase,
// remainder lowercase. Reduces accidental duplicate keys like
// "алгебра" vs "Алгебра".
func NormalizeSubject(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}

// SetTask writes the task for (date, subject), creating the date entry when
// absent.
// PRE: subject has been normalized
// POST: m[date][subject] == task
func (m DateMap) SetTask(date, subject, task string) {
	if m[date] == nil {
		m[date] = make(map[string]string)
	}
	m[date][subject] = task
}

// DeleteTask removes the subject from the date entry and prunes the date key
// when it becomes empty. Returns whether anything was removed.
// POST: a date entry with no subjects is absent from the map entirely
func (m DateMap) DeleteTask(date, subject string) bool {
	subjects, ok := m[date]
	if !ok {
		return false
	}
	if _, ok := subjects[subject]; !ok {
		return false
	}
	delete(subjects, subject)
	if len(subjects) == 0 {
		delete(m, date)
	}
	return true
}

// Subjects returns the subject names at date, sorted.
func (m DateMap) Subjects(date string) []string {
	entry := m[date]
	names := make([]string, 0, len(entry))
	for s := range entry {
		names = append(names, s)
	}
	sort.Strings(names)
	return names
}

// DatesFrom returns the stored dates ≥ start with non-empty subject entries,
// ascending. ISO date strings sort chronologically.
func (m DateMap) DatesFrom(start string) []string {
	var dates []string
	for d, subjects := range m {
		if d >= start && len(subjects) > 0 {
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)
	return dates
}

// ValidDate reports whether day/month/year compose a real calendar date.
// time.Date normalizes out-of-range values (Feb 29 on a non-leap year becomes
// Mar 1), so the round trip must reproduce the inputs exactly.
func ValidDate(day, month, year int) bool {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return d.Year() == year && int(d.Month()) == month && d.Day() == day
}

// DateKey formats day/month/year as an ISO date key.
// PRE: ValidDate(day, month, year)
func DateKey(day, month, year int) string {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format(DateLayout)
}
