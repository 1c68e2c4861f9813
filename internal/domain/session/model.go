package session

import "homeworkbot/internal/domain/user"

// Flow tags which wizard, if any, is active in a session. Exactly one flow
// can be active at a time; starting a flow resets every other one.
type Flow int

// Flow constants.
const (
	FlowIdle Flow = iota
	FlowRegistering
	FlowEditing
	FlowPickingDate
	FlowUploadingSchedule
)

// Registration wizard steps.
type RegStep int

const (
	RegStepRole RegStep = iota
	RegStepLetter
	RegStepGrade
	RegStepConfirm
)

// Homework-edit wizard steps.
type EditStep int

const (
	EditStepDay EditStep = iota
	EditStepMonth
	EditStepYear
	EditStepAction  // date confirmed: add / delete / change date
	EditStepSubject // waiting for subject name as free text
	EditStepTask    // waiting for task content as text or media caption
	EditStepDelete  // waiting for a subject choice to remove
)

// Date-picker wizard steps.
type PickStep int

const (
	PickStepDay PickStep = iota
	PickStepMonth
	PickStepYear
)

// Registration holds the registration wizard's accumulated answers.
type Registration struct {
	Step       RegStep
	Role       user.Role
	Letter     string
	Grade      int
	WantsAdmin bool
}

// Edit holds the homework-edit wizard's accumulated answers.
type Edit struct {
	Step    EditStep
	Day     int
	Month   int
	Year    int
	Subject string
}

// DatePick holds the date-picker wizard's accumulated answers.
type DatePick struct {
	Step  PickStep
	Day   int
	Month int
	Year  int
}

// Session is the per-chat transient wizard state. The zero value is idle.
type Session struct {
	Flow        Flow
	Reg         Registration
	Edit        Edit
	Pick        DatePick
	UploadClass string
}

// IsIdle reports whether no wizard is active. Idle sessions are not retained
// by the store.
func (s Session) IsIdle() bool {
	return s.Flow == FlowIdle
}

// Reset returns the session to idle, dropping all wizard state.
func (s *Session) Reset() {
	*s = Session{}
}

// StartRegistration activates the registration wizard at its first step.
// POST: Flow == FlowRegistering, every other flow's state is zeroed
func (s *Session) StartRegistration() {
	s.Reset()
	s.Flow = FlowRegistering
	s.Reg = Registration{Step: RegStepRole}
}

// StartEdit activates the homework-edit wizard at date selection.
func (s *Session) StartEdit() {
	s.Reset()
	s.Flow = FlowEditing
	s.Edit = Edit{Step: EditStepDay}
}

// StartDatePick activates the date-picker wizard.
func (s *Session) StartDatePick() {
	s.Reset()
	s.Flow = FlowPickingDate
	s.Pick = DatePick{Step: PickStepDay}
}

// StartUpload arms the schedule-upload flag for the given class.
func (s *Session) StartUpload(classKey string) {
	s.Reset()
	s.Flow = FlowUploadingSchedule
	s.UploadClass = classKey
}
