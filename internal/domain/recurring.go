package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recurrence is the fixed interval between generated occurrences.
type Recurrence string

const (
	RecurrenceDaily     Recurrence = "DAILY"
	RecurrenceWeekly    Recurrence = "WEEKLY"
	RecurrenceBiWeekly  Recurrence = "BIWEEKLY"
	RecurrenceMonthly   Recurrence = "MONTHLY"
	RecurrenceQuarterly Recurrence = "QUARTERLY"
	RecurrenceYearly    Recurrence = "YEARLY"
)

// nextOccurrence applies the recurrence offset to a checkpoint date.
func (r Recurrence) nextOccurrence(base time.Time) time.Time {
	switch r {
	case RecurrenceDaily:
		return base.AddDate(0, 0, 1)
	case RecurrenceWeekly:
		return base.AddDate(0, 0, 7)
	case RecurrenceBiWeekly:
		return base.AddDate(0, 0, 14)
	case RecurrenceMonthly:
		return base.AddDate(0, 1, 0)
	case RecurrenceQuarterly:
		return base.AddDate(0, 3, 0)
	case RecurrenceYearly:
		return base.AddDate(1, 0, 0)
	}
	return base
}

func (r Recurrence) validForExpense() bool {
	switch r {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceBiWeekly, RecurrenceMonthly, RecurrenceQuarterly, RecurrenceYearly:
		return true
	}
	return false
}

func (r Recurrence) validForIncome() bool {
	switch r {
	case RecurrenceWeekly, RecurrenceBiWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

// nextDue computes the next occurrence from the checkpoint (last generated
// date, falling back to the start date) and reports whether the schedule has
// run past its end date. The next due date is always recomputed from the
// checkpoint, never advanced incrementally from the previous due date. The
// calculation is pure; the caller applies the expiry by clearing the due
// date and deactivating.
func nextDue(rec Recurrence, start time.Time, last, end *time.Time) (time.Time, bool) {
	base := start
	if last != nil {
		base = *last
	}
	next := rec.nextOccurrence(base)
	if end != nil && next.After(*end) {
		return time.Time{}, true
	}
	return next, false
}

// sameCalendarDay compares two instants by calendar day only.
func sameCalendarDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// RecurringExpense is a template that generates expense occurrences on a
// fixed schedule. NextDueDate is derived state, recomputed from the
// checkpoint whenever the schedule advances.
type RecurringExpense struct {
	ID                uuid.UUID
	Name              string
	Amount            Money
	Recurrence        Recurrence
	DayOfMonth        int
	CategoryID        uuid.UUID
	AccountID         uuid.UUID
	UserID            uuid.UUID
	StartDate         time.Time
	EndDate           *time.Time
	LastGeneratedDate *time.Time
	NextDueDate       *time.Time
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewRecurringExpense validates input and constructs an active recurring
// expense with its first due date already computed.
func NewRecurringExpense(name string, amount decimal.Decimal, currency string, rec Recurrence, dayOfMonth int, categoryID, accountID, userID uuid.UUID, startDate time.Time, endDate *time.Time) (*RecurringExpense, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErrorf("recurring expense name cannot be empty")
	}

	money, err := NewMoney(amount, currency)
	if err != nil {
		return nil, err
	}
	if !money.IsPositive() {
		return nil, validationErrorf("recurring expense amount must be positive")
	}
	if !rec.validForExpense() {
		return nil, validationErrorf("invalid recurrence %q for a recurring expense", rec)
	}
	if dayOfMonth < 1 || dayOfMonth > 31 {
		return nil, validationErrorf("day of month must be between 1 and 31, got %d", dayOfMonth)
	}
	if endDate != nil && endDate.Before(startDate) {
		return nil, validationErrorf("end date cannot be before start date")
	}

	now := time.Now().UTC()
	e := &RecurringExpense{
		ID:         uuid.New(),
		Name:       name,
		Amount:     money,
		Recurrence: rec,
		DayOfMonth: dayOfMonth,
		CategoryID: categoryID,
		AccountID:  accountID,
		UserID:     userID,
		StartDate:  startDate,
		EndDate:    endDate,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	e.CalculateNextDueDate()
	return e, nil
}

// CalculateNextDueDate recomputes the due date from the checkpoint. A
// schedule that has run past its end date retires itself: the due date is
// cleared and the recurrence deactivated.
func (e *RecurringExpense) CalculateNextDueDate() {
	next, expired := nextDue(e.Recurrence, e.StartDate, e.LastGeneratedDate, e.EndDate)
	if expired {
		e.NextDueDate = nil
		e.IsActive = false
		return
	}
	e.NextDueDate = &next
}

// RecordGeneration advances the checkpoint after an occurrence has been
// generated and recomputes the due date. Calling it twice for the same
// logical occurrence double-advances the schedule.
func (e *RecurringExpense) RecordGeneration(date time.Time) {
	d := date
	e.LastGeneratedDate = &d
	e.CalculateNextDueDate()
	e.touch()
}

// Pause suspends generation. Fails if the schedule is already inactive.
func (e *RecurringExpense) Pause() error {
	if !e.IsActive {
		return fmt.Errorf("%w: recurring expense is already inactive", ErrInvalidTransition)
	}
	e.IsActive = false
	e.touch()
	return nil
}

// Resume reactivates the schedule and recomputes the due date from the
// existing checkpoint. There is no catch-up on missed occurrences: the
// recomputed due date may already be in the past, and the scheduler treats
// any due date at or before now as due.
func (e *RecurringExpense) Resume() error {
	if e.IsActive {
		return fmt.Errorf("%w: recurring expense is already active", ErrInvalidTransition)
	}
	e.IsActive = true
	e.CalculateNextDueDate()
	e.touch()
	return nil
}

// IsDueToday is an exact calendar-day match, not "due on or before".
func (e *RecurringExpense) IsDueToday(today time.Time) bool {
	return e.NextDueDate != nil && sameCalendarDay(*e.NextDueDate, today)
}

func (e *RecurringExpense) touch() {
	e.UpdatedAt = time.Now().UTC()
}

// RecurringIncome is a template that generates income occurrences on a fixed
// schedule. It supports a narrower recurrence set than expenses (no daily or
// quarterly) and has no day-of-month constraint.
type RecurringIncome struct {
	ID                uuid.UUID
	Name              string
	Amount            Money
	Recurrence        Recurrence
	SourceID          uuid.UUID
	AccountID         uuid.UUID
	UserID            uuid.UUID
	StartDate         time.Time
	EndDate           *time.Time
	LastGeneratedDate *time.Time
	NextDueDate       *time.Time
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewRecurringIncome validates input and constructs an active recurring
// income with its first due date already computed.
func NewRecurringIncome(name string, amount decimal.Decimal, currency string, rec Recurrence, sourceID, accountID, userID uuid.UUID, startDate time.Time, endDate *time.Time) (*RecurringIncome, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErrorf("recurring income name cannot be empty")
	}

	money, err := NewMoney(amount, currency)
	if err != nil {
		return nil, err
	}
	if !money.IsPositive() {
		return nil, validationErrorf("recurring income amount must be positive")
	}
	if !rec.validForIncome() {
		return nil, validationErrorf("invalid recurrence %q for a recurring income", rec)
	}
	if endDate != nil && endDate.Before(startDate) {
		return nil, validationErrorf("end date cannot be before start date")
	}

	now := time.Now().UTC()
	in := &RecurringIncome{
		ID:         uuid.New(),
		Name:       name,
		Amount:     money,
		Recurrence: rec,
		SourceID:   sourceID,
		AccountID:  accountID,
		UserID:     userID,
		StartDate:  startDate,
		EndDate:    endDate,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	in.CalculateNextDueDate()
	return in, nil
}

// CalculateNextDueDate recomputes the due date from the checkpoint, retiring
// the schedule when it runs past its end date.
func (in *RecurringIncome) CalculateNextDueDate() {
	next, expired := nextDue(in.Recurrence, in.StartDate, in.LastGeneratedDate, in.EndDate)
	if expired {
		in.NextDueDate = nil
		in.IsActive = false
		return
	}
	in.NextDueDate = &next
}

// RecordGeneration advances the checkpoint and recomputes the due date.
func (in *RecurringIncome) RecordGeneration(date time.Time) {
	d := date
	in.LastGeneratedDate = &d
	in.CalculateNextDueDate()
	in.touch()
}

// Pause suspends generation. Fails if the schedule is already inactive.
func (in *RecurringIncome) Pause() error {
	if !in.IsActive {
		return fmt.Errorf("%w: recurring income is already inactive", ErrInvalidTransition)
	}
	in.IsActive = false
	in.touch()
	return nil
}

// Resume reactivates the schedule from the existing checkpoint, without
// catching up on missed occurrences.
func (in *RecurringIncome) Resume() error {
	if in.IsActive {
		return fmt.Errorf("%w: recurring income is already active", ErrInvalidTransition)
	}
	in.IsActive = true
	in.CalculateNextDueDate()
	in.touch()
	return nil
}

// IsDueToday is an exact calendar-day match.
func (in *RecurringIncome) IsDueToday(today time.Time) bool {
	return in.NextDueDate != nil && sameCalendarDay(*in.NextDueDate, today)
}

func (in *RecurringIncome) touch() {
	in.UpdatedAt = time.Now().UTC()
}
