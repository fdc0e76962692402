package todo

import (
	"strings"
	"time"
)

type Todo struct {
	ID              int64
	UserID          int64
	Title           string
	TitleNormalized string
	Description     string
	Priority        Priority
	Status          Status

	DueDate             *time.Time
	TargetStartAt       *time.Time
	TargetEndAt         *time.Time
	TargetDurationValue int
	TargetDurationUnit  DurationUnit

	StartedAt        *time.Time
	SubmittedAt      *time.Time
	CompletedAt      *time.Time
	TotalWorkMinutes *int
	TotalWorkTime    string

	Evidence    []string
	CheckerID   *int64
	CheckerName string
	HoldNote    string
	Notes       string
	Rating      *int

	// Recurrence is set on instances generated from a routine.
	Recurrence *Recurrence
	CreatedBy  int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// New builds a not-started todo owned by userID.
func New(userID int64, title string, priority Priority) *Todo {
	title = strings.TrimSpace(title)
	if !priority.IsValid() {
		priority = PriorityMedium
	}
	return &Todo{
		UserID:          userID,
		Title:           title,
		TitleNormalized: NormalizeTitle(title),
		Priority:        priority,
		Status:          StatusNotStarted,
	}
}

// Reviewer identifies who checks a todo.
type Reviewer struct {
	ID   int64
	Name string
}

func (t *Todo) SetTitle(title string) {
	t.Title = strings.TrimSpace(title)
	t.TitleNormalized = NormalizeTitle(t.Title)
}

func (t *Todo) IsRoutine() bool {
	return t.Recurrence != nil
}

// TargetMinutes is the explicit target duration, or the target window when
// no explicit value is set.
func (t *Todo) TargetMinutes() (int, bool) {
	if t.TargetDurationValue > 0 {
		if m, ok := t.TargetDurationUnit.Minutes(t.TargetDurationValue); ok && m > 0 {
			return m, true
		}
	}
	if t.TargetStartAt != nil && t.TargetEndAt != nil {
		if m := WindowMinutes(*t.TargetStartAt, *t.TargetEndAt); m > 0 {
			return m, true
		}
	}
	return 0, false
}

func (t *Todo) transition(op Operation) error {
	next, err := Next(t.Status, op)
	if err != nil {
		return err
	}
	t.Status = next
	return nil
}

func (t *Todo) recordWorkTime(now time.Time) {
	if t.StartedAt == nil {
		return
	}
	minutes := ElapsedMinutes(*t.StartedAt, now)
	t.TotalWorkMinutes = &minutes
	t.TotalWorkTime = FormatMinutes(minutes)
}

func (t *Todo) rate() {
	t.Rating = nil
	if t.TotalWorkMinutes == nil {
		return
	}
	target, ok := t.TargetMinutes()
	if !ok {
		return
	}
	if r, ok := Rate(*t.TotalWorkMinutes, target); ok {
		t.Rating = &r
	}
}

func (t *Todo) Start(now time.Time) error {
	if err := t.transition(OpStart); err != nil {
		return err
	}
	if t.StartedAt == nil {
		at := now
		t.StartedAt = &at
	}
	t.HoldNote = ""
	return nil
}

func (t *Todo) Hold(note string) error {
	if _, err := Next(t.Status, OpHold); err != nil {
		return err
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return ErrHoldNoteRequired
	}
	t.Status = StatusHold
	t.HoldNote = note
	return nil
}

// Complete finishes a todo without review. evidence replaces the stored set
// when non-empty; the todo must carry evidence either way.
func (t *Todo) Complete(evidence []string, now time.Time) error {
	if _, err := Next(t.Status, OpComplete); err != nil {
		return err
	}
	if len(evidence) == 0 && len(t.Evidence) == 0 {
		return ErrEvidenceRequired
	}
	if len(evidence) > 0 {
		t.Evidence = append([]string(nil), evidence...)
	}
	t.Status = StatusCompleted
	at := now
	t.CompletedAt = &at
	t.recordWorkTime(now)
	return nil
}

// SubmitForChecking replaces the whole evidence set and hands the todo to
// reviewers.
func (t *Todo) SubmitForChecking(evidence []string, now time.Time) error {
	if _, err := Next(t.Status, OpSubmitForChecking); err != nil {
		return err
	}
	if len(evidence) == 0 {
		return ErrEvidenceRequired
	}
	t.Evidence = append([]string(nil), evidence...)
	t.Status = StatusChecking
	at := now
	t.SubmittedAt = &at
	t.recordWorkTime(now)
	return nil
}

// Approve completes a checked todo and rates it. A warning is returned when
// the rating falls below the threshold.
func (t *Todo) Approve(by Reviewer, notes string, now time.Time) (*Warning, error) {
	if err := t.transition(OpApprove); err != nil {
		return nil, err
	}
	t.review(by, notes)
	if t.TotalWorkMinutes == nil {
		t.recordWorkTime(now)
	}
	at := now
	t.CompletedAt = &at
	t.rate()
	if t.Rating == nil {
		return nil, nil
	}
	points, level, ok := Penalty(*t.Rating)
	if !ok {
		return nil, nil
	}
	return &Warning{
		TodoID:      t.ID,
		UserID:      t.UserID,
		EvaluatorID: by.ID,
		Points:      points,
		Level:       level,
		Note:        strings.TrimSpace(notes),
		CreatedAt:   now,
	}, nil
}

func (t *Todo) Rework(by Reviewer, notes string) error {
	if err := t.transition(OpRework); err != nil {
		return err
	}
	t.review(by, notes)
	return nil
}

// SubmitImprovement returns a reworked todo to checking. evidence replaces
// the stored set only when non-empty.
func (t *Todo) SubmitImprovement(evidence []string, now time.Time) error {
	if err := t.transition(OpSubmitImprovement); err != nil {
		return err
	}
	if len(evidence) > 0 {
		t.Evidence = append([]string(nil), evidence...)
	}
	at := now
	t.SubmittedAt = &at
	return nil
}

// ApproveImprovement completes a reworked todo and re-rates it from the
// recorded work time. It never issues a warning.
func (t *Todo) ApproveImprovement(by Reviewer, notes string, now time.Time) error {
	if err := t.transition(OpApproveImprovement); err != nil {
		return err
	}
	t.review(by, notes)
	at := now
	t.CompletedAt = &at
	t.rate()
	return nil
}

func (t *Todo) review(by Reviewer, notes string) {
	id := by.ID
	t.CheckerID = &id
	t.CheckerName = by.Name
	if notes = strings.TrimSpace(notes); notes != "" {
		t.Notes = notes
	}
}

// EvaluateAction is the reviewer's verdict on a checked todo.
type EvaluateAction string

const (
	EvaluateApprove EvaluateAction = "approve"
	EvaluateRework  EvaluateAction = "rework"
)
