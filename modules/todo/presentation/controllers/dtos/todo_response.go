package dtos

import (
	"time"

	"github.com/jacksonlee411/office-ops/modules/todo/domain/aggregates/todo"
)

type RecurrenceResponse struct {
	Interval    int    `json:"interval"`
	Unit        string `json:"unit"`
	Count       int    `json:"count,omitempty"`
	PerInterval int    `json:"per_interval,omitempty"`
	DaysOfWeek  []int  `json:"days_of_week,omitempty"`
}

type TodoResponse struct {
	ID                  int64               `json:"id"`
	UserID              int64               `json:"user_id"`
	Title               string              `json:"title"`
	Description         string              `json:"description"`
	Priority            string              `json:"priority"`
	Status              string              `json:"status"`
	DueDate             string              `json:"due_date,omitempty"`
	TargetStartAt       *time.Time          `json:"target_start_at,omitempty"`
	TargetEndAt         *time.Time          `json:"target_end_at,omitempty"`
	TargetDurationValue int                 `json:"target_duration_value,omitempty"`
	TargetDurationUnit  string              `json:"target_duration_unit,omitempty"`
	StartedAt           *time.Time          `json:"started_at,omitempty"`
	SubmittedAt         *time.Time          `json:"submitted_at,omitempty"`
	CompletedAt         *time.Time          `json:"completed_at,omitempty"`
	TotalWorkMinutes    *int                `json:"total_work_minutes,omitempty"`
	TotalWorkTime       string              `json:"total_work_time,omitempty"`
	Evidence            []string            `json:"evidence"`
	CheckerID           *int64              `json:"checker_id,omitempty"`
	CheckerName         string              `json:"checker_name,omitempty"`
	HoldNote            string              `json:"hold_note,omitempty"`
	Notes               string              `json:"notes,omitempty"`
	Rating              *int                `json:"rating"`
	Recurrence          *RecurrenceResponse `json:"recurrence,omitempty"`
	CreatedBy           int64               `json:"created_by,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

func ToTodoResponse(t *todo.Todo) TodoResponse {
	out := TodoResponse{
		ID:                  t.ID,
		UserID:              t.UserID,
		Title:               t.Title,
		Description:         t.Description,
		Priority:            string(t.Priority),
		Status:              string(t.Status),
		TargetStartAt:       t.TargetStartAt,
		TargetEndAt:         t.TargetEndAt,
		TargetDurationValue: t.TargetDurationValue,
		TargetDurationUnit:  string(t.TargetDurationUnit),
		StartedAt:           t.StartedAt,
		SubmittedAt:         t.SubmittedAt,
		CompletedAt:         t.CompletedAt,
		TotalWorkMinutes:    t.TotalWorkMinutes,
		TotalWorkTime:       t.TotalWorkTime,
		Evidence:            t.Evidence,
		CheckerID:           t.CheckerID,
		CheckerName:         t.CheckerName,
		HoldNote:            t.HoldNote,
		Notes:               t.Notes,
		Rating:              t.Rating,
		CreatedBy:           t.CreatedBy,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
	if out.Evidence == nil {
		out.Evidence = []string{}
	}
	if t.DueDate != nil {
		out.DueDate = t.DueDate.Format("2006-01-02")
	}
	if rec := t.Recurrence; rec != nil {
		r := &RecurrenceResponse{
			Interval:    rec.Interval,
			Unit:        string(rec.Unit),
			Count:       rec.Count,
			PerInterval: rec.PerInterval,
		}
		for _, d := range rec.DaysOfWeek {
			r.DaysOfWeek = append(r.DaysOfWeek, int(d))
		}
		out.Recurrence = r
	}
	return out
}

func ToTodoResponses(todos []*todo.Todo) []TodoResponse {
	out := make([]TodoResponse, 0, len(todos))
	for _, t := range todos {
		out = append(out, ToTodoResponse(t))
	}
	return out
}

type WarningResponse struct {
	ID          int64     `json:"id"`
	TodoID      int64     `json:"todo_id"`
	TodoTitle   string    `json:"todo_title,omitempty"`
	UserID      int64     `json:"user_id"`
	EvaluatorID int64     `json:"evaluator_id"`
	Points      int       `json:"points"`
	Level       string    `json:"level"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToWarningResponse(w *todo.Warning) WarningResponse {
	return WarningResponse{
		ID:          w.ID,
		TodoID:      w.TodoID,
		TodoTitle:   w.TodoTitle,
		UserID:      w.UserID,
		EvaluatorID: w.EvaluatorID,
		Points:      w.Points,
		Level:       string(w.Level),
		Note:        w.Note,
		CreatedAt:   w.CreatedAt,
	}
}

func ToWarningResponses(warnings []*todo.Warning) []WarningResponse {
	out := make([]WarningResponse, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, ToWarningResponse(w))
	}
	return out
}

type EvaluateResponse struct {
	Todo    TodoResponse     `json:"todo"`
	Warning *WarningResponse `json:"warning"`
}

type SummaryResponse struct {
	UserID    int64             `json:"user_id"`
	Month     string            `json:"month"`
	Points    int               `json:"points"`
	RawPoints int               `json:"raw_points"`
	Cap       int               `json:"cap"`
	Warnings  []WarningResponse `json:"warnings"`
}

func ToSummaryResponse(s *todo.Summary) SummaryResponse {
	return SummaryResponse{
		UserID:    s.UserID,
		Month:     s.Month.Format("2006-01"),
		Points:    s.Points,
		RawPoints: s.RawPoints,
		Cap:       todo.MonthlyPointsCap,
		Warnings:  ToWarningResponses(s.Warnings),
	}
}

type RoutineResponse struct {
	Dates   []string       `json:"dates"`
	Users   []int64        `json:"users"`
	Created []TodoResponse `json:"created"`
	Skipped int            `json:"skipped"`
}
