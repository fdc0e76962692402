package persistence

import (
	"time"

	"github.com/jacksonlee411/office-ops/modules/todo/domain/aggregates/todo"
	"github.com/jacksonlee411/office-ops/modules/todo/infrastructure/persistence/models"
)

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func num(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullNum(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

func ToDomainTodo(m *models.Todo) *todo.Todo {
	t := &todo.Todo{
		ID:                  m.ID,
		UserID:              m.UserID,
		Title:               m.Title,
		TitleNormalized:     m.TitleNormalized,
		Description:         m.Description,
		Priority:            todo.Priority(m.Priority),
		Status:              todo.Status(m.Status),
		DueDate:             m.DueDate,
		TargetStartAt:       m.TargetStartAt,
		TargetEndAt:         m.TargetEndAt,
		TargetDurationValue: num(m.TargetDurationValue),
		TargetDurationUnit:  todo.DurationUnit(str(m.TargetDurationUnit)),
		StartedAt:           m.StartedAt,
		SubmittedAt:         m.SubmittedAt,
		CompletedAt:         m.CompletedAt,
		TotalWorkMinutes:    m.TotalWorkMinutes,
		TotalWorkTime:       str(m.TotalWorkTime),
		Evidence:            m.Evidence,
		CheckerID:           m.CheckerID,
		CheckerName:         str(m.CheckerName),
		HoldNote:            str(m.HoldNote),
		Notes:               str(m.Notes),
		Rating:              m.Rating,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
	if m.CreatedBy != nil {
		t.CreatedBy = *m.CreatedBy
	}
	if m.RecurrenceUnit != nil {
		rec := todo.Recurrence{
			Interval:    num(m.RecurrenceInterval),
			Unit:        todo.RecurrenceUnit(*m.RecurrenceUnit),
			Count:       num(m.RecurrenceCount),
			PerInterval: num(m.RecurrencePerInterval),
		}
		for _, d := range m.RecurrenceDaysOfWeek {
			rec.DaysOfWeek = append(rec.DaysOfWeek, time.Weekday(d))
		}
		t.Recurrence = &rec
	}
	return t
}

func ToDBTodo(t *todo.Todo) *models.Todo {
	m := &models.Todo{
		ID:                  t.ID,
		UserID:              t.UserID,
		Title:               t.Title,
		TitleNormalized:     t.TitleNormalized,
		Description:         t.Description,
		Priority:            string(t.Priority),
		Status:              string(t.Status),
		DueDate:             t.DueDate,
		TargetStartAt:       t.TargetStartAt,
		TargetEndAt:         t.TargetEndAt,
		TargetDurationValue: nullNum(t.TargetDurationValue),
		TargetDurationUnit:  nullStr(string(t.TargetDurationUnit)),
		StartedAt:           t.StartedAt,
		SubmittedAt:         t.SubmittedAt,
		CompletedAt:         t.CompletedAt,
		TotalWorkMinutes:    t.TotalWorkMinutes,
		TotalWorkTime:       nullStr(t.TotalWorkTime),
		Evidence:            t.Evidence,
		CheckerID:           t.CheckerID,
		CheckerName:         nullStr(t.CheckerName),
		HoldNote:            nullStr(t.HoldNote),
		Notes:               nullStr(t.Notes),
		Rating:              t.Rating,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
	if m.Evidence == nil {
		m.Evidence = []string{}
	}
	if t.CreatedBy != 0 {
		by := t.CreatedBy
		m.CreatedBy = &by
	}
	if rec := t.Recurrence; rec != nil {
		m.RecurrenceInterval = &rec.Interval
		unit := string(rec.Unit)
		m.RecurrenceUnit = &unit
		m.RecurrenceCount = nullNum(rec.Count)
		m.RecurrencePerInterval = nullNum(rec.PerInterval)
		for _, d := range rec.DaysOfWeek {
			m.RecurrenceDaysOfWeek = append(m.RecurrenceDaysOfWeek, int(d))
		}
	}
	return m
}

func ToDomainWarning(m *models.Warning) *todo.Warning {
	return &todo.Warning{
		ID:          m.ID,
		TodoID:      m.TodoID,
		UserID:      m.UserID,
		EvaluatorID: m.EvaluatorID,
		Points:      m.Points,
		Level:       todo.WarningLevel(m.Level),
		Note:        str(m.Note),
		CreatedAt:   m.CreatedAt,
		TodoTitle:   str(m.TodoTitle),
	}
}
