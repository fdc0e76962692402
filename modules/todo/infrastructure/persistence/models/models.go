package models

import "time"

type Todo struct {
	ID                    int64
	UserID                int64
	Title                 string
	TitleNormalized       string
	Description           string
	Priority              string
	Status                string
	DueDate               *time.Time
	TargetStartAt         *time.Time
	TargetEndAt           *time.Time
	TargetDurationValue   *int
	TargetDurationUnit    *string
	StartedAt             *time.Time
	SubmittedAt           *time.Time
	CompletedAt           *time.Time
	TotalWorkMinutes      *int
	TotalWorkTime         *string
	Evidence              []string
	CheckerID             *int64
	CheckerName           *string
	HoldNote              *string
	Notes                 *string
	Rating                *int
	RecurrenceInterval    *int
	RecurrenceUnit        *string
	RecurrenceCount       *int
	RecurrencePerInterval *int
	RecurrenceDaysOfWeek  []int
	CreatedBy             *int64
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type Warning struct {
	ID          int64
	TodoID      int64
	UserID      int64
	EvaluatorID int64
	Points      int
	Level       string
	Note        *string
	CreatedAt   time.Time
	TodoTitle   *string
}
