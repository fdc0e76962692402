package todo

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jacksonlee411/office-ops/pkg/constants"
	"github.com/jacksonlee411/office-ops/pkg/serrors"
)

const dateLayout = "2006-01-02"

func validate(d any) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(d)
	if errs == nil {
		return serrors.ValidationErrors{}, true
	}
	verrs, ok := errs.(validator.ValidationErrors)
	if !ok {
		return serrors.ValidationErrors{"_": errs.Error()}, false
	}
	return serrors.ProcessValidatorErrors(verrs), false
}

func parseDate(s string, loc *time.Location) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return nil
	}
	return &t
}

// TargetDTO carries the optional target fields shared by create and update.
type TargetDTO struct {
	DueDate             string     `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	TargetStartAt       *time.Time `json:"target_start_at"`
	TargetEndAt         *time.Time `json:"target_end_at"`
	TargetDurationValue int        `json:"target_duration_value" validate:"gte=0,lte=100000"`
	TargetDurationUnit  string     `json:"target_duration_unit" validate:"omitempty,oneof=minutes hours days"`
}

func (d TargetDTO) check(errs serrors.ValidationErrors, ok bool) (serrors.ValidationErrors, bool) {
	if d.TargetDurationValue > 0 && d.TargetDurationUnit == "" {
		errs["target_duration_unit"] = "target_duration_unit is required"
		ok = false
	}
	return errs, ok
}

func (d TargetDTO) apply(t *Todo, loc *time.Location) {
	t.DueDate = parseDate(d.DueDate, loc)
	t.TargetStartAt = d.TargetStartAt
	t.TargetEndAt = d.TargetEndAt
	t.TargetDurationValue = d.TargetDurationValue
	t.TargetDurationUnit = DurationUnit(d.TargetDurationUnit)
	if d.TargetDurationValue == 0 {
		t.TargetDurationUnit = ""
	}
}

type CreateDTO struct {
	UserID      int64  `json:"user_id" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=5000"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	TargetDTO
}

func (d *CreateDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Priority = strings.ToLower(strings.TrimSpace(d.Priority))
	d.TargetDurationUnit = strings.ToLower(strings.TrimSpace(d.TargetDurationUnit))
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs, ok := validate(d)
	return d.TargetDTO.check(errs, ok)
}

func (d *CreateDTO) ToEntity(createdBy int64, loc *time.Location) *Todo {
	t := New(d.UserID, d.Title, Priority(d.Priority))
	t.Description = d.Description
	t.CreatedBy = createdBy
	d.apply(t, loc)
	return t
}

type UpdateDTO struct {
	UserID      int64  `json:"user_id" validate:"omitempty,gt=0"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=5000"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	TargetDTO
	Recurrence *RecurrenceDTO `json:"recurrence"`
}

func (d *UpdateDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Priority = strings.ToLower(strings.TrimSpace(d.Priority))
	d.TargetDurationUnit = strings.ToLower(strings.TrimSpace(d.TargetDurationUnit))
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs, ok := validate(d)
	return d.TargetDTO.check(errs, ok)
}

// Apply copies the DTO onto t. Recurrence changes on a routine instance are
// rejected.
func (d *UpdateDTO) Apply(t *Todo, loc *time.Location) error {
	if t.Status == StatusCompleted {
		return ErrCompleted
	}
	if d.Recurrence != nil {
		next := d.Recurrence.ToRecurrence()
		if t.Recurrence == nil || !t.Recurrence.Equal(next) {
			return ErrRecurrenceLocked
		}
	}
	if d.UserID > 0 {
		t.UserID = d.UserID
	}
	t.SetTitle(d.Title)
	t.Description = d.Description
	if p := Priority(d.Priority); p.IsValid() {
		t.Priority = p
	}
	d.apply(t, loc)
	return nil
}

type RecurrenceDTO struct {
	Interval    int    `json:"interval" validate:"required,gte=1,lte=365"`
	Unit        string `json:"unit" validate:"required,oneof=day week month year"`
	Count       int    `json:"count" validate:"gte=0,lte=366"`
	PerInterval int    `json:"per_interval" validate:"gte=0,lte=10"`
	DaysOfWeek  []int  `json:"days_of_week" validate:"omitempty,dive,gte=0,lte=6"`
}

func (d RecurrenceDTO) ToRecurrence() Recurrence {
	r := Recurrence{
		Interval:    d.Interval,
		Unit:        RecurrenceUnit(strings.ToLower(strings.TrimSpace(d.Unit))),
		Count:       d.Count,
		PerInterval: d.PerInterval,
	}
	for _, day := range d.DaysOfWeek {
		r.DaysOfWeek = append(r.DaysOfWeek, time.Weekday(day))
	}
	return r
}

// RoutineDTO defines a routine and the users it is assigned to.
type RoutineDTO struct {
	Title               string  `json:"title" validate:"required,max=255"`
	Description         string  `json:"description" validate:"max=5000"`
	Priority            string  `json:"priority" validate:"omitempty,oneof=low medium high"`
	StartDate           string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	UserIDs             []int64 `json:"user_ids" validate:"omitempty,dive,gt=0"`
	Category            string  `json:"category" validate:"max=100"`
	TargetStartTime     string  `json:"target_start_time" validate:"omitempty,datetime=15:04"`
	TargetEndTime       string  `json:"target_end_time" validate:"omitempty,datetime=15:04"`
	TargetDurationValue int     `json:"target_duration_value" validate:"gte=0,lte=100000"`
	TargetDurationUnit  string  `json:"target_duration_unit" validate:"omitempty,oneof=minutes hours days"`
	RecurrenceDTO
}

func (d *RoutineDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Priority = strings.ToLower(strings.TrimSpace(d.Priority))
	d.Category = strings.TrimSpace(d.Category)
	d.Unit = strings.ToLower(strings.TrimSpace(d.Unit))
	d.TargetDurationUnit = strings.ToLower(strings.TrimSpace(d.TargetDurationUnit))
}

func (d *RoutineDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs, ok := validate(d)
	if len(d.UserIDs) == 0 && d.Category == "" {
		errs["user_ids"] = "user_ids or category is required"
		ok = false
	}
	if d.TargetDurationValue > 0 && d.TargetDurationUnit == "" {
		errs["target_duration_unit"] = "target_duration_unit is required"
		ok = false
	}
	if len(d.DaysOfWeek) > 0 && d.Unit != string(UnitWeek) {
		errs["days_of_week"] = "days_of_week only apply to weekly routines"
		ok = false
	}
	return errs, ok
}

func (d *RoutineDTO) Start(loc *time.Location) time.Time {
	if t := parseDate(d.StartDate, loc); t != nil {
		return *t
	}
	return time.Time{}
}

// Instance builds the todo for one user on one date.
func (d *RoutineDTO) Instance(userID int64, day time.Time, createdBy int64) *Todo {
	t := New(userID, d.Title, Priority(d.Priority))
	t.Description = d.Description
	t.CreatedBy = createdBy
	due := day
	t.DueDate = &due
	if m, err := ParseClock(d.TargetStartTime); d.TargetStartTime != "" && err == nil {
		at := At(day, m)
		t.TargetStartAt = &at
	}
	if m, err := ParseClock(d.TargetEndTime); d.TargetEndTime != "" && err == nil {
		at := At(day, m)
		t.TargetEndAt = &at
	}
	if d.TargetDurationValue > 0 {
		t.TargetDurationValue = d.TargetDurationValue
		t.TargetDurationUnit = DurationUnit(d.TargetDurationUnit)
	}
	rec := d.ToRecurrence()
	t.Recurrence = &rec
	return t
}

// RoutineGroupDTO selects a routine group for deletion.
type RoutineGroupDTO struct {
	Title    string `json:"title" form:"title" validate:"required"`
	Interval int    `json:"interval" form:"interval" validate:"gte=0"`
	Unit     string `json:"unit" form:"unit" validate:"omitempty,oneof=day week month year"`
	Count    int    `json:"count" form:"count" validate:"gte=0"`
	Category string `json:"category" form:"category"`
	UserID   int64  `json:"user_id" form:"user_id" validate:"gte=0"`
}

func (d *RoutineGroupDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Title = strings.TrimSpace(d.Title)
	d.Unit = strings.ToLower(strings.TrimSpace(d.Unit))
	d.Category = strings.TrimSpace(d.Category)
	return validate(d)
}

func (d *RoutineGroupDTO) Params() RoutineGroupParams {
	return RoutineGroupParams{
		TitleNormalized: NormalizeTitle(d.Title),
		Interval:        d.Interval,
		Unit:            RecurrenceUnit(d.Unit),
		Count:           d.Count,
		Category:        d.Category,
		UserID:          d.UserID,
	}
}

type HoldDTO struct {
	Note string `json:"hold_note" form:"hold_note" validate:"required,max=2000"`
}

func (d *HoldDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Note = strings.TrimSpace(d.Note)
	return validate(d)
}

type EvaluateDTO struct {
	Action string `json:"action" form:"action" validate:"required,oneof=approve rework"`
	Notes  string `json:"notes" form:"notes" validate:"max=2000"`
}

func (d *EvaluateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Action = strings.ToLower(strings.TrimSpace(d.Action))
	d.Notes = strings.TrimSpace(d.Notes)
	return validate(d)
}

type ReviewDTO struct {
	Notes string `json:"notes" form:"notes" validate:"max=2000"`
}

func (d *ReviewDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Notes = strings.TrimSpace(d.Notes)
	return validate(d)
}
