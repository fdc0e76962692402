package request

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jacksonlee411/office-ops/pkg/constants"
	"github.com/jacksonlee411/office-ops/pkg/serrors"
)

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

type CreateDTO struct {
	ItemName      string          `json:"item_name" validate:"required,max=255"`
	Quantity      int             `json:"quantity" validate:"required,gt=0,lte=100000"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	Category      string          `json:"category" validate:"required,max=100"`
	Reason        string          `json:"reason" validate:"max=2000"`
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.ItemName = strings.TrimSpace(d.ItemName)
	d.Category = strings.TrimSpace(d.Category)
	errs, ok := validate(d)
	if d.EstimatedCost.IsNegative() {
		errs["estimated_cost"] = "estimated_cost cannot be negative"
		ok = false
	}
	return errs, ok
}

func (d *CreateDTO) ToEntity(userID int64) *Request {
	r := New(userID, d.ItemName, d.Quantity, d.Category)
	r.EstimatedCost = d.EstimatedCost
	r.Reason = d.Reason
	return r
}

type UpdateDTO CreateDTO

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	return (*CreateDTO)(d).Ok()
}

func (d *UpdateDTO) Apply(r *Request) {
	r.ItemName = d.ItemName
	r.Quantity = d.Quantity
	r.EstimatedCost = d.EstimatedCost
	r.Category = d.Category
	r.Reason = d.Reason
}

// DecisionDTO carries the GA note for approve and reject.
type DecisionDTO struct {
	Note string `json:"note" validate:"max=2000"`
}

func (d *DecisionDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Note = strings.TrimSpace(d.Note)
	return validate(d)
}

type MaintenanceDTO struct {
	Type string `json:"type" validate:"required,oneof=repair replacement"`
	Note string `json:"note" validate:"max=2000"`
}

func (d *MaintenanceDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Note = strings.TrimSpace(d.Note)
	return validate(d)
}

type CompleteMaintenanceDTO struct {
	Notes string `json:"notes" validate:"max=2000"`
}

func (d *CompleteMaintenanceDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Notes = strings.TrimSpace(d.Notes)
	return validate(d)
}
