package asset

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/request"
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

// DetailsDTO holds the descriptive fields an admin may edit.
type DetailsDTO struct {
	Name         string           `json:"name" validate:"required,max=255"`
	Category     string           `json:"category" validate:"required,max=100"`
	Color        string           `json:"color" validate:"max=50"`
	Location     string           `json:"location" validate:"max=255"`
	Supplier     string           `json:"supplier" validate:"max=255"`
	Cost         *decimal.Decimal `json:"cost"`
	PurchaseDate string           `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
}

func (d *DetailsDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Name = strings.TrimSpace(d.Name)
	d.Category = strings.TrimSpace(d.Category)
	errs, ok := validate(d)
	if d.Cost != nil && d.Cost.IsNegative() {
		errs["cost"] = "cost cannot be negative"
		ok = false
	}
	return errs, ok
}

func (d *DetailsDTO) Apply(a *Asset, loc *time.Location) {
	a.Name = d.Name
	a.Category = d.Category
	a.Color = d.Color
	a.Location = d.Location
	a.Supplier = d.Supplier
	a.Cost = d.Cost
	a.PurchaseDate = nil
	if d.PurchaseDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", d.PurchaseDate, loc); err == nil {
			a.PurchaseDate = &t
		}
	}
}

// CreateDTO registers an asset directly, outside the request pipeline.
type CreateDTO struct {
	DetailsDTO
	RequestID   *int64 `json:"request_id" validate:"omitempty,gt=0"`
	Acquisition string `json:"acquisition" validate:"omitempty,oneof=purchasing data_input"`
	Status      string `json:"status" validate:"omitempty,oneof=procurement not_received received needs_repair needs_replacement repairing replacing"`
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	errs, ok := d.DetailsDTO.Ok()
	if !ok {
		return errs, false
	}
	if errs, ok = validate(d); !ok {
		return errs, false
	}
	// Purchasing assets belong to a request; without one they count as orphans.
	if Acquisition(d.Acquisition) == AcquisitionPurchasing && d.RequestID == nil {
		errs["request_id"] = "purchasing assets require a request"
		return errs, false
	}
	return errs, true
}

func (d *CreateDTO) ToEntity(code string, createdBy int64, loc *time.Location) *Asset {
	a := &Asset{
		RequestID:   d.RequestID,
		Code:        code,
		Acquisition: AcquisitionDataInput,
		Status:      StatusNotReceived,
		CreatedBy:   createdBy,
	}
	a.Maintenance.Status = request.MaintenanceNone
	if d.Acquisition != "" {
		a.Acquisition = Acquisition(d.Acquisition)
	}
	if d.Status != "" {
		a.Status = Status(d.Status)
	}
	d.DetailsDTO.Apply(a, loc)
	return a
}

// StatusDTO is decoded from the multipart form of a status update; the proof
// file travels alongside it.
type StatusDTO struct {
	Status string `json:"status" form:"status" validate:"required"`
	Note   string `json:"note" form:"note" validate:"max=2000"`
}

func (d *StatusDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Status = strings.TrimSpace(d.Status)
	d.Note = strings.TrimSpace(d.Note)
	return validate(d)
}
