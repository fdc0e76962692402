package procurement

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jacksonlee411/office-ops/pkg/constants"
	"github.com/jacksonlee411/office-ops/pkg/serrors"
)

// Procurement records one purchase made against a request.
type Procurement struct {
	ID            int64
	RequestID     int64
	PurchaserID   int64
	PurchaserName string
	PurchaseDate  time.Time
	Amount        decimal.Decimal
	Supplier      string
	Notes         string
	CreatedAt     time.Time
}

type CreateDTO struct {
	RequestID    int64           `json:"request_id" validate:"required,gt=0"`
	PurchaseDate string          `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	Amount       decimal.Decimal `json:"amount"`
	Supplier     string          `json:"supplier" validate:"max=255"`
	Notes        string          `json:"notes" validate:"max=2000"`
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Supplier = strings.TrimSpace(d.Supplier)
	d.Notes = strings.TrimSpace(d.Notes)
	errs := serrors.ValidationErrors{}
	ok := true
	if err := constants.Validate.Struct(d); err != nil {
		verrs, isVerrs := err.(validator.ValidationErrors)
		if !isVerrs {
			return serrors.ValidationErrors{"_": err.Error()}, false
		}
		errs, ok = serrors.ProcessValidatorErrors(verrs), false
	}
	if !d.Amount.IsPositive() {
		errs["amount"] = "amount must be greater than 0"
		ok = false
	}
	return errs, ok
}

// ToEntity defaults the purchase date to the calendar day of now.
func (d *CreateDTO) ToEntity(purchaserID int64, now time.Time) *Procurement {
	y, m, day := now.Date()
	date := time.Date(y, m, day, 0, 0, 0, 0, now.Location())
	if d.PurchaseDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", d.PurchaseDate, now.Location()); err == nil {
			date = t
		}
	}
	return &Procurement{
		RequestID:    d.RequestID,
		PurchaserID:  purchaserID,
		PurchaseDate: date,
		Amount:       d.Amount,
		Supplier:     d.Supplier,
		Notes:        d.Notes,
	}
}

type Repository interface {
	Create(ctx context.Context, data *Procurement) (*Procurement, error)
	ListByRequest(ctx context.Context, requestID int64) ([]*Procurement, error)
}

type CreatedEvent struct {
	Result  Procurement
	ActorID int64
}
