package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Maintenance struct {
	Status          string
	Type            *string
	Note            *string
	RequestedBy     *int64
	RequestedAt     *time.Time
	StartedBy       *int64
	StartedAt       *time.Time
	CompletedBy     *int64
	CompletedAt     *time.Time
	CompletionNotes *string
}

type Request struct {
	ID            int64
	UserID        int64
	UserName      string
	ItemName      string
	Quantity      int
	EstimatedCost decimal.Decimal
	ActualCost    decimal.NullDecimal
	Category      string
	Reason        *string
	Status        string
	GANote        *string
	DecidedBy     *int64
	DecidedAt     *time.Time
	Maintenance   Maintenance
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Asset struct {
	ID             int64
	RequestID      *int64
	OwnerID        *int64
	Code           string
	Name           string
	Category       string
	Color          *string
	Location       *string
	Acquisition    string
	Supplier       *string
	Cost           decimal.NullDecimal
	PurchaseDate   *time.Time
	Status         string
	StatusNote     *string
	ReceiptProof   *string
	ConditionProof *string
	Maintenance    Maintenance
	CreatedBy      *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Procurement struct {
	ID            int64
	RequestID     int64
	PurchaserID   int64
	PurchaserName string
	PurchaseDate  time.Time
	Amount        decimal.Decimal
	Supplier      *string
	Notes         *string
	CreatedAt     time.Time
}
