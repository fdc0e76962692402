package procurement

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCreateDTO(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	now := time.Date(2025, 1, 15, 22, 0, 0, 0, loc)

	d := &CreateDTO{RequestID: 42, Amount: decimal.RequireFromString("1250000.00"), Notes: "  paid cash "}
	_, ok := d.Ok()
	require.True(t, ok)
	p := d.ToEntity(5, now)
	require.Equal(t, "paid cash", p.Notes)
	require.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, loc), p.PurchaseDate)

	d.PurchaseDate = "2025-01-12"
	require.Equal(t, 12, d.ToEntity(5, now).PurchaseDate.Day())

	errs, ok := (&CreateDTO{}).Ok()
	require.False(t, ok)
	require.Contains(t, errs, "request_id")
	require.Contains(t, errs, "amount")
}
