package shipping

import (
	"testing"
	"time"

	"checkout-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(Config{})
}

func TestGetZoneDomestic(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		state string
		want  string
	}{
		{"CA", "1"},
		{"WA", "1"},
		{"CO", "2"},
		{"TX", "3"},
		{"FL", "4"},
		{"NY", "5"},
		{"AK", "6"},
		{"PR", "6"},
		{"ZZ", "5"}, // unknown defaults to 5
		{"", "5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.GetZone("US", tt.state), "state %q", tt.state)
	}
}

func TestGetZoneInternational(t *testing.T) {
	e := newTestEngine()

	assert.Equal(t, "A", e.GetZone("CA", ""))
	assert.Equal(t, "A", e.GetZone("MX", ""))
	assert.Equal(t, "B", e.GetZone("GB", ""))
	assert.Equal(t, "C", e.GetZone("PL", ""))
	assert.Equal(t, "D", e.GetZone("JP", ""))
	assert.Equal(t, "E", e.GetZone("BR", ""))
	assert.Equal(t, "E", e.GetZone("XX", ""))
}

func TestQuoteDomesticStandard(t *testing.T) {
	e := newTestEngine()

	q, err := e.Quote(QuoteParams{
		Country:  "US",
		State:    "CA",
		Weight:   3,
		Subtotal: 50,
		Method:   models.ShippingMethodStandard,
	})
	require.NoError(t, err)

	assert.Equal(t, "1", q.Zone)
	assert.Equal(t, 5.99, q.BaseRate)
	// 2 whole pounds beyond the included first pound at 0.50/lb.
	assert.Equal(t, 1.00, q.WeightSurcharge)
	assert.Equal(t, 0.0, q.HandlingFee)
	assert.Equal(t, 6.99, q.Total)
	assert.False(t, q.FreeShippingApplied)
}

func TestQuoteNoSurchargeAtOnePound(t *testing.T) {
	e := newTestEngine()

	q, err := e.Quote(QuoteParams{Country: "US", State: "CA", Weight: 1, Subtotal: 70})
	require.NoError(t, err)
	assert.Equal(t, 0.0, q.WeightSurcharge)
	assert.Equal(t, 5.99, q.Total)
}

func TestQuoteHandlingFee(t *testing.T) {
	e := NewEngine(Config{HandlingFee: 2.50})

	q, err := e.Quote(QuoteParams{Country: "US", State: "CA", Weight: 1, Subtotal: 50})
	require.NoError(t, err)
	assert.Equal(t, 2.50, q.HandlingFee)
	assert.Equal(t, 8.49, q.Total)
}

func TestQuoteFreeShipping(t *testing.T) {
	e := newTestEngine()

	q, err := e.Quote(QuoteParams{Country: "US", State: "NY", Weight: 2, Subtotal: 75, Method: models.ShippingMethodStandard})
	require.NoError(t, err)
	assert.True(t, q.FreeShippingApplied)
	assert.Equal(t, 0.0, q.Total)

	// Only the standard method is ever free.
	express, err := e.Quote(QuoteParams{Country: "US", State: "NY", Weight: 2, Subtotal: 75, Method: models.ShippingMethodExpress})
	require.NoError(t, err)
	assert.False(t, express.FreeShippingApplied)
	assert.Greater(t, express.Total, 0.0)
}

func TestQuoteInternational(t *testing.T) {
	e := newTestEngine()

	q, err := e.Quote(QuoteParams{Country: "GB", Weight: 2.5, Subtotal: 60, Method: models.ShippingMethodStandard})
	require.NoError(t, err)
	assert.Equal(t, "B", q.Zone)
	assert.Equal(t, 19.99, q.BaseRate)
	// 2 extra pounds (ceil of 1.5) at 2.00/lb.
	assert.Equal(t, 4.00, q.WeightSurcharge)
	assert.Equal(t, 23.99, q.Total)
}

func TestQuoteOvernightInternationalUnavailable(t *testing.T) {
	e := newTestEngine()

	_, err := e.Quote(QuoteParams{Country: "GB", Weight: 1, Subtotal: 50, Method: models.ShippingMethodOvernight})
	assert.ErrorIs(t, err, ErrMethodUnavailable)
}

func TestQuoteUnknownMethod(t *testing.T) {
	e := newTestEngine()

	_, err := e.Quote(QuoteParams{Country: "US", State: "CA", Weight: 1, Subtotal: 50, Method: "drone"})
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestQuoteDefaultsToStandard(t *testing.T) {
	e := newTestEngine()

	q, err := e.Quote(QuoteParams{Country: "US", State: "CA", Weight: 1, Subtotal: 50})
	require.NoError(t, err)
	assert.Equal(t, models.ShippingMethodStandard, q.Method)
}

func TestAllRatesDomestic(t *testing.T) {
	e := newTestEngine()

	rates, err := e.AllRates(QuoteParams{Country: "US", State: "CA", Weight: 1, Subtotal: 50})
	require.NoError(t, err)
	require.Len(t, rates, 3)

	for i := 1; i < len(rates); i++ {
		assert.LessOrEqual(t, rates[i-1].Total, rates[i].Total, "rates must be sorted ascending")
	}
}

func TestAllRatesInternationalExcludesOvernight(t *testing.T) {
	e := newTestEngine()

	rates, err := e.AllRates(QuoteParams{Country: "JP", Weight: 1, Subtotal: 50})
	require.NoError(t, err)
	require.Len(t, rates, 2)
	for _, r := range rates {
		assert.NotEqual(t, models.ShippingMethodOvernight, r.Method)
	}
}

func TestCheckFreeShipping(t *testing.T) {
	e := newTestEngine()

	at := e.CheckFreeShipping("US", 75)
	assert.True(t, at.Eligible)
	assert.Equal(t, 75.0, at.Threshold)
	assert.Equal(t, 0.0, at.AmountUntilFree)
	assert.Equal(t, models.ShippingMethodStandard, at.Method)

	under := e.CheckFreeShipping("US", 74.99)
	assert.False(t, under.Eligible)
	assert.Equal(t, 0.01, under.AmountUntilFree)

	intl := e.CheckFreeShipping("DE", 100)
	assert.False(t, intl.Eligible)
	assert.Equal(t, 150.0, intl.Threshold)
	assert.Equal(t, 50.0, intl.AmountUntilFree)
}

func TestDeliveryEstimateSkipsWeekends(t *testing.T) {
	// Friday, March 6 2026.
	friday := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)
	e := NewEngine(Config{Clock: func() time.Time { return friday }})

	est := e.DeliveryEstimate(models.ShippingMethodOvernight, "US")
	// One business day from Friday lands on Monday.
	assert.Equal(t, time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC), est.MinDate)
	assert.Equal(t, est.MinDate, est.MaxDate)
	assert.Equal(t, "Mar 9, 2026", est.Formatted)
}

func TestDeliveryEstimateRange(t *testing.T) {
	// Monday, March 2 2026.
	monday := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	e := NewEngine(Config{Clock: func() time.Time { return monday }})

	est := e.DeliveryEstimate(models.ShippingMethodStandard, "US")
	// 5 and 7 business days from Monday: next Monday and Wednesday.
	assert.Equal(t, time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC), est.MinDate)
	assert.Equal(t, time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC), est.MaxDate)
	assert.Equal(t, "Mar 9, 2026 - Mar 11, 2026", est.Formatted)
}

func TestValidateAddress(t *testing.T) {
	e := newTestEngine()

	valid := e.ValidateAddress(models.Address{
		Line1:      "123 Main St",
		City:       "Los Angeles",
		State:      "CA",
		PostalCode: "90001",
		Country:    "US",
	})
	assert.True(t, valid.Valid)
	assert.Empty(t, valid.Errors)

	zip4 := e.ValidateAddress(models.Address{
		Line1: "123 Main St", City: "Los Angeles", State: "CA",
		PostalCode: "90001-1234", Country: "US",
	})
	assert.True(t, zip4.Valid)

	caOK := e.ValidateAddress(models.Address{
		Line1: "24 Sussex Dr", City: "Ottawa", State: "ON",
		PostalCode: "K1A 0B1", Country: "CA",
	})
	assert.True(t, caOK.Valid)

	caBad := e.ValidateAddress(models.Address{
		Line1: "24 Sussex Dr", City: "Ottawa", State: "ON",
		PostalCode: "12345", Country: "CA",
	})
	assert.False(t, caBad.Valid)
	assert.Contains(t, caBad.Errors, "postalCode must be a valid Canadian postal code")
}

func TestValidateAddressCollectsAllErrors(t *testing.T) {
	e := newTestEngine()

	result := e.ValidateAddress(models.Address{Country: "US"})
	assert.False(t, result.Valid)
	// line1, city, state, postalCode all missing.
	assert.Len(t, result.Errors, 4)
}

func TestValidateAddressMissingCountry(t *testing.T) {
	e := newTestEngine()

	result := e.ValidateAddress(models.Address{
		Line1: "1 High St", City: "London", PostalCode: "SW1A 1AA",
	})
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "country is required")
}
