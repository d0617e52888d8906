package tax

import (
	"strings"

	"checkout-service/internal/models"
	"checkout-service/internal/money"
)

// Config holds the injectable knobs of the tax engine.
// An empty NexusStates list means tax is collected in every US state.
type Config struct {
	NexusStates []string
}

// Engine computes jurisdiction-specific tax breakdowns from the frozen rate
// tables. Calculations are pure; the engine holds no mutable state.
type Engine struct {
	nexusStates map[string]bool
}

// NewEngine creates a tax engine.
func NewEngine(cfg Config) *Engine {
	nexus := make(map[string]bool, len(cfg.NexusStates))
	for _, s := range cfg.NexusStates {
		nexus[strings.ToUpper(s)] = true
	}
	return &Engine{nexusStates: nexus}
}

// Params describe the order portion subject to tax.
type Params struct {
	Subtotal   float64
	Country    string
	State      string
	PostalCode string
	Category   string
	Shipping   float64
}

// Calculate dispatches by destination country: US state sales tax, Canadian
// GST plus the provincial component, a configured VAT rate, or zero tax for
// unconfigured countries.
func (e *Engine) Calculate(p Params) models.TaxResult {
	if nonTaxableCategories[strings.ToLower(p.Category)] {
		return models.TaxResult{
			TaxableAmount: 0,
			Breakdown:     []models.TaxLine{},
			Jurisdiction:  "exempt category",
		}
	}

	country := strings.ToUpper(strings.TrimSpace(p.Country))
	switch {
	case country == "US":
		return e.calculateUS(p)
	case country == "CA":
		return e.calculateCanada(p)
	default:
		if rate, ok := vatRates[country]; ok {
			return calculateVAT(p, country, rate)
		}
		return models.TaxResult{
			TaxableAmount: 0,
			Breakdown:     []models.TaxLine{},
		}
	}
}

func (e *Engine) calculateUS(p Params) models.TaxResult {
	state := strings.ToUpper(strings.TrimSpace(p.State))

	if len(e.nexusStates) > 0 && !e.nexusStates[state] {
		return models.TaxResult{
			TaxableAmount: 0,
			Breakdown:     []models.TaxLine{},
			Jurisdiction:  "US - no nexus",
		}
	}

	rate := usStateRates[state]
	taxable := money.Round2(p.Subtotal)
	if shippingTaxedStates[state] {
		taxable = money.Sum(p.Subtotal, p.Shipping)
	}
	amount := money.MulRate(taxable, rate)

	breakdown := []models.TaxLine{}
	if rate > 0 {
		breakdown = append(breakdown, models.TaxLine{
			Name:   state + " Sales Tax",
			Rate:   rate,
			Amount: amount,
		})
	}

	return models.TaxResult{
		TaxableAmount: taxable,
		TaxRate:       rate,
		TaxAmount:     amount,
		Breakdown:     breakdown,
		Jurisdiction:  "US - " + state,
	}
}

func (e *Engine) calculateCanada(p Params) models.TaxResult {
	province := strings.ToUpper(strings.TrimSpace(p.State))
	taxable := money.Sum(p.Subtotal, p.Shipping)

	gstAmount := money.MulRate(taxable, canadaGSTRate)
	breakdown := []models.TaxLine{{
		Name:   "GST",
		Rate:   canadaGSTRate,
		Amount: gstAmount,
	}}

	provincialRate := 0.0
	if rate, ok := hstProvinces[province]; ok {
		provincialRate = rate
		breakdown = append(breakdown, models.TaxLine{
			Name:   "HST (provincial portion)",
			Rate:   rate,
			Amount: money.MulRate(taxable, rate),
		})
	} else if rate, ok := pstProvinces[province]; ok {
		provincialRate = rate
		name := "PST"
		if province == "QC" {
			name = "QST"
		}
		breakdown = append(breakdown, models.TaxLine{
			Name:   name,
			Rate:   rate,
			Amount: money.MulRate(taxable, rate),
		})
	}

	amounts := make([]float64, 0, len(breakdown))
	for _, line := range breakdown {
		amounts = append(amounts, line.Amount)
	}

	return models.TaxResult{
		TaxableAmount: taxable,
		TaxRate:       canadaGSTRate + provincialRate,
		TaxAmount:     money.Sum(amounts...),
		Breakdown:     breakdown,
		Jurisdiction:  "CA - " + province,
	}
}

func calculateVAT(p Params, country string, rate float64) models.TaxResult {
	taxable := money.Sum(p.Subtotal, p.Shipping)
	amount := money.MulRate(taxable, rate)

	return models.TaxResult{
		TaxableAmount: taxable,
		TaxRate:       rate,
		TaxAmount:     amount,
		Breakdown: []models.TaxLine{{
			Name:   "VAT",
			Rate:   rate,
			Amount: amount,
		}},
		Jurisdiction: country,
	}
}
