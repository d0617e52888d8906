package shipping

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"checkout-service/internal/models"
	"checkout-service/internal/money"
)

var (
	// ErrUnknownMethod indicates a shipping method outside the rate tables.
	ErrUnknownMethod = errors.New("shipping: unknown method")
	// ErrMethodUnavailable indicates a method not offered for the destination,
	// e.g. overnight outside the US.
	ErrMethodUnavailable = errors.New("shipping: method unavailable for destination")
)

var (
	usPostalCodeRe = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	caPostalCodeRe = regexp.MustCompile(`^[A-Za-z]\d[A-Za-z][ -]?\d[A-Za-z]\d$`)
)

// Config holds the injectable knobs of the rate engine.
type Config struct {
	HandlingFee float64
	Clock       func() time.Time
}

// Engine maps destinations to shipping quotes from the flat-rate tables.
// All methods are pure lookups; the only ambient input is the clock used for
// delivery estimates.
type Engine struct {
	handlingFee float64
	now         func() time.Time
}

// NewEngine creates a rate engine. A nil clock defaults to time.Now.
func NewEngine(cfg Config) *Engine {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		handlingFee: money.Round2(cfg.HandlingFee),
		now:         clock,
	}
}

// QuoteParams describe a shipment to price.
type QuoteParams struct {
	Country  string
	State    string
	Weight   float64
	Subtotal float64
	Method   string
}

// GetZone resolves a destination to its zone id: "1".."6" for US states,
// "A".."E" for international destinations.
func (e *Engine) GetZone(country, state string) string {
	if isDomestic(country) {
		if z, ok := usStateZones[strings.ToUpper(state)]; ok {
			return strconv.Itoa(z)
		}
		return strconv.Itoa(defaultUSZone)
	}
	if z, ok := countryZones[strings.ToUpper(country)]; ok {
		return z
	}
	return defaultIntlZone
}

// Quote prices a single shipping method for a destination.
func (e *Engine) Quote(p QuoteParams) (models.ShippingQuote, error) {
	method := strings.ToLower(p.Method)
	if method == "" {
		method = models.ShippingMethodStandard
	}
	if _, ok := methodNames[method]; !ok {
		return models.ShippingQuote{}, fmt.Errorf("%w: %s", ErrUnknownMethod, p.Method)
	}

	domestic := isDomestic(p.Country)
	zone := e.GetZone(p.Country, p.State)

	var baseRate float64
	if domestic {
		rates, ok := domesticRates[method]
		if !ok {
			return models.ShippingQuote{}, fmt.Errorf("%w: %s", ErrMethodUnavailable, method)
		}
		z, _ := strconv.Atoi(zone)
		baseRate = rates[z]
	} else {
		rates, ok := internationalRates[method]
		if !ok {
			return models.ShippingQuote{}, fmt.Errorf("%w: %s", ErrMethodUnavailable, method)
		}
		baseRate = rates[zone]
	}

	surcharge := weightSurcharge(p.Weight, domestic)

	total := money.Sum(baseRate, surcharge, e.handlingFee)
	if total < 0 {
		total = 0
	}

	free := e.CheckFreeShipping(p.Country, p.Subtotal)
	applied := free.Eligible && method == freeShippingMethod
	if applied {
		total = 0
	}

	return models.ShippingQuote{
		Method:              method,
		MethodName:          methodNames[method],
		Zone:                zone,
		BaseRate:            baseRate,
		WeightSurcharge:     surcharge,
		HandlingFee:         e.handlingFee,
		Total:               total,
		FreeShippingApplied: applied,
		DeliveryEstimate:    e.DeliveryEstimate(method, p.Country),
	}, nil
}

// AllRates prices every method available for the destination, sorted
// ascending by total cost. Overnight is US-only.
func (e *Engine) AllRates(p QuoteParams) ([]models.ShippingQuote, error) {
	methods := []string{models.ShippingMethodStandard, models.ShippingMethodExpress}
	if isDomestic(p.Country) {
		methods = append(methods, models.ShippingMethodOvernight)
	}

	quotes := make([]models.ShippingQuote, 0, len(methods))
	for _, m := range methods {
		p.Method = m
		q, err := e.Quote(p)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].Total < quotes[j].Total
	})
	return quotes, nil
}

// CheckFreeShipping reports eligibility against the threshold for the country.
func (e *Engine) CheckFreeShipping(country string, subtotal float64) models.FreeShippingStatus {
	threshold := freeShippingThresholdIntl
	if isDomestic(country) {
		threshold = freeShippingThresholdDomestic
	}

	remaining := money.Sum(threshold, -subtotal)
	if remaining < 0 {
		remaining = 0
	}

	status := models.FreeShippingStatus{
		Eligible:        subtotal >= threshold,
		Threshold:       threshold,
		Method:          freeShippingMethod,
		AmountUntilFree: remaining,
	}
	if status.Eligible {
		status.Message = "Order qualifies for free standard shipping"
	} else {
		status.Message = fmt.Sprintf("Add $%.2f more to qualify for free standard shipping", remaining)
	}
	return status
}

// DeliveryEstimate returns the business-day delivery window for a method,
// anchored at the engine clock's "today".
func (e *Engine) DeliveryEstimate(method, country string) models.DeliveryEstimate {
	windows := internationalDeliveryWindows
	if isDomestic(country) {
		windows = domesticDeliveryWindows
	}
	w, ok := windows[strings.ToLower(method)]
	if !ok {
		w = windows[models.ShippingMethodStandard]
	}

	today := e.now()
	min := addBusinessDays(today, w.min)
	max := addBusinessDays(today, w.max)

	formatted := min.Format("Jan 2, 2006")
	if w.min != w.max {
		formatted = fmt.Sprintf("%s - %s", min.Format("Jan 2, 2006"), max.Format("Jan 2, 2006"))
	}

	return models.DeliveryEstimate{MinDate: min, MaxDate: max, Formatted: formatted}
}

// ValidateAddress enforces the address invariants and returns every violation.
func (e *Engine) ValidateAddress(addr models.Address) models.AddressValidation {
	var errs []string

	country := strings.ToUpper(strings.TrimSpace(addr.Country))
	if country == "" {
		errs = append(errs, "country is required")
	} else if len(country) != 2 {
		errs = append(errs, "country must be an ISO-2 code")
	}

	if strings.TrimSpace(addr.Line1) == "" {
		errs = append(errs, "line1 is required")
	}
	if strings.TrimSpace(addr.City) == "" {
		errs = append(errs, "city is required")
	}

	if country == "US" || country == "CA" {
		if strings.TrimSpace(addr.State) == "" {
			errs = append(errs, "state is required for US and CA addresses")
		}
	}

	postal := strings.TrimSpace(addr.PostalCode)
	switch {
	case postal == "":
		errs = append(errs, "postalCode is required")
	case country == "US" && !usPostalCodeRe.MatchString(postal):
		errs = append(errs, "postalCode must be a valid US ZIP code")
	case country == "CA" && !caPostalCodeRe.MatchString(postal):
		errs = append(errs, "postalCode must be a valid Canadian postal code")
	}

	return models.AddressValidation{Valid: len(errs) == 0, Errors: errs}
}

func isDomestic(country string) bool {
	return strings.EqualFold(country, "US")
}

// weightSurcharge bills whole pounds beyond the included first pound.
func weightSurcharge(weight float64, domestic bool) float64 {
	if weight <= includedWeightLbs {
		return 0
	}
	perPound := internationalPerPoundSurcharge
	if domestic {
		perPound = domesticPerPoundSurcharge
	}
	extra := int(math.Ceil(weight - includedWeightLbs))
	return money.MulQty(perPound, extra)
}

// addBusinessDays advances n business days, skipping Saturdays and Sundays.
func addBusinessDays(t time.Time, days int) time.Time {
	for days > 0 {
		t = t.AddDate(0, 0, 1)
		if wd := t.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days--
		}
	}
	return t
}
