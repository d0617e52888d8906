package shipping

import "checkout-service/internal/models"

// Flat-rate carrier contract tables. Loaded once, never mutated at runtime.

// US zones: 1 West Coast, 2 Mountain, 3 Central, 4 Midwest/South,
// 5 East Coast, 6 AK/HI/territories. Unrecognized states fall back to 5.
var usStateZones = map[string]int{
	// Zone 1 - West Coast
	"CA": 1, "OR": 1, "WA": 1, "NV": 1,
	// Zone 2 - Mountain
	"AZ": 2, "CO": 2, "ID": 2, "MT": 2, "NM": 2, "UT": 2, "WY": 2,
	// Zone 3 - Central
	"ND": 3, "SD": 3, "NE": 3, "KS": 3, "OK": 3, "TX": 3,
	"MN": 3, "IA": 3, "MO": 3, "AR": 3, "LA": 3,
	// Zone 4 - Midwest/South
	"WI": 4, "IL": 4, "MI": 4, "IN": 4, "OH": 4, "KY": 4, "TN": 4,
	"MS": 4, "AL": 4, "GA": 4, "FL": 4, "SC": 4, "NC": 4, "VA": 4, "WV": 4,
	// Zone 5 - East Coast
	"ME": 5, "NH": 5, "VT": 5, "MA": 5, "RI": 5, "CT": 5,
	"NY": 5, "NJ": 5, "PA": 5, "DE": 5, "MD": 5, "DC": 5,
	// Zone 6 - AK/HI/territories
	"AK": 6, "HI": 6, "PR": 6, "GU": 6, "VI": 6, "AS": 6, "MP": 6,
}

const defaultUSZone = 5

// International zones: A North America, B Western Europe, C Eastern Europe,
// D Asia-Pacific, E rest of world. Unlisted countries fall back to E.
var countryZones = map[string]string{
	// Zone A - North America
	"CA": "A", "MX": "A",
	// Zone B - Western Europe
	"GB": "B", "IE": "B", "FR": "B", "DE": "B", "NL": "B", "BE": "B",
	"LU": "B", "AT": "B", "CH": "B", "IT": "B", "ES": "B", "PT": "B",
	"SE": "B", "DK": "B", "NO": "B", "FI": "B", "IS": "B",
	// Zone C - Eastern Europe
	"PL": "C", "CZ": "C", "SK": "C", "HU": "C", "RO": "C", "BG": "C",
	"SI": "C", "HR": "C", "GR": "C", "LT": "C", "LV": "C", "EE": "C",
	// Zone D - Asia-Pacific
	"JP": "D", "KR": "D", "CN": "D", "TW": "D", "HK": "D", "SG": "D",
	"MY": "D", "TH": "D", "VN": "D", "PH": "D", "ID": "D", "IN": "D",
	"AU": "D", "NZ": "D",
}

const defaultIntlZone = "E"

// Base rates keyed by method then zone, USD.
var domesticRates = map[string]map[int]float64{
	models.ShippingMethodStandard: {
		1: 5.99, 2: 6.99, 3: 7.99, 4: 8.99, 5: 9.99, 6: 14.99,
	},
	models.ShippingMethodExpress: {
		1: 12.99, 2: 14.99, 3: 16.99, 4: 18.99, 5: 21.99, 6: 29.99,
	},
	models.ShippingMethodOvernight: {
		1: 24.99, 2: 27.99, 3: 29.99, 4: 32.99, 5: 36.99, 6: 49.99,
	},
}

var internationalRates = map[string]map[string]float64{
	models.ShippingMethodStandard: {
		"A": 14.99, "B": 19.99, "C": 24.99, "D": 27.99, "E": 34.99,
	},
	models.ShippingMethodExpress: {
		"A": 29.99, "B": 39.99, "C": 49.99, "D": 54.99, "E": 64.99,
	},
}

// Per-pound surcharge beyond the included first pound.
const (
	domesticPerPoundSurcharge      = 0.50
	internationalPerPoundSurcharge = 2.00
	includedWeightLbs              = 1.0
)

// Free shipping thresholds, USD subtotal. Applies to the standard method only.
const (
	freeShippingThresholdDomestic = 75.0
	freeShippingThresholdIntl     = 150.0
	freeShippingMethod            = models.ShippingMethodStandard
)

var methodNames = map[string]string{
	models.ShippingMethodStandard:  "Standard Shipping",
	models.ShippingMethodExpress:   "Express Shipping",
	models.ShippingMethodOvernight: "Overnight Shipping",
}

// Delivery windows in business days.
type deliveryWindow struct {
	min, max int
}

var domesticDeliveryWindows = map[string]deliveryWindow{
	models.ShippingMethodStandard:  {5, 7},
	models.ShippingMethodExpress:   {2, 3},
	models.ShippingMethodOvernight: {1, 1},
}

var internationalDeliveryWindows = map[string]deliveryWindow{
	models.ShippingMethodStandard: {10, 20},
	models.ShippingMethodExpress:  {5, 10},
}
