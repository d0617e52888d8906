package tax

// Frozen jurisdiction tables. Rates are flat; no effective-date handling.

// US state sales tax rates. AK, DE, MT, NH and OR have no state sales tax.
// PR is carried as a state here, not as an international destination.
var usStateRates = map[string]float64{
	"AL": 0.04, "AK": 0, "AZ": 0.056, "AR": 0.065, "CA": 0.0725,
	"CO": 0.029, "CT": 0.0635, "DE": 0, "DC": 0.06, "FL": 0.06,
	"GA": 0.04, "HI": 0.04, "ID": 0.06, "IL": 0.0625, "IN": 0.07,
	"IA": 0.06, "KS": 0.065, "KY": 0.06, "LA": 0.0445, "ME": 0.055,
	"MD": 0.06, "MA": 0.0625, "MI": 0.06, "MN": 0.06875, "MS": 0.07,
	"MO": 0.04225, "MT": 0, "NE": 0.055, "NV": 0.0685, "NH": 0,
	"NJ": 0.06625, "NM": 0.05125, "NY": 0.04, "NC": 0.0475, "ND": 0.05,
	"OH": 0.0575, "OK": 0.045, "OR": 0, "PA": 0.06, "RI": 0.07,
	"SC": 0.06, "SD": 0.045, "TN": 0.07, "TX": 0.0625, "UT": 0.061,
	"VT": 0.06, "VA": 0.053, "WA": 0.065, "WV": 0.06, "WI": 0.05,
	"WY": 0.04, "PR": 0.105,
}

// States that also tax the shipping charge. CA notably does not.
var shippingTaxedStates = map[string]bool{
	"AR": true, "CT": true, "DC": true, "GA": true, "HI": true,
	"KS": true, "KY": true, "MI": true, "MN": true, "MS": true,
	"NE": true, "NM": true, "NY": true, "NC": true, "ND": true,
	"OH": true, "PA": true, "RI": true, "SD": true, "TN": true,
	"TX": true, "VT": true, "WA": true, "WV": true, "WI": true,
}

// Canada: federal GST applies everywhere; the provincial component depends on
// the province's regime.
const canadaGSTRate = 0.05

// Provinces participating in HST; the rate below is the provincial portion.
var hstProvinces = map[string]float64{
	"ON": 0.08, "NB": 0.10, "NL": 0.10, "NS": 0.10, "PE": 0.10,
}

// Provinces levying their own PST (QC levies QST).
var pstProvinces = map[string]float64{
	"BC": 0.07, "SK": 0.06, "MB": 0.07, "QC": 0.09975,
}

// International VAT rates by ISO-2 country. Countries not listed collect
// nothing here.
var vatRates = map[string]float64{
	"GB": 0.20, "IE": 0.23, "FR": 0.20, "DE": 0.19, "NL": 0.21,
	"BE": 0.21, "LU": 0.17, "AT": 0.20, "CH": 0.077, "IT": 0.22,
	"ES": 0.21, "PT": 0.23, "SE": 0.25, "DK": 0.25, "NO": 0.25,
	"FI": 0.24, "PL": 0.23, "CZ": 0.21, "AU": 0.10, "NZ": 0.15,
	"JP": 0.10, "SG": 0.09,
}

// Product category taxability. Every category is currently taxable; the gate
// exists so exempt categories can be added without touching the engine.
var nonTaxableCategories = map[string]bool{}
