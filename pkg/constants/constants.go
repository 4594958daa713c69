// Package constants provides shared constants for the dealer back office.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// EstimatedFeeMarkupPercent is the fixed markup added to the nominal
	// annual rate to approximate an all-in APR. It stands in for fees and
	// is not a regulatory APR computation.
	EstimatedFeeMarkupPercent = 2.0
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodyBytes is the default maximum request body size for
	// lead and admin submissions (64 KB)
	DefaultMaxBodyBytes int64 = 64 * 1024

	// DefaultCacheTTLSeconds is the default lifetime for cached stock
	// listings and finance quotes
	DefaultCacheTTLSeconds = 60
)

// Lead lifecycle statuses as stored in the lead and contact tables.
const (
	// StatusNew is the status assigned to every freshly submitted lead
	StatusNew = "new"

	// StatusProcessed marks a lead handled by an explicit admin action
	StatusProcessed = "processed"

	// StatusArchived appears in admin list filters but is never written
	// by this code
	StatusArchived = "archived"
)
