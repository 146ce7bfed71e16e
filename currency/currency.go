// Package currency resolves ISO 4217 currency metadata: the number of
// decimal places in the minor unit and the three-digit numeric code.
package currency

import (
	"fmt"
	"strings"
)

var ErrNotFound = fmt.Errorf("currency not found")

// Currency is the metadata for a single ISO 4217 currency.
type Currency struct {
	Code     string
	Numeric  string
	Decimals int
}

// Table looks up currency metadata by alphabetic code. Lookups are
// case-insensitive. Unknown codes return ErrNotFound.
type Table interface {
	Find(code string) (Currency, error)
}

// MemTable is an in-memory Table keyed by uppercase code.
type MemTable struct {
	currencies map[string]Currency
}

func NewMemTable(currencies []Currency) *MemTable {
	m := make(map[string]Currency, len(currencies))
	for _, c := range currencies {
		c.Code = strings.ToUpper(c.Code)
		m[c.Code] = c
	}
	return &MemTable{currencies: m}
}

func (t *MemTable) Find(code string) (Currency, error) {
	c, ok := t.currencies[strings.ToUpper(code)]
	if !ok {
		return Currency{}, ErrNotFound
	}
	return c, nil
}

// Default returns the built-in ISO 4217 table.
func Default() Table {
	return defaultTable
}

var defaultTable = NewMemTable(iso4217)

// iso4217 covers the majors plus the zero- and three-decimal currencies
// that gateways actually hit. Deployments with a fuller table keep it in
// Postgres (see PGTable).
var iso4217 = []Currency{
	{Code: "AED", Numeric: "784", Decimals: 2},
	{Code: "AUD", Numeric: "036", Decimals: 2},
	{Code: "BHD", Numeric: "048", Decimals: 3},
	{Code: "BRL", Numeric: "986", Decimals: 2},
	{Code: "CAD", Numeric: "124", Decimals: 2},
	{Code: "CHF", Numeric: "756", Decimals: 2},
	{Code: "CLP", Numeric: "152", Decimals: 0},
	{Code: "CNY", Numeric: "156", Decimals: 2},
	{Code: "CZK", Numeric: "203", Decimals: 2},
	{Code: "DKK", Numeric: "208", Decimals: 2},
	{Code: "EUR", Numeric: "978", Decimals: 2},
	{Code: "GBP", Numeric: "826", Decimals: 2},
	{Code: "HKD", Numeric: "344", Decimals: 2},
	{Code: "HUF", Numeric: "348", Decimals: 2},
	{Code: "IDR", Numeric: "360", Decimals: 2},
	{Code: "ILS", Numeric: "376", Decimals: 2},
	{Code: "INR", Numeric: "356", Decimals: 2},
	{Code: "ISK", Numeric: "352", Decimals: 0},
	{Code: "JOD", Numeric: "400", Decimals: 3},
	{Code: "JPY", Numeric: "392", Decimals: 0},
	{Code: "KRW", Numeric: "410", Decimals: 0},
	{Code: "KWD", Numeric: "414", Decimals: 3},
	{Code: "MXN", Numeric: "484", Decimals: 2},
	{Code: "MYR", Numeric: "458", Decimals: 2},
	{Code: "NOK", Numeric: "578", Decimals: 2},
	{Code: "NZD", Numeric: "554", Decimals: 2},
	{Code: "OMR", Numeric: "512", Decimals: 3},
	{Code: "PHP", Numeric: "608", Decimals: 2},
	{Code: "PLN", Numeric: "985", Decimals: 2},
	{Code: "RUB", Numeric: "643", Decimals: 2},
	{Code: "SAR", Numeric: "682", Decimals: 2},
	{Code: "SEK", Numeric: "752", Decimals: 2},
	{Code: "SGD", Numeric: "702", Decimals: 2},
	{Code: "THB", Numeric: "764", Decimals: 2},
	{Code: "TND", Numeric: "788", Decimals: 3},
	{Code: "TRY", Numeric: "949", Decimals: 2},
	{Code: "TWD", Numeric: "901", Decimals: 2},
	{Code: "USD", Numeric: "840", Decimals: 2},
	{Code: "VND", Numeric: "704", Decimals: 0},
	{Code: "ZAR", Numeric: "710", Decimals: 2},
}
