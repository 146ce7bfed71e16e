// Package card provides the credit card value object attached to gateway
// requests. Raw parameter maps are normalized into a Card at the setter
// boundary; validation covers the checks a gateway runs before dispatch
// (Luhn, digits, expiry), not issuer-side authorization.
package card

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alovak/paykit/internal/cardgen"
	"github.com/alovak/paykit/internal/expiry"
)

type Card struct {
	Number      string
	ExpiryMonth int
	ExpiryYear  int
	CVV         string
	HolderName  string
}

// FromParams builds a Card from a raw field map, the shape callers pass to
// a request's card setter. Recognized keys: number, expiryMonth, expiryYear,
// expiry ("MM/YY" or "MMYY"), cvv, holderName. Unknown keys are ignored.
func FromParams(params map[string]any) *Card {
	c := &Card{}
	if v, ok := params["number"]; ok {
		c.Number = cardgen.NormalizePAN(toString(v))
	}
	if v, ok := params["expiryMonth"]; ok {
		c.ExpiryMonth = toInt(v)
	}
	if v, ok := params["expiryYear"]; ok {
		c.ExpiryYear = toInt(v)
	}
	if v, ok := params["expiry"]; ok {
		if mm, yy, err := expiry.ParseCardFace(toString(v)); err == nil {
			c.ExpiryMonth = mm
			c.ExpiryYear = yy
		}
	}
	if v, ok := params["cvv"]; ok {
		c.CVV = toString(v)
	}
	if v, ok := params["holderName"]; ok {
		c.HolderName = toString(v)
	}
	return c
}

// Validate runs the pre-dispatch checks: number present, Luhn-valid, and
// not expired as of now.
func (c *Card) Validate() error {
	return c.ValidateAt(time.Now())
}

func (c *Card) ValidateAt(at time.Time) error {
	if err := cardgen.ValidatePAN(c.Number); err != nil {
		return err
	}
	if c.CVV != "" && !cardgen.IsDigits(c.CVV) {
		return fmt.Errorf("cvv must contain digits only")
	}
	if c.ExpiryMonth == 0 && c.ExpiryYear == 0 {
		return fmt.Errorf("expiry is required")
	}
	expired, err := expiry.IsExpired(c.ExpiryMonth, c.ExpiryYear, at)
	if err != nil {
		return err
	}
	if expired {
		return fmt.Errorf("card is expired")
	}
	return nil
}

// MaskedNumber keeps the first 6 and last 4 digits.
func (c *Card) MaskedNumber() string {
	return cardgen.MaskPAN(c.Number)
}

func (c *Card) LastFour() string {
	return cardgen.LastN(c.Number, 4)
}

// ExpiryFace formats the expiry as MM/YY.
func (c *Card) ExpiryFace() string {
	return expiry.CardFace(c.ExpiryMonth, c.ExpiryYear)
}

// Brand reports the card scheme from the leading digits, or "" when
// unrecognized.
func (c *Card) Brand() string {
	n := c.Number
	switch {
	case len(n) == 0:
		return ""
	case n[0] == '4':
		return "visa"
	case inRange(n, 2, 51, 55), inRange(n, 4, 2221, 2720):
		return "mastercard"
	case inRange(n, 2, 34, 34), inRange(n, 2, 37, 37):
		return "amex"
	case inRange(n, 4, 6011, 6011), inRange(n, 2, 65, 65):
		return "discover"
	default:
		return ""
	}
}

func inRange(n string, width, lo, hi int) bool {
	if len(n) < width {
		return false
	}
	p, err := strconv.Atoi(n[:width])
	if err != nil {
		return false
	}
	return p >= lo && p <= hi
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatInt(int64(s), 10)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	default:
		return 0
	}
}
