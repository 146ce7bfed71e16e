// Package paykit is the base layer for building payment-gateway request
// objects: a parameter container with typed accessors, required-field
// validation, currency-aware amount formatting and a post-send immutability
// guard. Concrete gateways (see gateway/sandbox) build their network calls
// from a Request and attach the produced Response to it.
package paykit

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/alovak/paykit/card"
	"github.com/alovak/paykit/currency"
)

// Request represents one gateway operation (purchase, refund, ...). It is
// mutable until a Response is attached and read-only afterwards; every
// mutator returns ErrRequestSent once that happens. A Request belongs to a
// single call sequence and is not safe for concurrent use.
type Request struct {
	params     Params
	currencies currency.Table
	response   Response
}

// NewRequest builds an empty request resolving currency metadata through
// the given table. A nil table falls back to the built-in ISO 4217 one.
func NewRequest(currencies currency.Table) *Request {
	if currencies == nil {
		currencies = currency.Default()
	}
	return &Request{currencies: currencies}
}

// Initialize replaces the entire parameter set. Keys that are not recognized
// are kept in the residual map rather than rejected, so gateway-specific
// parameters pass through untouched.
func (r *Request) Initialize(params map[string]any) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.params = Params{}
	for key, value := range params {
		r.params.set(key, normalizeParam(key, value))
	}
	return nil
}

// Parameter returns the raw stored value for key, or nil when unset.
func (r *Request) Parameter(key string) any {
	return r.params.get(key)
}

// SetParameter stores value under key. Fails with ErrRequestSent after the
// request has been sent.
func (r *Request) SetParameter(key string, value any) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.params.set(key, normalizeParam(key, value))
	return nil
}

// Parameters returns a snapshot of all set parameters.
func (r *Request) Parameters() map[string]any {
	return r.params.snapshot()
}

// Validate checks that every required parameter is set and non-empty and
// returns a ValidationError naming the first one that is not. It performs
// no I/O; gateways run it before dispatching to their HTTP client.
func (r *Request) Validate(required ...string) error {
	for _, key := range required {
		if isEmpty(r.params.get(key)) {
			return &ValidationError{Param: key}
		}
	}
	return nil
}

// Sent reports whether a Response has been attached.
func (r *Request) Sent() bool {
	return r.response != nil
}

// Response returns the response produced by sending the request, or
// ErrNoResponse when the request has not been sent yet.
func (r *Request) Response() (Response, error) {
	if r.response == nil {
		return nil, ErrNoResponse
	}
	return r.response, nil
}

// AttachResponse records the response produced by a gateway send. It is the
// single unsent -> sent transition and can succeed only once; afterwards the
// request is read-only.
func (r *Request) AttachResponse(resp Response) error {
	if resp == nil {
		return fmt.Errorf("response must not be nil")
	}
	if r.response != nil {
		return ErrRequestSent
	}
	r.response = resp
	return nil
}

func (r *Request) mutable() error {
	if r.response != nil {
		return ErrRequestSent
	}
	return nil
}

// TestMode reports whether the request targets the gateway's test endpoint.
func (r *Request) TestMode() bool {
	return toBool(r.params.get(ParamTestMode))
}

func (r *Request) SetTestMode(v bool) error {
	return r.SetParameter(ParamTestMode, v)
}

// Card returns the card attached to the request, or nil.
func (r *Request) Card() *card.Card {
	c, _ := r.params.get(ParamCard).(*card.Card)
	return c
}

// SetCard accepts a prebuilt *card.Card or a raw field map, which is
// normalized into a Card at this boundary.
func (r *Request) SetCard(v any) error {
	switch v.(type) {
	case *card.Card, map[string]any, nil:
		return r.SetParameter(ParamCard, v)
	default:
		return fmt.Errorf("card must be *card.Card or map[string]any, got %T", v)
	}
}

func (r *Request) Token() string {
	return toString(r.params.get(ParamToken))
}

func (r *Request) SetToken(v string) error {
	return r.SetParameter(ParamToken, v)
}

// Amount returns the amount in minor units. The stored value is kept
// exactly as set and coerced on every read: integers pass through, floats
// truncate toward zero, strings parse as an integer first and fall back to
// float-then-truncate.
func (r *Request) Amount() (int64, error) {
	v := r.params.get(ParamAmount)
	if v == nil {
		return 0, nil
	}
	return toInt64(v)
}

// SetAmount stores the amount as given; coercion happens on read, not here.
func (r *Request) SetAmount(v any) error {
	return r.SetParameter(ParamAmount, v)
}

// Currency returns the currency code uppercased, whatever case was stored.
func (r *Request) Currency() string {
	return strings.ToUpper(toString(r.params.get(ParamCurrency)))
}

func (r *Request) SetCurrency(v string) error {
	return r.SetParameter(ParamCurrency, v)
}

// AmountDecimal formats the amount as a fixed-point string in major units,
// with exactly as many fraction digits as the currency's decimal places and
// no thousands separator. Unknown currencies default to 2 decimals.
func (r *Request) AmountDecimal() (string, error) {
	amount, err := r.Amount()
	if err != nil {
		return "", err
	}
	decimals := 2
	if code := r.Currency(); code != "" {
		c, err := r.currencies.Find(code)
		switch {
		case err == nil:
			decimals = c.Decimals
		case errors.Is(err, currency.ErrNotFound):
			// keep the default
		default:
			return "", fmt.Errorf("resolving currency %s: %w", code, err)
		}
	}
	return formatMinorUnits(amount, decimals), nil
}

// CurrencyNumeric returns the ISO 4217 numeric code for the request's
// currency, or currency.ErrNotFound when it is unknown.
func (r *Request) CurrencyNumeric() (string, error) {
	c, err := r.currencies.Find(r.Currency())
	if err != nil {
		return "", err
	}
	return c.Numeric, nil
}

func (r *Request) Description() string {
	return toString(r.params.get(ParamDescription))
}

func (r *Request) SetDescription(v string) error {
	return r.SetParameter(ParamDescription, v)
}

func (r *Request) TransactionID() string {
	return toString(r.params.get(ParamTransactionID))
}

func (r *Request) SetTransactionID(v string) error {
	return r.SetParameter(ParamTransactionID, v)
}

// GatewayReference is the gateway-side identifier of a previous operation,
// required by follow-up calls such as refunds.
func (r *Request) GatewayReference() string {
	return toString(r.params.get(ParamGatewayReference))
}

func (r *Request) SetGatewayReference(v string) error {
	return r.SetParameter(ParamGatewayReference, v)
}

func (r *Request) ClientIP() string {
	return toString(r.params.get(ParamClientIP))
}

func (r *Request) SetClientIP(v string) error {
	return r.SetParameter(ParamClientIP, v)
}

func (r *Request) ReturnURL() string {
	return toString(r.params.get(ParamReturnURL))
}

func (r *Request) SetReturnURL(v string) error {
	return r.SetParameter(ParamReturnURL, v)
}

func (r *Request) CancelURL() string {
	return toString(r.params.get(ParamCancelURL))
}

func (r *Request) SetCancelURL(v string) error {
	return r.SetParameter(ParamCancelURL, v)
}

// normalizeParam converts raw card field maps into card values at the
// boundary; everything else is stored as-is.
func normalizeParam(key string, value any) any {
	if key == ParamCard {
		if m, ok := value.(map[string]any); ok {
			return card.FromParams(m)
		}
	}
	return value
}

// formatMinorUnits renders an integer minor-unit amount as a fixed-point
// string with the given number of fraction digits.
func formatMinorUnits(amount int64, decimals int) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	if decimals <= 0 {
		if neg {
			return "-" + digits
		}
		return digits
	}
	if len(digits) <= decimals {
		digits = strings.Repeat("0", decimals-len(digits)+1) + digits
	}
	out := digits[:len(digits)-decimals] + "." + digits[len(digits)-decimals:]
	if neg {
		return "-" + out
	}
	return out
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return int64(f), nil
		}
		return 0, fmt.Errorf("amount %q is not numeric", n)
	default:
		return 0, fmt.Errorf("amount of type %T is not numeric", v)
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", s)
	}
}

func toBool(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "1", "true", "yes", "on":
			return true
		}
		return false
	default:
		n, err := toInt64(v)
		return err == nil && n != 0
	}
}

// isEmpty implements the validation notion of "empty or unset": nil, empty
// string, numeric zero, false, and empty collections.
func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case float32:
		return x == 0
	case float64:
		return x == 0
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		n, _ := toInt64(x)
		return n == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
