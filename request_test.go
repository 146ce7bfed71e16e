package paykit_test

import (
	"errors"
	"testing"

	"github.com/alovak/paykit"
	"github.com/alovak/paykit/card"
	"github.com/alovak/paykit/currency"
	"github.com/stretchr/testify/require"
)

// stubResponse stands in for a gateway response in lifecycle tests.
type stubResponse struct{}

func (stubResponse) Successful() bool             { return true }
func (stubResponse) TransactionReference() string { return "ref-1" }
func (stubResponse) Message() string              { return "" }

func TestInitialize_ReplacesParameters(t *testing.T) {
	req := paykit.NewRequest(nil)
	require.NoError(t, req.SetParameter(paykit.ParamDescription, "first"))
	require.NoError(t, req.SetParameter("merchantId", "m-1"))

	require.NoError(t, req.Initialize(map[string]any{
		paykit.ParamAmount: 1050,
	}))

	// replace semantics, not merge
	require.Nil(t, req.Parameter(paykit.ParamDescription))
	require.Nil(t, req.Parameter("merchantId"))
	require.Equal(t, 1050, req.Parameter(paykit.ParamAmount))
}

func TestInitialize_UnknownKeysAreKeptNotRejected(t *testing.T) {
	req := paykit.NewRequest(nil)
	require.NoError(t, req.Initialize(map[string]any{
		paykit.ParamAmount: "100",
		"issuerBankCode":   "042",
	}))

	require.Equal(t, "042", req.Parameter("issuerBankCode"))

	params := req.Parameters()
	require.Equal(t, "042", params["issuerBankCode"])
}

func TestInitialize_NormalizesRawCard(t *testing.T) {
	req := paykit.NewRequest(nil)
	require.NoError(t, req.Initialize(map[string]any{
		paykit.ParamCard: map[string]any{"number": "4111111111111111", "expiryMonth": 6, "expiryYear": 2030},
	}))

	c := req.Card()
	require.NotNil(t, c)
	require.Equal(t, "4111111111111111", c.Number)
}

func TestMutationAfterSend(t *testing.T) {
	req := paykit.NewRequest(nil)
	require.NoError(t, req.SetAmount(1050))
	require.NoError(t, req.AttachResponse(stubResponse{}))
	require.True(t, req.Sent())

	err := req.SetParameter(paykit.ParamAmount, 2000)
	require.ErrorIs(t, err, paykit.ErrRequestSent)

	err = req.Initialize(map[string]any{paykit.ParamAmount: 2000})
	require.ErrorIs(t, err, paykit.ErrRequestSent)

	err = req.SetCurrency("EUR")
	require.ErrorIs(t, err, paykit.ErrRequestSent)

	// the transition is irreversible; a second response is rejected
	err = req.AttachResponse(stubResponse{})
	require.ErrorIs(t, err, paykit.ErrRequestSent)

	// parameters survive untouched
	amount, aerr := req.Amount()
	require.NoError(t, aerr)
	require.Equal(t, int64(1050), amount)
}

func TestResponseBeforeSend(t *testing.T) {
	req := paykit.NewRequest(nil)
	_, err := req.Response()
	require.ErrorIs(t, err, paykit.ErrNoResponse)

	var stateErr *paykit.StateError
	require.ErrorAs(t, err, &stateErr)

	require.NoError(t, req.AttachResponse(stubResponse{}))
	resp, err := req.Response()
	require.NoError(t, err)
	require.True(t, resp.Successful())
}

func TestAmount_ReadTimeCoercion(t *testing.T) {
	req := paykit.NewRequest(nil)

	require.NoError(t, req.SetAmount("100"))
	amount, err := req.Amount()
	require.NoError(t, err)
	require.Equal(t, int64(100), amount)
	// stored value stays the string it was set to
	require.Equal(t, "100", req.Parameter(paykit.ParamAmount))

	require.NoError(t, req.SetAmount(10.9))
	amount, err = req.Amount()
	require.NoError(t, err)
	require.Equal(t, int64(10), amount)

	require.NoError(t, req.SetAmount("10.9"))
	amount, err = req.Amount()
	require.NoError(t, err)
	require.Equal(t, int64(10), amount)

	require.NoError(t, req.SetAmount("not-a-number"))
	_, err = req.Amount()
	require.Error(t, err)

	// unset reads as zero
	require.NoError(t, req.Initialize(nil))
	amount, err = req.Amount()
	require.NoError(t, err)
	require.Equal(t, int64(0), amount)
}

func TestCurrency_UppercasedOnRead(t *testing.T) {
	req := paykit.NewRequest(nil)
	require.NoError(t, req.SetCurrency("usd"))
	require.Equal(t, "USD", req.Currency())
	// stored value keeps its case
	require.Equal(t, "usd", req.Parameter(paykit.ParamCurrency))
}

func TestAmountDecimal(t *testing.T) {
	t.Run("two decimals", func(t *testing.T) {
		req := paykit.NewRequest(nil)
		require.NoError(t, req.SetAmount(1050))
		require.NoError(t, req.SetCurrency("USD"))
		got, err := req.AmountDecimal()
		require.NoError(t, err)
		require.Equal(t, "10.50", got)
	})

	t.Run("zero decimals", func(t *testing.T) {
		req := paykit.NewRequest(nil)
		require.NoError(t, req.SetAmount(1050))
		require.NoError(t, req.SetCurrency("JPY"))
		got, err := req.AmountDecimal()
		require.NoError(t, err)
		require.Equal(t, "1050", got)
	})

	t.Run("three decimals zero padded", func(t *testing.T) {
		req := paykit.NewRequest(nil)
		require.NoError(t, req.SetAmount(5))
		require.NoError(t, req.SetCurrency("KWD"))
		got, err := req.AmountDecimal()
		require.NoError(t, err)
		require.Equal(t, "0.005", got)
	})

	t.Run("unknown currency defaults to two", func(t *testing.T) {
		req := paykit.NewRequest(nil)
		require.NoError(t, req.SetAmount(1050))
		require.NoError(t, req.SetCurrency("XYZ"))
		got, err := req.AmountDecimal()
		require.NoError(t, err)
		require.Equal(t, "10.50", got)
	})

	t.Run("no currency defaults to two", func(t *testing.T) {
		req := paykit.NewRequest(nil)
		require.NoError(t, req.SetAmount(1050))
		got, err := req.AmountDecimal()
		require.NoError(t, err)
		require.Equal(t, "10.50", got)
	})

	t.Run("negative amount", func(t *testing.T) {
		req := paykit.NewRequest(nil)
		require.NoError(t, req.SetAmount(-1050))
		require.NoError(t, req.SetCurrency("USD"))
		got, err := req.AmountDecimal()
		require.NoError(t, err)
		require.Equal(t, "-10.50", got)
	})
}

func TestCurrencyNumeric(t *testing.T) {
	req := paykit.NewRequest(nil)
	require.NoError(t, req.SetCurrency("usd"))
	numeric, err := req.CurrencyNumeric()
	require.NoError(t, err)
	require.Equal(t, "840", numeric)

	require.NoError(t, req.SetCurrency("XYZ"))
	numeric, err = req.CurrencyNumeric()
	require.ErrorIs(t, err, currency.ErrNotFound)
	require.Empty(t, numeric)
}

func TestValidate(t *testing.T) {
	req := paykit.NewRequest(nil)
	require.NoError(t, req.SetCurrency("USD"))

	err := req.Validate(paykit.ParamAmount, paykit.ParamCurrency)
	var verr *paykit.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, paykit.ParamAmount, verr.Param)
	require.EqualError(t, err, "the amount parameter is required")

	require.NoError(t, req.SetAmount(1050))
	require.NoError(t, req.Validate(paykit.ParamAmount, paykit.ParamCurrency))
}

func TestValidate_EmptyValues(t *testing.T) {
	req := paykit.NewRequest(nil)
	require.NoError(t, req.SetParameter(paykit.ParamDescription, ""))
	require.NoError(t, req.SetParameter(paykit.ParamAmount, 0))
	require.NoError(t, req.SetParameter(paykit.ParamTestMode, false))
	require.NoError(t, req.SetParameter("items", []any{}))

	for _, key := range []string{paykit.ParamDescription, paykit.ParamAmount, paykit.ParamTestMode, "items", "never-set"} {
		err := req.Validate(key)
		var verr *paykit.ValidationError
		require.ErrorAsf(t, err, &verr, "key %s", key)
		require.Equal(t, key, verr.Param)
	}

	require.NoError(t, req.SetParameter("items", []any{"a"}))
	require.NoError(t, req.Validate("items"))
}

func TestSetCard(t *testing.T) {
	req := paykit.NewRequest(nil)

	// raw map is normalized into a card value
	require.NoError(t, req.SetCard(map[string]any{
		"number":      "4111111111111111",
		"expiryMonth": 1,
		"expiryYear":  2030,
	}))
	c := req.Card()
	require.NotNil(t, c)
	require.IsType(t, &card.Card{}, req.Parameter(paykit.ParamCard))
	require.Equal(t, 1, c.ExpiryMonth)

	// prebuilt cards pass through
	prebuilt := &card.Card{Number: "5555555555554444"}
	require.NoError(t, req.SetCard(prebuilt))
	require.Same(t, prebuilt, req.Card())

	// anything else is rejected at the boundary
	require.Error(t, req.SetCard("4111111111111111"))
}

func TestParameters_SnapshotIsStableAndDetached(t *testing.T) {
	req := paykit.NewRequest(nil)
	require.NoError(t, req.SetAmount(1050))
	require.NoError(t, req.SetCurrency("USD"))
	require.NoError(t, req.SetParameter("merchantId", "m-1"))

	first := req.Parameters()
	second := req.Parameters()
	require.Equal(t, first, second)

	// mutating a snapshot must not leak into the request
	first[paykit.ParamCurrency] = "EUR"
	require.Equal(t, "USD", req.Currency())
}

func TestTypedAccessors(t *testing.T) {
	req := paykit.NewRequest(nil)

	require.NoError(t, req.SetTestMode(true))
	require.True(t, req.TestMode())

	require.NoError(t, req.SetToken("tok_123"))
	require.Equal(t, "tok_123", req.Token())

	require.NoError(t, req.SetDescription("Order #42"))
	require.Equal(t, "Order #42", req.Description())

	require.NoError(t, req.SetTransactionID("txn-42"))
	require.Equal(t, "txn-42", req.TransactionID())

	require.NoError(t, req.SetGatewayReference("gw-42"))
	require.Equal(t, "gw-42", req.GatewayReference())

	require.NoError(t, req.SetClientIP("203.0.113.7"))
	require.Equal(t, "203.0.113.7", req.ClientIP())

	require.NoError(t, req.SetReturnURL("https://shop.example/return"))
	require.Equal(t, "https://shop.example/return", req.ReturnURL())

	require.NoError(t, req.SetCancelURL("https://shop.example/cancel"))
	require.Equal(t, "https://shop.example/cancel", req.CancelURL())
}

func TestTestMode_BoolLikeValues(t *testing.T) {
	req := paykit.NewRequest(nil)

	require.NoError(t, req.SetParameter(paykit.ParamTestMode, "true"))
	require.True(t, req.TestMode())

	require.NoError(t, req.SetParameter(paykit.ParamTestMode, 1))
	require.True(t, req.TestMode())

	require.NoError(t, req.SetParameter(paykit.ParamTestMode, "0"))
	require.False(t, req.TestMode())

	require.NoError(t, req.Initialize(nil))
	require.False(t, req.TestMode())
}

func TestCustomCurrencyTable(t *testing.T) {
	table := currency.NewMemTable([]currency.Currency{
		{Code: "WTV", Numeric: "999", Decimals: 4},
	})
	req := paykit.NewRequest(table)
	require.NoError(t, req.SetAmount(12345))
	require.NoError(t, req.SetCurrency("wtv"))

	got, err := req.AmountDecimal()
	require.NoError(t, err)
	require.Equal(t, "1.2345", got)

	numeric, err := req.CurrencyNumeric()
	require.NoError(t, err)
	require.Equal(t, "999", numeric)

	// errors other than not-found must propagate, not default to 2
	req = paykit.NewRequest(failingTable{})
	require.NoError(t, req.SetAmount(1050))
	require.NoError(t, req.SetCurrency("USD"))
	_, err = req.AmountDecimal()
	require.Error(t, err)
	require.False(t, errors.Is(err, currency.ErrNotFound))
}

type failingTable struct{}

func (failingTable) Find(code string) (currency.Currency, error) {
	return currency.Currency{}, errors.New("table unavailable")
}
