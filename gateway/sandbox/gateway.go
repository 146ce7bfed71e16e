// Package sandbox implements a reference gateway over the paykit request
// contract: purchase and refund as JSON-over-HTTP calls built from a
// Request's parameters, with the produced Response attached to the Request.
// Gateway-specific implementations follow the same shape.
package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/alovak/paykit"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

type Gateway struct {
	config *Config
	client paykit.HTTPClient
	logger *slog.Logger
}

func New(logger *slog.Logger, client paykit.HTTPClient, config *Config) *Gateway {
	logger = logger.With(slog.String("gateway", "sandbox"))

	if config == nil {
		config = DefaultConfig()
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &Gateway{
		config: config,
		client: client,
		logger: logger,
	}
}

// purchaseCall is the JSON body of a purchase or refund call.
type purchaseCall struct {
	Amount          string       `json:"amount"`
	Currency        string       `json:"currency"`
	CurrencyNumeric string       `json:"currency_numeric,omitempty"`
	Description     string       `json:"description,omitempty"`
	Reference       string       `json:"reference"`
	ClientIP        string       `json:"client_ip,omitempty"`
	ReturnURL       string       `json:"return_url,omitempty"`
	CancelURL       string       `json:"cancel_url,omitempty"`
	Token           string       `json:"token,omitempty"`
	Card            *cardPayload `json:"card,omitempty"`
}

type cardPayload struct {
	Number      string `json:"number"`
	ExpiryMonth int    `json:"expiry_month"`
	ExpiryYear  int    `json:"expiry_year"`
	CVV         string `json:"cvv,omitempty"`
	HolderName  string `json:"holder_name,omitempty"`
}

// Response is the gateway's JSON response body.
type Response struct {
	Approved  bool   `json:"approved"`
	Reference string `json:"reference"`
	Msg       string `json:"message"`
}

func (r *Response) Successful() bool             { return r.Approved }
func (r *Response) TransactionReference() string { return r.Reference }
func (r *Response) Message() string              { return r.Msg }

// Purchase charges the request's amount against its card or token. The
// request must carry amount and currency; a missing transactionId gets a
// generated reference. A decline is a successful send with
// Successful() == false.
func (g *Gateway) Purchase(ctx context.Context, req *paykit.Request) (paykit.Response, error) {
	if req.Sent() {
		return nil, paykit.ErrRequestSent
	}
	if err := req.Validate(paykit.ParamAmount, paykit.ParamCurrency); err != nil {
		return nil, err
	}
	if c := req.Card(); c != nil {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("validating card: %w", err)
		}
	}

	call, err := g.buildCall(req)
	if err != nil {
		return nil, err
	}
	if c := req.Card(); c != nil {
		call.Card = &cardPayload{
			Number:      c.Number,
			ExpiryMonth: c.ExpiryMonth,
			ExpiryYear:  c.ExpiryYear,
			CVV:         c.CVV,
			HolderName:  c.HolderName,
		}
	} else if token := req.Token(); token != "" {
		call.Token = token
	}
	if call.Reference == "" {
		call.Reference = uuid.New().String()
	}

	return g.post(ctx, req, "/purchases", call)
}

// Refund reverses a previous purchase identified by gatewayReference.
func (g *Gateway) Refund(ctx context.Context, req *paykit.Request) (paykit.Response, error) {
	if req.Sent() {
		return nil, paykit.ErrRequestSent
	}
	if err := req.Validate(paykit.ParamGatewayReference, paykit.ParamAmount, paykit.ParamCurrency); err != nil {
		return nil, err
	}

	call, err := g.buildCall(req)
	if err != nil {
		return nil, err
	}
	call.Reference = req.GatewayReference()

	return g.post(ctx, req, "/refunds", call)
}

func (g *Gateway) buildCall(req *paykit.Request) (*purchaseCall, error) {
	amount, err := req.AmountDecimal()
	if err != nil {
		return nil, fmt.Errorf("formatting amount: %w", err)
	}
	// numeric code is a best effort; unknown currencies just omit it
	numeric, _ := req.CurrencyNumeric()

	return &purchaseCall{
		Amount:          amount,
		Currency:        req.Currency(),
		CurrencyNumeric: numeric,
		Description:     req.Description(),
		Reference:       req.TransactionID(),
		ClientIP:        req.ClientIP(),
		ReturnURL:       req.ReturnURL(),
		CancelURL:       req.CancelURL(),
	}, nil
}

func (g *Gateway) post(ctx context.Context, req *paykit.Request, path string, call *purchaseCall) (paykit.Response, error) {
	base := g.config.LiveURL
	if req.TestMode() {
		base = g.config.TestURL
	}

	body, err := json.Marshal(call)
	if err != nil {
		return nil, fmt.Errorf("encoding call: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, base+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.config.APIKey)
	}

	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending %s: %w", path, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("gateway error: %s", httpResp.Status)
	}

	resp := &Response{}
	if err := json.NewDecoder(httpResp.Body).Decode(resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if err := req.AttachResponse(resp); err != nil {
		return nil, err
	}

	g.logger.Info("call completed",
		slog.String("path", path),
		slog.Int("status", httpResp.StatusCode),
		slog.Bool("approved", resp.Approved),
		slog.String("reference", resp.Reference),
	)

	return resp, nil
}
