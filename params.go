package paykit

// Parameter keys recognized by Request. Anything else passed at
// initialization lands in Params.Extra.
const (
	ParamTestMode         = "testMode"
	ParamCard             = "card"
	ParamToken            = "token"
	ParamAmount           = "amount"
	ParamCurrency         = "currency"
	ParamDescription      = "description"
	ParamTransactionID    = "transactionId"
	ParamGatewayReference = "gatewayReference"
	ParamClientIP         = "clientIp"
	ParamReturnURL        = "returnUrl"
	ParamCancelURL        = "cancelUrl"
)

// Params is the request parameter record. Fields are `any` on purpose:
// values are stored exactly as set and coerced by the typed accessors on
// read. Extra carries gateway-specific keys so they survive a round trip
// through Initialize without being an error.
type Params struct {
	TestMode         any
	Card             any
	Token            any
	Amount           any
	Currency         any
	Description      any
	TransactionID    any
	GatewayReference any
	ClientIP         any
	ReturnURL        any
	CancelURL        any

	Extra map[string]any
}

func (p *Params) get(key string) any {
	switch key {
	case ParamTestMode:
		return p.TestMode
	case ParamCard:
		return p.Card
	case ParamToken:
		return p.Token
	case ParamAmount:
		return p.Amount
	case ParamCurrency:
		return p.Currency
	case ParamDescription:
		return p.Description
	case ParamTransactionID:
		return p.TransactionID
	case ParamGatewayReference:
		return p.GatewayReference
	case ParamClientIP:
		return p.ClientIP
	case ParamReturnURL:
		return p.ReturnURL
	case ParamCancelURL:
		return p.CancelURL
	default:
		return p.Extra[key]
	}
}

func (p *Params) set(key string, value any) {
	switch key {
	case ParamTestMode:
		p.TestMode = value
	case ParamCard:
		p.Card = value
	case ParamToken:
		p.Token = value
	case ParamAmount:
		p.Amount = value
	case ParamCurrency:
		p.Currency = value
	case ParamDescription:
		p.Description = value
	case ParamTransactionID:
		p.TransactionID = value
	case ParamGatewayReference:
		p.GatewayReference = value
	case ParamClientIP:
		p.ClientIP = value
	case ParamReturnURL:
		p.ReturnURL = value
	case ParamCancelURL:
		p.CancelURL = value
	default:
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[key] = value
	}
}

// snapshot returns the set parameters as a fresh map. Unset recognized keys
// are omitted.
func (p *Params) snapshot() map[string]any {
	out := make(map[string]any, 11+len(p.Extra))
	for _, key := range recognizedKeys {
		if v := p.get(key); v != nil {
			out[key] = v
		}
	}
	for k, v := range p.Extra {
		out[k] = v
	}
	return out
}

var recognizedKeys = []string{
	ParamTestMode,
	ParamCard,
	ParamToken,
	ParamAmount,
	ParamCurrency,
	ParamDescription,
	ParamTransactionID,
	ParamGatewayReference,
	ParamClientIP,
	ParamReturnURL,
	ParamCancelURL,
}
