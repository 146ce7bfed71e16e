package paykit

// Response is the result a gateway produces for a sent request. Concrete
// gateways return their own implementation; a declined payment is still a
// Response (with Successful() == false), not an error.
type Response interface {
	// Successful reports whether the gateway approved the operation.
	Successful() bool
	// TransactionReference is the gateway's identifier for the operation,
	// used for follow-up calls such as refunds.
	TransactionReference() string
	// Message is the human-readable gateway status message, if any.
	Message() string
}
