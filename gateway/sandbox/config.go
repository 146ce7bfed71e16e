package sandbox

// Config is a configuration for the sandbox gateway client
type Config struct {
	// APIKey is sent as a bearer token when set.
	APIKey string
	// LiveURL and TestURL are the gateway endpoints; requests with testMode
	// set go to TestURL.
	LiveURL string
	TestURL string
}

func DefaultConfig() *Config {
	return &Config{
		LiveURL: "https://pay.sandbox-gateway.example",
		TestURL: "https://test.sandbox-gateway.example",
	}
}
