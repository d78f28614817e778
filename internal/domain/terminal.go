package domain

// TerminalConfig holds the four opaque strings identifying a tenant's merchant
// terminal. Loaded once per request from restaurant configuration and never
// mutated by the gateway core.
type TerminalConfig struct {
	PosID       string
	SystemID    string
	Branch      string
	ClientAppID string
}

// IsZero reports whether no terminal has been configured for the tenant
func (c TerminalConfig) IsZero() bool {
	return c.PosID == "" && c.SystemID == "" && c.Branch == "" && c.ClientAppID == ""
}
