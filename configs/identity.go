package configs

// IdentityConfig points at the hosted identity provider (GoTrue-style API).
type IdentityConfig struct {
	BaseURL    string `yaml:"base_url"`
	ServiceKey string `yaml:"service_key"`
	// RedirectURL is where invitation emails send the user to finish setup.
	RedirectURL string `yaml:"redirect_url"`
}
