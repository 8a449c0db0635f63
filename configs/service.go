package configs

type ServiceConfig struct {
	HttpPort    string `yaml:"http_port"`
	ServiceName string `yaml:"service_name"`
	// BaseURL is this API's public URL, used in redirects it issues.
	BaseURL string `yaml:"base_url"`
	// AppURL is the frontend's public URL, target of auth redirects.
	AppURL string `yaml:"app_url"`
	// AllowedOrigins feeds the CORS middleware.
	AllowedOrigins []string `yaml:"allowed_origins"`
}
