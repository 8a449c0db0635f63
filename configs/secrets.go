package configs

type Secrets struct {
	// JWTSecret verifies the HS256 access tokens the identity provider issues.
	JWTSecret string `yaml:"jwt_secret"`
	// ServiceToken authenticates server-side callers of the push endpoint.
	ServiceToken string `yaml:"service_token"`
}
