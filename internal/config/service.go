package config

// ServiceConfig identifies the running service.
type ServiceConfig struct {
	Name                string `yaml:"name"`
	Environment         string `yaml:"environment"`
	Version             string `yaml:"version"`
	EnableTestEndpoints bool   `yaml:"enable_test_endpoints"`
}

// IsProduction reports whether simulated collaborators must stay disabled.
func (c ServiceConfig) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
