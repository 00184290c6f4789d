package docker

// Config selects the Docker daemon. Empty fields fall back to the client's
// environment defaults.
type Config struct {
	Host       string `env:"DOCKER_HOST"`
	APIVersion string `env:"DOCKER_API_VERSION"`
}
