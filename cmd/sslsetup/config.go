package main

import (
	"github.com/dmitrymomot/sslsetup/core/provision"
	"github.com/dmitrymomot/sslsetup/core/server"
	"github.com/dmitrymomot/sslsetup/integration/docker"
	"github.com/dmitrymomot/sslsetup/pkg/netinfo"
)

const (
	engineDocker = "docker"
	engineMemory = "memory"
)

type Config struct {
	AppName  string `env:"APP_NAME" envDefault:"sslsetup"`
	AppEnv   string `env:"APP_ENV" envDefault:"production"`
	LogLevel string `env:"LOG_LEVEL"`

	// Engine selects the container backend: "docker", or "memory" for a dry run
	// that starts no containers.
	Engine string `env:"ENGINE" envDefault:"docker"`

	Server    server.Config
	Docker    docker.Config
	Provision provision.Config
	Netinfo   netinfo.Config
}
