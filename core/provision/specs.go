package provision

import (
	"github.com/dmitrymomot/sslsetup/core/container"
	"github.com/dmitrymomot/sslsetup/core/nginxconf"
)

// proxySpec is the long-running nginx container. Config, webroot and
// certificate store are mounted read-only.
func (p *Pipeline) proxySpec() container.Spec {
	return container.Spec{
		Image: p.cfg.NginxImage,
		Name:  p.cfg.NginxContainer,
		Ports: []container.Port{
			{Container: 80, Host: 80},
			{Container: 443, Host: 443},
		},
		Volumes: []container.Volume{
			{HostPath: p.cfg.NginxConfDir, ContainerPath: nginxconf.ConfDir, Mode: container.ReadOnly},
			{HostPath: p.cfg.WebrootDir, ContainerPath: nginxconf.WebrootDir, Mode: container.ReadOnly},
			{HostPath: p.cfg.CertDir, ContainerPath: nginxconf.LetsEncryptDir, Mode: container.ReadOnly},
		},
		RestartPolicy: container.RestartUnlessStopped,
		Detach:        true,
	}
}

// agentSpec is the one-shot certbot container.
func (p *Pipeline) agentSpec(req Request) container.Spec {
	return container.Spec{
		Image:   p.cfg.CertbotImage,
		Name:    p.cfg.CertbotContainer,
		Command: certbotCommand(req, p.cfg.Staging),
		Volumes: []container.Volume{
			{HostPath: p.cfg.CertDir, ContainerPath: nginxconf.LetsEncryptDir, Mode: container.ReadWrite},
			{HostPath: p.cfg.WebrootDir, ContainerPath: nginxconf.WebrootDir, Mode: container.ReadWrite},
			{HostPath: p.cfg.LogsDir, ContainerPath: nginxconf.LetsEncryptLogDir, Mode: container.ReadWrite},
		},
		NetworkMode: "host",
		AutoRemove:  true,
	}
}

func certbotCommand(req Request, staging bool) []string {
	cmd := []string{"certonly", "--webroot", "-w", nginxconf.WebrootDir}
	if req.Email != "" {
		cmd = append(cmd, "--email", req.Email)
	} else {
		cmd = append(cmd, "--register-unsafely-without-email")
	}
	cmd = append(cmd, "--agree-tos", "-d", req.Domain, "--non-interactive")
	if staging {
		cmd = append(cmd, "--staging")
	}
	return cmd
}

// reloadCommand reloads nginx configuration without recreating the container.
var reloadCommand = []string{"nginx", "-s", "reload"}
