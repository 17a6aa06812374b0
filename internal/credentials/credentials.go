// Package credentials resolves Confluence authentication from flags,
// environment, the config file, and ~/.netrc, in that order.
package credentials

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/bgentry/go-netrc/netrc"
	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"

	"github.com/okibox/confluence-export/internal/config"
)

// Environment variables consulted after flags.
const (
	EnvBaseURL  = "CONFLUENCE_BASE_URL"
	EnvEmail    = "CONFLUENCE_EMAIL"
	EnvAPIToken = "CONFLUENCE_API_TOKEN"
)

// Credentials is a fully resolved set of authentication inputs.
type Credentials struct {
	BaseURL  string
	Email    string
	APIToken string
	// Source names where each run's credentials came from, for `auth show`.
	Source string
}

// Resolve fills in missing fields from the environment, the config file,
// and the netrc entry for the instance host. Explicitly passed values are
// never overridden.
func Resolve(baseURL, email, apiToken string) (*Credentials, error) {
	creds := &Credentials{BaseURL: baseURL, Email: email, APIToken: apiToken, Source: "flags"}

	if creds.fromEnv() {
		creds.Source = "environment"
	}
	if creds.complete() {
		return creds, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if creds.fromConfig(cfg) {
		creds.Source = "config file"
	}
	if creds.complete() {
		return creds, nil
	}

	if creds.fromNetrc() {
		creds.Source = "netrc"
	}
	if creds.complete() {
		return creds, nil
	}

	return nil, setupError(creds)
}

func (c *Credentials) complete() bool {
	return c.BaseURL != "" && c.Email != "" && c.APIToken != ""
}

func (c *Credentials) fromEnv() bool {
	filled := false
	if c.BaseURL == "" {
		if v := os.Getenv(EnvBaseURL); v != "" {
			c.BaseURL = v
			filled = true
		}
	}
	if c.Email == "" {
		if v := os.Getenv(EnvEmail); v != "" {
			c.Email = v
			filled = true
		}
	}
	if c.APIToken == "" {
		if v := os.Getenv(EnvAPIToken); v != "" {
			c.APIToken = v
			filled = true
		}
	}
	return filled
}

func (c *Credentials) fromConfig(cfg *config.Config) bool {
	filled := false
	if c.BaseURL == "" && cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
		filled = true
	}
	if c.Email == "" && cfg.Email != "" {
		c.Email = cfg.Email
		filled = true
	}
	if c.APIToken == "" && cfg.APIToken != "" {
		c.APIToken = cfg.APIToken
		filled = true
	}
	return filled
}

// fromNetrc looks up the instance host in ~/.netrc. The login maps to the
// account email and the password to the API token.
func (c *Credentials) fromNetrc() bool {
	if c.BaseURL == "" || (c.Email != "" && c.APIToken != "") {
		return false
	}

	host := netrcHost(c.BaseURL)
	if host == "" {
		return false
	}

	home, err := homedir.Dir()
	if err != nil {
		return false
	}
	path := filepath.Join(home, ".netrc")

	if info, err := os.Stat(path); err == nil && info.Mode().Perm()&0o077 != 0 {
		logrus.Warnf("%s is readable by other users; run: chmod 600 %s", path, path)
	}

	machine, err := netrc.FindMachine(path, host)
	if err != nil || machine == nil || machine.IsDefault() {
		if err != nil && !os.IsNotExist(err) {
			logrus.WithError(err).Debug("failed to read netrc")
		}
		return false
	}

	filled := false
	if c.Email == "" && machine.Login != "" {
		c.Email = machine.Login
		filled = true
	}
	if c.APIToken == "" && machine.Password != "" {
		c.APIToken = machine.Password
		filled = true
	}
	return filled
}

func netrcHost(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func setupError(c *Credentials) error {
	var missing string
	switch {
	case c.BaseURL == "":
		missing = "base URL"
	case c.Email == "":
		missing = "email"
	default:
		missing = "API token"
	}
	return fmt.Errorf(`no %s configured

Provide credentials one of these ways:
  flags:       --base-url, --email, --api-token
  environment: %s, %s, %s
  config file: ~/%s
  netrc:       machine <host> login <email> password <api-token>

Create an API token at https://id.atlassian.com/manage-profile/security/api-tokens`,
		missing, EnvBaseURL, EnvEmail, EnvAPIToken, config.FileName)
}
