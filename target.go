package pageparse

import (
	"net"
	"net/url"
	"strconv"
	"strings"
)

// ProxyConfig describes an HTTP proxy used to reach a target.
// User and Password are optional basic credentials.
type ProxyConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	User     string `json:"user,omitempty" yaml:"user,omitempty"`
	Password string `json:"-" yaml:"-"`
}

// Validate returns an error if the proxy is missing its address.
func (p *ProxyConfig) Validate() error {
	if p.Host == "" {
		return Errorf(EINVALID, "proxy host required")
	}
	if p.Port <= 0 || p.Port > 65535 {
		return Errorf(EINVALID, "proxy port %d out of range", p.Port)
	}
	return nil
}

// URL returns the proxy address as an http URL carrying the credentials.
func (p *ProxyConfig) URL() *url.URL {
	u := &url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
	}
	if p.User != "" {
		u.User = url.UserPassword(p.User, p.Password)
	}
	return u
}

// FetchTarget is a URL plus optional proxy configuration.
// Targets are values; nothing downstream modifies them.
type FetchTarget struct {
	URL   string       `json:"url" yaml:"url"`
	Proxy *ProxyConfig `json:"proxy,omitempty" yaml:"proxy,omitempty"`
}

// NewFetchTarget returns a target for rawURL. A nil proxy means a direct GET.
func NewFetchTarget(rawURL string, proxy *ProxyConfig) FetchTarget {
	if proxy != nil {
		p := *proxy
		proxy = &p
	}
	return FetchTarget{URL: strings.TrimSpace(rawURL), Proxy: proxy}
}

// Validate returns an error if the target cannot be fetched.
func (t FetchTarget) Validate() error {
	if t.URL == "" {
		return Errorf(EINVALID, "target URL required")
	}
	u, err := url.Parse(t.URL)
	if err != nil {
		return Errorf(EINVALID, "invalid target URL %q: %v", t.URL, err)
	}
	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return Errorf(EINVALID, "unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return Errorf(EINVALID, "target URL %q has no host", t.URL)
	}
	if t.Proxy != nil {
		return t.Proxy.Validate()
	}
	return nil
}
