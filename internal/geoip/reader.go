package geoip

import (
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// Provider resolves room addresses to country codes.
type Provider struct {
	db *geoip2.Reader
}

// Open loads the MMDB file at path.
func Open(path string) (*Provider, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}

	return &Provider{db: db}, nil
}

// Close closes the underlying reader.
func (p *Provider) Close() error {
	return p.db.Close()
}

// GetCountryCode returns the ISO code for addr, which may carry a port.
// Private, loopback and unparsable addresses yield "".
func (p *Provider) GetCountryCode(addr string) string {
	ip := parseIP(addr)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
		return ""
	}

	record, err := p.db.Country(ip)
	if err != nil {
		return ""
	}

	return record.Country.IsoCode
}

func parseIP(addr string) net.IP {
	addr = strings.TrimSpace(addr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}

	return net.ParseIP(addr)
}
