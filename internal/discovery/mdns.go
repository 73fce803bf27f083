// Package discovery advertises the HTTP service on the local network.
package discovery

import (
	"errors"
	"fmt"
	"net"

	"github.com/hashicorp/mdns"
)

// ServiceType is the DNS-SD type the service registers under.
const ServiceType = "_dualtone._tcp"

// Config holds advertisement settings
type Config struct {
	ServiceName string
	Port        int
}

// Advertiser answers mDNS queries until Shutdown.
type Advertiser struct {
	service *mdns.MDNSService
	server  *mdns.Server
}

// Advertise registers the service on every non-loopback IPv4 interface.
func Advertise(cfg Config) (*Advertiser, error) {
	ips, err := localIPs()
	if err != nil {
		return nil, fmt.Errorf("failed to get local IPs: %w", err)
	}
	service, err := newService(cfg, ips)
	if err != nil {
		return nil, err
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to create mdns server: %w", err)
	}
	return &Advertiser{service: service, server: server}, nil
}

func newService(cfg Config, ips []net.IP) (*mdns.MDNSService, error) {
	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	service, err := mdns.NewMDNSService(
		cfg.ServiceName,
		ServiceType,
		"",
		"",
		cfg.Port,
		ips,
		[]string{"path=/", "ws=/ws"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return service, nil
}

// Service returns the advertised instance name and type.
func (a *Advertiser) Service() string {
	return a.service.Instance + "." + a.service.Service
}

// Shutdown stops answering queries.
func (a *Advertiser) Shutdown() error {
	return a.server.Shutdown()
}

// localIPs returns the IPv4 addresses of interfaces that are up.
func localIPs() ([]net.IP, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var ips []net.IP
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
				ips = append(ips, ipnet.IP)
			}
		}
	}
	return ips, nil
}
