package discovery

import (
	"net"
	"testing"
)

func TestNewServiceRecords(t *testing.T) {
	ip := net.ParseIP("192.0.2.10")
	svc, err := newService(Config{ServiceName: "dualtone", Port: 8080}, []net.IP{ip})
	if err != nil {
		t.Fatalf("newService: %v", err)
	}
	if svc.Port != 8080 {
		t.Errorf("port = %d, want 8080", svc.Port)
	}
	if svc.Service != ServiceType {
		t.Errorf("service = %q, want %q", svc.Service, ServiceType)
	}
	if len(svc.IPs) != 1 || !svc.IPs[0].Equal(ip) {
		t.Errorf("ips = %v, want [%v]", svc.IPs, ip)
	}
	found := false
	for _, txt := range svc.TXT {
		if txt == "ws=/ws" {
			found = true
		}
	}
	if !found {
		t.Errorf("TXT = %v, want ws=/ws entry", svc.TXT)
	}
}

func TestNewServiceRejectsBadConfig(t *testing.T) {
	ips := []net.IP{net.ParseIP("192.0.2.10")}
	for _, cfg := range []Config{
		{ServiceName: "", Port: 8080},
		{ServiceName: "dualtone", Port: 0},
		{ServiceName: "dualtone", Port: 70000},
	} {
		if _, err := newService(cfg, ips); err == nil {
			t.Errorf("newService(%+v) succeeded, want error", cfg)
		}
	}
}
