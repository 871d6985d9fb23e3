package id

import (
	"net"
)

// ResolveExposedIP returns the first non-loopback IPv4 address of the host,
// falling back to 127.0.0.1.
func ResolveExposedIP() net.IP {
	addrs, err := net.InterfaceAddrs()
	if err == nil {
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok || ipNet.IP.IsLoopback() {
				continue
			}
			if ip := ipNet.IP.To4(); ip != nil {
				return ip
			}
		}
	}
	return net.IPv4(127, 0, 0, 1).To4()
}
