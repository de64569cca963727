package discovery

import "net"

// SortIPsByPreference orders addresses by dialing preference:
// IPv6 global, IPv6 unique-local, IPv6 link-local, then IPv4.
// The input slice is not modified.
func SortIPsByPreference(ips []net.IP) []net.IP {
	sorted := make([]net.IP, 0, len(ips))
	for _, class := range []func(net.IP) bool{
		isIPv6Global,
		isIPv6UniqueLocal,
		isIPv6LinkLocal,
		isIPv4,
	} {
		for _, ip := range ips {
			if class(ip) {
				sorted = append(sorted, ip)
			}
		}
	}
	return sorted
}

// FilterIPv4 returns only the IPv4 addresses from ips.
func FilterIPv4(ips []net.IP) []net.IP {
	var out []net.IP
	for _, ip := range ips {
		if isIPv4(ip) {
			out = append(out, ip)
		}
	}
	return out
}

// FilterIPv6 returns only the IPv6 addresses from ips.
func FilterIPv6(ips []net.IP) []net.IP {
	var out []net.IP
	for _, ip := range ips {
		if !isIPv4(ip) {
			out = append(out, ip)
		}
	}
	return out
}

func isIPv4(ip net.IP) bool {
	return ip.To4() != nil
}

func isIPv6LinkLocal(ip net.IP) bool {
	return !isIPv4(ip) && ip.IsLinkLocalUnicast()
}

func isIPv6UniqueLocal(ip net.IP) bool {
	// fc00::/7
	return !isIPv4(ip) && len(ip) == net.IPv6len && ip[0]&0xfe == 0xfc
}

func isIPv6Global(ip net.IP) bool {
	return !isIPv4(ip) && !ip.IsLinkLocalUnicast() && !isIPv6UniqueLocal(ip) &&
		!ip.IsLoopback() && !ip.IsUnspecified()
}
