package endpoint

import (
	"encoding/binary"
	"net"

	"github.com/pkg/errors"
)

// IP2Long converts a dotted IPv4 address to its numeric value.
func IP2Long(ip string) (uint32, error) {
	v4 := net.ParseIP(ip).To4()
	if v4 == nil {
		return 0, errors.Errorf("not an IPv4 address: %q", ip)
	}
	return binary.BigEndian.Uint32(v4), nil
}

// Long2IP converts a numeric value back to a dotted IPv4 address.
func Long2IP(n uint32) string {
	ip := make(net.IP, 4)
	binary.BigEndian.PutUint32(ip, n)
	return ip.String()
}

// CIDRToIPRange returns the first and last address of an IPv4 block.
func CIDRToIPRange(cidr string) (start, end uint32, err error) {
	_, ipv4Net, err := net.ParseCIDR(cidr)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "could not convert CIDR '%s' to IP range", cidr)
	}
	if ipv4Net.IP.To4() == nil || len(ipv4Net.Mask) != net.IPv4len {
		return 0, 0, errors.Errorf("not an IPv4 CIDR: %q", cidr)
	}

	mask := binary.BigEndian.Uint32(ipv4Net.Mask)
	start = binary.BigEndian.Uint32(ipv4Net.IP.To4())
	end = (start & mask) | (mask ^ 0xffffffff)

	return start, end, nil
}
