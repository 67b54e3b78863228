// Package firehol reads FireHOL blocklist files (.ipset and .netset, see
// https://github.com/firehol/blocklist-ipsets) as lists of address ranges.
package firehol

import (
	"bufio"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/anrid/intervaltree/pkg/endpoint"
)

type IPSet struct {
	Name          string
	Maintainer    string
	MaintainerURL string
	CIDRs         []string
	IPs           []string
}

// Range is an inclusive range of IPv4 addresses in numeric form.
type Range struct {
	Low  int64
	High int64
}

// IsIPSetFile reports whether path looks like a FireHOL set file.
func IsIPSetFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".ipset" || ext == ".netset"
}

// ParseIPSet reads the header comments and the address lines of a set.
func ParseIPSet(r io.Reader) (*IPSet, error) {
	ips := new(IPSet)
	scanner := bufio.NewScanner(r)
	var cc int

	for scanner.Scan() {
		l := strings.TrimSpace(scanner.Text())

		if l == "#" {
			// Single comment.
			cc++
			continue
		}

		if len(l) > 1 {
			if l[0:2] == "# " {
				if cc == 1 && ips.Name == "" {
					// Name of IP set.
					ips.Name = l[2:]
				} else if cc >= 2 {
					if strings.HasPrefix(l, "# Maintainer URL") {
						ips.MaintainerURL = headerValue(l)
					} else if strings.HasPrefix(l, "# Maintainer") {
						ips.Maintainer = headerValue(l)
					}
				}
			} else if l[0] != '#' && len(l) >= 7 {
				// Found IP or CIDR.
				if strings.Contains(l, "/") {
					ips.CIDRs = append(ips.CIDRs, l)
				} else {
					ips.IPs = append(ips.IPs, l)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "could not read IP set")
	}

	return ips, nil
}

func headerValue(l string) string {
	parts := strings.SplitN(l, " : ", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Ranges converts every CIDR and single address of the set to a range.
func (s *IPSet) Ranges() ([]Range, error) {
	res := make([]Range, 0, len(s.CIDRs)+len(s.IPs))
	for _, cidr := range s.CIDRs {
		start, end, err := endpoint.CIDRToIPRange(cidr)
		if err != nil {
			return nil, errors.Wrapf(err, "bad CIDR in set %s", s.Name)
		}
		res = append(res, Range{Low: int64(start), High: int64(end)})
	}
	for _, ip := range s.IPs {
		v, err := endpoint.IP2Long(ip)
		if err != nil {
			return nil, errors.Wrapf(err, "bad IP in set %s", s.Name)
		}
		res = append(res, Range{Low: int64(v), High: int64(v)})
	}
	return res, nil
}
