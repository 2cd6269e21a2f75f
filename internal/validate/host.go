// Package validate holds the CLI input validators from §6.
package validate

import (
	"fmt"
	"net"
	"regexp"
	"strings"
)

var (
	fqdnLabel = regexp.MustCompile(`^(?:[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?)$`)
	allDigits = regexp.MustCompile(`^[0-9]+$`)
)

// Host validates host as an IPv4, IPv6, or FQDN address, per the CLI
// surface in §6: FQDN labels match `(?!-)[A-Za-z0-9-]{1,63}(?<!-)` and
// the TLD (last label) may not be all-digit.
func Host(host string) error {
	if host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if ip := net.ParseIP(host); ip != nil {
		return nil
	}
	return validateFQDN(host)
}

func validateFQDN(host string) error {
	if len(host) > 253 {
		return fmt.Errorf("host %q exceeds 253 characters", host)
	}

	labels := strings.Split(host, ".")
	for _, label := range labels {
		if label == "" || len(label) > 63 {
			return fmt.Errorf("host %q has an invalid label %q", host, label)
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return fmt.Errorf("host %q label %q may not start or end with a hyphen", host, label)
		}
		if !fqdnLabel.MatchString(label) {
			return fmt.Errorf("host %q has an invalid label %q", host, label)
		}
	}

	tld := labels[len(labels)-1]
	if allDigits.MatchString(tld) {
		return fmt.Errorf("host %q has an all-digit TLD %q", host, tld)
	}

	return nil
}
