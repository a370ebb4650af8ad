package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// allowedPushHosts lists the push service providers we accept endpoints
// from. An entry starting with a dot matches any subdomain.
var allowedPushHosts = []string{
	"fcm.googleapis.com",
	"updates.push.services.mozilla.com",
	".push.apple.com",
	".notify.windows.com",
	".windows.com",
}

// ValidateEndpoint validates a push subscription endpoint URL.
// Endpoints must use https and belong to a known push service provider.
func ValidateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("endpoint cannot be empty")
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint URL: %w", err)
	}

	if u.Scheme != "https" {
		return fmt.Errorf("endpoint must use https, got %q", u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("endpoint has no host")
	}

	for _, allowed := range allowedPushHosts {
		if strings.HasPrefix(allowed, ".") {
			if strings.HasSuffix(host, allowed) {
				return nil
			}
			continue
		}
		if host == allowed {
			return nil
		}
	}

	return fmt.Errorf("endpoint host %q is not a known push service", host)
}
