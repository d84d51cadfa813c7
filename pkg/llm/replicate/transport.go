package replicate

import (
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/net/proxy"
)

// NewHTTPClient returns the client used for provider calls. A non-empty
// proxyURL (socks5:// or socks5h://) routes every dial through that proxy.
func NewHTTPClient(proxyURL string) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy url: %w", err)
		}

		dialer, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("creating proxy dialer: %w", err)
		}

		contextDialer, ok := dialer.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("proxy dialer %T does not support contexts", dialer)
		}

		transport.Proxy = nil
		transport.DialContext = contextDialer.DialContext
	}

	return &http.Client{Transport: transport}, nil
}
