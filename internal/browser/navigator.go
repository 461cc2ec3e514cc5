// Package browser sends the user to a checkout page.
package browser

import (
	"fmt"
	"io"
	"net/url"

	"github.com/pkg/browser"
)

// Navigator takes the user to a URL.
type Navigator interface {
	Navigate(target string) error
}

// System opens URLs in the default browser.
type System struct {
	// Output receives anything the launched browser command prints.
	Output io.Writer
}

// Navigate implements Navigator.
func (s System) Navigate(target string) error {
	if err := checkURL(target); err != nil {
		return err
	}
	if s.Output != nil {
		browser.Stdout = s.Output
		browser.Stderr = s.Output
	}
	return browser.OpenURL(target)
}

// checkURL accepts only absolute http(s) URLs.
func checkURL(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid checkout URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open non-http URL: %q", target)
	}
	return nil
}
