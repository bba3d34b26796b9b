package fetch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
)

// saveCookies writes the jar's cookies for u to path as JSON, mode 0600 since
// a session cookie is a credential.
func saveCookies(jar http.CookieJar, u *url.URL, path string) error {
	cookies := jar.Cookies(u)
	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize cookies: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write cookie file: %w", err)
	}
	return nil
}

// loadCookies restores cookies for u from path into the jar. A missing file
// is not an error; there is simply no saved session yet.
func loadCookies(jar http.CookieJar, u *url.URL, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cookie file: %w", err)
	}
	var cookies []*http.Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return fmt.Errorf("failed to parse cookie file: %w", err)
	}
	jar.SetCookies(u, cookies)
	return nil
}
