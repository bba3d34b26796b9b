package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"gomm/internal/omm"
)

// DefaultSpaceTrackURL is the Space-Track API root.
const DefaultSpaceTrackURL = "https://www.space-track.org"

// Credentials are the Space-Track login identity, loaded from a YAML file.
type Credentials struct {
	Identity string `yaml:"identity"`
	Password string `yaml:"password"`
}

// LoadCredentials reads credentials from a YAML file.
func LoadCredentials(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read credentials file: %w", err)
	}
	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	if creds.Identity == "" || creds.Password == "" {
		return Credentials{}, fmt.Errorf("credentials file must set identity and password")
	}
	return creds, nil
}

// SpaceTrackClient fetches GP data from Space-Track. The session cookie
// obtained at login lives in a cookie jar that is persisted to disk, so
// subsequent runs reuse the session instead of logging in again.
type SpaceTrackClient struct {
	HTTPClient *http.Client
	BaseURL    string
	creds      Credentials
	cookiePath string
	decoder    *omm.Decoder
	logger     *logrus.Logger
}

// NewSpaceTrackClient creates a client. cookiePath may be empty to disable
// session persistence; otherwise previously saved cookies are loaded into the
// jar immediately.
func NewSpaceTrackClient(creds Credentials, cookiePath string, logger *logrus.Logger) (*SpaceTrackClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	c := &SpaceTrackClient{
		HTTPClient: &http.Client{Timeout: 60 * time.Second, Jar: jar},
		BaseURL:    DefaultSpaceTrackURL,
		creds:      creds,
		cookiePath: cookiePath,
		decoder:    omm.NewDecoder(logger),
		logger:     logger,
	}
	if cookiePath != "" {
		if err := c.loadSession(); err != nil {
			logger.WithError(err).Warn("Failed to load saved Space-Track session")
		}
	}
	return c, nil
}

// Login posts the credentials and persists the session cookie.
func (c *SpaceTrackClient) Login(ctx context.Context) error {
	form := url.Values{}
	form.Set("identity", c.creds.Identity)
	form.Set("password", c.creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/ajaxauth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("space-track login failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("space-track login returned status %d", resp.StatusCode)
	}

	c.logger.WithField("identity", c.creds.Identity).Info("Logged in to Space-Track")

	if c.cookiePath != "" {
		if err := c.saveSession(); err != nil {
			c.logger.WithError(err).Warn("Failed to persist Space-Track session")
		}
	}
	return nil
}

// GPQuery builds a predicate path for the gp (general perturbations) class.
type GPQuery struct {
	NoradCatID int
	ObjectName string
	Epoch      string // predicate value, e.g. ">now-30"
	OrderBy    string
	Limit      int
}

// Path renders the query as a Space-Track REST predicate path ending in
// format/xml.
func (q GPQuery) Path() string {
	segs := []string{"basicspacedata", "query", "class", "gp"}
	if q.NoradCatID > 0 {
		segs = append(segs, "NORAD_CAT_ID", strconv.Itoa(q.NoradCatID))
	}
	if q.ObjectName != "" {
		segs = append(segs, "OBJECT_NAME", url.PathEscape(q.ObjectName))
	}
	if q.Epoch != "" {
		segs = append(segs, "EPOCH", url.PathEscape(q.Epoch))
	}
	if q.OrderBy != "" {
		segs = append(segs, "orderby", url.PathEscape(q.OrderBy))
	}
	if q.Limit > 0 {
		segs = append(segs, "limit", strconv.Itoa(q.Limit))
	}
	segs = append(segs, "format", "xml")
	return "/" + strings.Join(segs, "/")
}

// QueryRaw runs the query and returns the raw XML body. An expired session
// (401) triggers a single re-login and retry.
func (c *SpaceTrackClient) QueryRaw(ctx context.Context, q GPQuery) ([]byte, error) {
	body, status, err := c.get(ctx, q.Path())
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		c.logger.Info("Space-Track session expired, logging in again")
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
		body, status, err = c.get(ctx, q.Path())
		if err != nil {
			return nil, err
		}
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("space-track returned status %d", status)
	}
	return body, nil
}

// Query runs the query and decodes the returned messages.
func (c *SpaceTrackClient) Query(ctx context.Context, q GPQuery) ([]omm.Message, error) {
	body, err := c.QueryRaw(ctx, q)
	if err != nil {
		return nil, err
	}
	msgs, err := c.decoder.DecodeString(string(body))
	if err != nil {
		return nil, err
	}
	c.logger.WithField("count", len(msgs)).Info("Decoded Space-Track messages")
	return msgs, nil
}

func (c *SpaceTrackClient) get(ctx context.Context, path string) ([]byte, int, error) {
	reqURL := c.BaseURL + path
	c.logger.WithField("url", reqURL).Debug("Querying Space-Track")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("space-track request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read space-track response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (c *SpaceTrackClient) saveSession() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return err
	}
	return saveCookies(c.HTTPClient.Jar, u, c.cookiePath)
}

func (c *SpaceTrackClient) loadSession() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return err
	}
	return loadCookies(c.HTTPClient.Jar, u, c.cookiePath)
}
