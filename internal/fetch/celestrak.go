// Package fetch retrieves OMM documents from Celestrak and Space-Track and
// hands the raw XML to the message decoder. The decode engine itself has no
// network behaviour; these clients are its only I/O collaborators.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"gomm/internal/omm"
)

// DefaultCelestrakURL is Celestrak's general-perturbations query endpoint.
const DefaultCelestrakURL = "https://celestrak.org/NORAD/elements/gp.php"

// CelestrakClient fetches OMM XML from Celestrak's GP endpoint.
type CelestrakClient struct {
	HTTPClient *http.Client
	BaseURL    string
	decoder    *omm.Decoder
	logger     *logrus.Logger
}

// NewCelestrakClient creates a client with a 30 second request timeout.
func NewCelestrakClient(logger *logrus.Logger) *CelestrakClient {
	return &CelestrakClient{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		BaseURL:    DefaultCelestrakURL,
		decoder:    omm.NewDecoder(logger),
		logger:     logger,
	}
}

// CelestrakQuery selects objects by exactly one predicate.
type CelestrakQuery struct {
	Group   string // named group, e.g. "stations"
	Name    string // object name substring
	IntlDes string // international designator
	CatNr   int    // NORAD catalog number
}

func (q CelestrakQuery) values() (url.Values, error) {
	v := url.Values{}
	switch {
	case q.Group != "":
		v.Set("GROUP", q.Group)
	case q.Name != "":
		v.Set("NAME", q.Name)
	case q.IntlDes != "":
		v.Set("INTDES", q.IntlDes)
	case q.CatNr > 0:
		v.Set("CATNR", strconv.Itoa(q.CatNr))
	default:
		return nil, fmt.Errorf("celestrak query needs a group, name, designator or catalog number")
	}
	v.Set("FORMAT", "xml")
	return v, nil
}

// FetchRaw returns the raw XML response body for the query.
func (c *CelestrakClient) FetchRaw(ctx context.Context, q CelestrakQuery) ([]byte, error) {
	v, err := q.values()
	if err != nil {
		return nil, err
	}
	reqURL := c.BaseURL + "?" + v.Encode()

	c.logger.WithField("url", reqURL).Debug("Fetching from Celestrak")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("celestrak request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("celestrak returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read celestrak response: %w", err)
	}
	return body, nil
}

// Fetch retrieves and decodes the messages matching the query.
func (c *CelestrakClient) Fetch(ctx context.Context, q CelestrakQuery) ([]omm.Message, error) {
	body, err := c.FetchRaw(ctx, q)
	if err != nil {
		return nil, err
	}
	msgs, err := c.decoder.DecodeString(string(body))
	if err != nil {
		return nil, err
	}
	c.logger.WithField("count", len(msgs)).Info("Decoded Celestrak messages")
	return msgs, nil
}
