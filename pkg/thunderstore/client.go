package thunderstore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/embermod/ember/pkg/errors"
	"github.com/embermod/ember/pkg/logging"
)

// DefaultIndexURL is the Northstar community catalog endpoint.
const DefaultIndexURL = "https://northstar.thunderstore.io/c/northstar/api/v1/package/"

// Client talks to a Thunderstore catalog endpoint.
type Client struct {
	http     *http.Client
	indexURL string
}

// Option configures a Client.
type Option func(*Client)

// WithIndexURL points the client at a different catalog endpoint.
func WithIndexURL(url string) Option {
	return func(c *Client) { c.indexURL = url }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient returns a catalog client for the default Northstar endpoint.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: 30 * time.Second},
		indexURL: DefaultIndexURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// packageListing and packageVersionListing mirror the catalog wire format.
// Only the fields ember models are typed; everything else lands in the
// raw field bag so new catalog fields never break decoding.
type packageListing struct {
	Name     string
	Owner    string
	Versions []packageVersionListing
	Extra    map[string]json.RawMessage
}

type packageVersionListing struct {
	Dependencies  []string
	Description   string
	DownloadURL   string
	FileSize      int64
	VersionNumber string
	Extra         map[string]json.RawMessage
}

func (l *packageListing) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	l.Extra = make(map[string]json.RawMessage)
	for key, raw := range fields {
		var err error
		switch key {
		case "name":
			err = json.Unmarshal(raw, &l.Name)
		case "owner":
			err = json.Unmarshal(raw, &l.Owner)
		case "versions":
			err = json.Unmarshal(raw, &l.Versions)
		default:
			l.Extra[key] = raw
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (v *packageVersionListing) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	v.Extra = make(map[string]json.RawMessage)
	for key, raw := range fields {
		var err error
		switch key {
		case "dependencies":
			err = json.Unmarshal(raw, &v.Dependencies)
		case "description":
			err = json.Unmarshal(raw, &v.Description)
		case "download_url":
			err = json.Unmarshal(raw, &v.DownloadURL)
		case "file_size":
			err = json.Unmarshal(raw, &v.FileSize)
		case "version_number":
			err = json.Unmarshal(raw, &v.VersionNumber)
		default:
			v.Extra[key] = raw
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// FetchIndex downloads and decodes the package catalog.
func (c *Client) FetchIndex(ctx context.Context) ([]*Package, error) {
	logger := logging.GetLogger("thunderstore")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.indexURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrNetwork, "failed to build index request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrNetwork, "failed to fetch package index")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Newf(errors.ErrNetwork, "thunderstore returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrNetwork, "failed to read index response")
	}

	var listings []packageListing
	if err := json.Unmarshal(body, &listings); err != nil {
		return nil, errors.Wrap(err, errors.ErrParse, "failed to parse package index")
	}

	logger.Debug().Int("packages", len(listings)).Msg("Fetched package index")
	return mapListings(listings), nil
}

// mapListings converts the wire format to the core model. The first entry
// of each listing's versions array is the latest version.
func mapListings(listings []packageListing) []*Package {
	index := make([]*Package, 0, len(listings))
	for _, l := range listings {
		if len(l.Versions) == 0 {
			continue
		}

		pkg := &Package{
			Name:         l.Name,
			Author:       l.Owner,
			Latest:       l.Versions[0].VersionNumber,
			Versions:     make(map[string]*PackageVersion, len(l.Versions)),
			VersionOrder: make([]string, 0, len(l.Versions)),
			Extra:        l.Extra,
		}
		for _, v := range l.Versions {
			pkg.Versions[v.VersionNumber] = &PackageVersion{
				Name:        l.Name,
				Version:     v.VersionNumber,
				URL:         v.DownloadURL,
				Description: v.Description,
				FileSize:    v.FileSize,
				Deps:        v.Dependencies,
				Extra:       v.Extra,
			}
			pkg.VersionOrder = append(pkg.VersionOrder, v.VersionNumber)
		}
		index = append(index, pkg)
	}
	return index
}

// FindPackage returns the catalog entry with the given name,
// case-insensitively, or nil.
func FindPackage(index []*Package, name string) *Package {
	for _, p := range index {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}
