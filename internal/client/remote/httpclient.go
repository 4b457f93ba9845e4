package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/akarpov88/petkeeper/internal/client/models"
	"github.com/akarpov88/petkeeper/internal/common"
)

const defaultPageLimit = 200

// TokenFunc supplies the bearer token for outbound requests.
type TokenFunc func(ctx context.Context) (string, error)

// HTTPClient implements Client over the backing store's HTTP/JSON API.
type HTTPClient struct {
	baseURL   string
	token     TokenFunc
	http      *http.Client
	pageLimit int
}

// NewHTTPClient returns an HTTPClient for the given base URL. tok may be nil
// for anonymous access (tests).
func NewHTTPClient(baseURL string, tok TokenFunc) *HTTPClient {
	return &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		token:     tok,
		http:      &http.Client{Timeout: 30 * time.Second},
		pageLimit: defaultPageLimit,
	}
}

// SetTimeout overrides the default per-request timeout.
func (c *HTTPClient) SetTimeout(d time.Duration) {
	c.http.Timeout = d
}

type changesRequest struct {
	Zone       string `json:"zone"`
	Owner      string `json:"owner"`
	SinceToken []byte `json:"since_token,omitempty"`
	Limit      int    `json:"limit"`
}

type changesResponse struct {
	Records   []models.RemoteRecord   `json:"records"`
	Deleted   []models.RemoteRecordID `json:"deleted"`
	NextToken []byte                  `json:"next_token"`
	More      bool                    `json:"more"`
}

type snapshotRequest struct {
	Zone  string `json:"zone"`
	Owner string `json:"owner"`
}

type snapshotResponse struct {
	Records []models.RemoteRecord `json:"records"`
}

type zonesResponse struct {
	Zones []models.Zone `json:"zones"`
}

type acceptShareRequest struct {
	Token string `json:"token"`
}

// FetchZoneChanges pages through the zone's change feed, accumulating all
// changed records and tombstones. The returned token is the last
// fully-received page's token; on a mid-paging failure both the partial
// change set and the error are returned.
func (c *HTTPClient) FetchZoneChanges(ctx context.Context, p Partition, zone models.Zone, since []byte) (*ChangeSet, error) {
	cs := &ChangeSet{Token: since}

	token := since
	for {
		req := changesRequest{Zone: zone.Name, Owner: zone.Owner, SinceToken: token, Limit: c.pageLimit}

		var resp changesResponse
		if err := c.post(ctx, fmt.Sprintf("/api/v1/%s/changes", p), req, &resp); err != nil {
			if len(cs.Records) > 0 || len(cs.Deleted) > 0 {
				return cs, err
			}
			return nil, err
		}

		cs.Records = append(cs.Records, resp.Records...)
		cs.Deleted = append(cs.Deleted, resp.Deleted...)
		cs.Token = resp.NextToken
		token = resp.NextToken

		if !resp.More {
			return cs, nil
		}
	}
}

// FetchAllRecords performs the unconditional full scan of a zone.
func (c *HTTPClient) FetchAllRecords(ctx context.Context, p Partition, zone models.Zone) ([]models.RemoteRecord, error) {
	req := snapshotRequest{Zone: zone.Name, Owner: zone.Owner}

	var resp snapshotResponse
	if err := c.post(ctx, fmt.Sprintf("/api/v1/%s/snapshot", p), req, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

// EnumerateZones lists all zones visible in a partition.
func (c *HTTPClient) EnumerateZones(ctx context.Context, p Partition) ([]models.Zone, error) {
	var resp zonesResponse
	if err := c.get(ctx, fmt.Sprintf("/api/v1/%s/zones", p), &resp); err != nil {
		return nil, err
	}
	return resp.Zones, nil
}

// ResolveShareURL extracts the share token from a share link and resolves it
// to metadata. The token is the link's last path element.
func (c *HTTPClient) ResolveShareURL(ctx context.Context, rawURL string) (*models.ShareMetadata, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidShare, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	token := parts[len(parts)-1]
	if token == "" {
		return nil, fmt.Errorf("%w: no token in url", common.ErrInvalidShare)
	}

	var meta models.ShareMetadata
	if err := c.get(ctx, "/api/v1/shares/resolve?token="+url.QueryEscape(token), &meta); err != nil {
		return nil, err
	}
	meta.Token = token
	return &meta, nil
}

// AcceptShare accepts a resolved share invitation.
func (c *HTTPClient) AcceptShare(ctx context.Context, meta *models.ShareMetadata) error {
	return c.post(ctx, "/api/v1/shares/accept", acceptShareRequest{Token: meta.Token}, &struct{}{})
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, path, out)
}

func (c *HTTPClient) do(req *http.Request, path string, out any) error {
	if c.token != nil {
		tok, err := c.token(req.Context())
		if err != nil {
			return fmt.Errorf("failed to obtain token: %w", err)
		}
		req.Header.Set(common.AuthHeaderName, "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return mapStatus(resp.StatusCode, path)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.mapTransportError(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// mapTransportError folds network-level failures into the taxonomy. Context
// cancellation is passed through so callers can distinguish their own
// cancellation from remote unavailability.
func (c *HTTPClient) mapTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
}

func mapStatus(code int, path string) error {
	switch code {
	case http.StatusGone:
		return common.ErrTokenExpired
	case http.StatusNotFound:
		return common.ErrZoneNotFound
	case http.StatusUnauthorized:
		return common.ErrUnauthorized
	case http.StatusForbidden:
		return common.ErrShareRejected
	default:
		return fmt.Errorf("%w: %s returned status %d", common.ErrUnavailable, path, code)
	}
}
