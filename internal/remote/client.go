// Package remote talks to the remote state endpoint. Reads are cache-busted
// so intermediaries never serve a stale snapshot; writes are single
// best-effort submissions with no retry.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var httpClient = &http.Client{Timeout: 8 * time.Second}

// SnapshotFilename is the only filename the endpoint accepts on the write
// path; anything else is rejected server-side.
const SnapshotFilename = "scoreboard.xml"

// Client is bound to one identity and its opaque credential.
type Client struct {
	baseURL  string
	identity string
	token    string
}

func NewClient(baseURL, identity, token string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		identity: identity,
		token:    token,
	}
}

// Fetch returns the latest persisted snapshot for the client's identity.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	u := fmt.Sprintf("%s/boards/%s/%s?ts=%s",
		c.baseURL, url.PathEscape(c.identity), SnapshotFilename,
		strconv.FormatInt(time.Now().UnixNano(), 10))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("api status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	doc := strings.TrimSpace(string(body))
	if doc == "" {
		return "", fmt.Errorf("empty snapshot body")
	}
	return doc, nil
}

// Submit uploads a serialized snapshot as the named filedata field, with the
// fixed filename discriminator and the identity-bound token.
func (c *Client) Submit(ctx context.Context, doc string) error {
	form := url.Values{}
	form.Set("token", c.token)
	form.Set("filename", SnapshotFilename)
	form.Set("filedata", doc)
	u := fmt.Sprintf("%s/boards/%s/upload", c.baseURL, url.PathEscape(c.identity))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return fmt.Errorf("api status %d", resp.StatusCode)
	}
	return nil
}
