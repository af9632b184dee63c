package mastodon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client posts statuses on behalf of a linked Mastodon account. The
// instance URL is derived from the account handle (user@instance).
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// InstanceURL extracts the https origin of the instance a handle lives on.
func InstanceURL(handle string) (string, error) {
	_, instance, found := strings.Cut(handle, "@")
	if !found || instance == "" {
		return "", fmt.Errorf("invalid mastodon handle %q", handle)
	}

	return "https://" + instance, nil
}

type statusResponse struct {
	ID string `json:"id"`
}

// PostStatus publishes status under accessToken and returns the remote
// status id.
func (c *Client) PostStatus(ctx context.Context, handle, accessToken, status string) (string, error) {
	instanceURL, err := InstanceURL(handle)
	if err != nil {
		return "", err
	}

	form := url.Values{"status": {status}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		instanceURL+"/api/v1/statuses", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("post status returned status %d", resp.StatusCode)
	}

	var result statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	return result.ID, nil
}
