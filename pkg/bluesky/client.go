package bluesky

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to an AT Protocol personal data server. Only the two calls
// the mirror adapter needs are implemented: createSession and createRecord.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

type Session struct {
	AccessJwt string `json:"accessJwt"`
	Did       string `json:"did"`
	pdsURL    string
}

// CreateSession authenticates handle with an app password against pdsURL.
func (c *Client) CreateSession(ctx context.Context, pdsURL, handle, appPassword string) (*Session, error) {
	body, err := json.Marshal(map[string]string{
		"identifier": handle,
		"password":   appPassword,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		pdsURL+"/xrpc/com.atproto.server.createSession", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("create session returned status %d", resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}

	if session.AccessJwt == "" || session.Did == "" {
		return nil, fmt.Errorf("invalid session data")
	}

	session.pdsURL = pdsURL
	return &session, nil
}

type postRecord struct {
	Type      string `json:"$type"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

type createRecordRequest struct {
	Repo       string     `json:"repo"`
	Collection string     `json:"collection"`
	Record     postRecord `json:"record"`
}

type createRecordResponse struct {
	URI string `json:"uri"`
}

// Post publishes text as an app.bsky.feed.post record and returns the
// record URI.
func (c *Client) Post(ctx context.Context, session *Session, text string) (string, error) {
	body, err := json.Marshal(createRecordRequest{
		Repo:       session.Did,
		Collection: "app.bsky.feed.post",
		Record: postRecord{
			Type:      "app.bsky.feed.post",
			Text:      text,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		session.pdsURL+"/xrpc/com.atproto.repo.createRecord", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+session.AccessJwt)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("create record returned status %d", resp.StatusCode)
	}

	var record createRecordResponse
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return "", err
	}

	return record.URI, nil
}
