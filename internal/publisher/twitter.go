package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/sirupsen/logrus"

	"github.com/BorisDmv/tweetbot/internal/config"
	"github.com/BorisDmv/tweetbot/internal/models"
)

const defaultAPIURL = "https://api.twitter.com"

// PublishError is returned when the platform rejects or fails a post.
type PublishError struct {
	Err error
}

func (e *PublishError) Error() string {
	return "post tweet: " + e.Err.Error()
}

func (e *PublishError) Unwrap() error { return e.Err }

// Credentials are the four OAuth 1.0a user-context values.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

func CredentialsFrom(cfg config.Config) Credentials {
	return Credentials{
		ConsumerKey:    cfg.TwitterAPIKey,
		ConsumerSecret: cfg.TwitterAPISecret,
		AccessToken:    cfg.TwitterAccessToken,
		AccessSecret:   cfg.TwitterAccessSecret,
	}
}

// Twitter posts through the X/Twitter v2 API.
type Twitter struct {
	client *http.Client
	apiURL string
	logger *logrus.Logger
}

// NewTwitter builds a publisher whose requests are signed with creds.
// base, when non-nil, is the transport the signing client wraps.
func NewTwitter(creds Credentials, apiURL string, base *http.Client, logger *logrus.Logger) *Twitter {
	apiURL = strings.TrimRight(apiURL, "/")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	ctx := context.Background()
	if base != nil {
		ctx = context.WithValue(ctx, oauth1.HTTPClient, base)
	}
	client := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret).
		Client(ctx, oauth1.NewToken(creds.AccessToken, creds.AccessSecret))
	client.Timeout = 30 * time.Second
	return &Twitter{client: client, apiURL: apiURL, logger: logger}
}

type createTweetRequest struct {
	Text string `json:"text"`
}

type createTweetResponse struct {
	Data   *models.PublishResult `json:"data"`
	Errors []struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	} `json:"errors"`
}

// Publish creates one tweet containing text as given.
func (t *Twitter) Publish(ctx context.Context, text string) (*models.PublishResult, error) {
	result, err := t.createTweet(ctx, text)
	if err != nil {
		t.logger.WithError(err).Error("Error posting tweet")
		return nil, &PublishError{Err: err}
	}
	return result, nil
}

func (t *Twitter) createTweet(ctx context.Context, text string) (*models.PublishResult, error) {
	payload, err := json.Marshal(createTweetRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("twitter: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.apiURL+"/2/tweets", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("twitter: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twitter: request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("twitter: read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("twitter: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var decoded createTweetResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("twitter: decode response: %w", err)
	}
	if decoded.Data == nil || decoded.Data.ID == "" {
		if len(decoded.Errors) > 0 {
			return nil, fmt.Errorf("twitter: %s", strings.TrimSpace(decoded.Errors[0].Message+" "+decoded.Errors[0].Detail))
		}
		return nil, errors.New("twitter: response has no tweet data")
	}
	return decoded.Data, nil
}
