package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BorisDmv/tweetbot/internal/config"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var testCreds = Credentials{
	ConsumerKey:    "consumer-key",
	ConsumerSecret: "consumer-secret",
	AccessToken:    "access-token",
	AccessSecret:   "access-secret",
}

func TestPublish(t *testing.T) {
	var gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2/tweets", r.URL.Path)
		auth := r.Header.Get("Authorization")
		assert.True(t, strings.HasPrefix(auth, "OAuth "), auth)
		assert.Contains(t, auth, `oauth_consumer_key="consumer-key"`)
		assert.Contains(t, auth, `oauth_token="access-token"`)
		assert.Contains(t, auth, "oauth_signature=")

		var body createTweetRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotText = body.Text

		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"data":{"id":"1767","text":%q}}`, body.Text)
	}))
	defer server.Close()

	long := strings.Repeat("ha", 200)
	tw := NewTwitter(testCreds, server.URL, server.Client(), testLogger())
	result, err := tw.Publish(context.Background(), long)
	require.NoError(t, err)
	assert.Equal(t, long, gotText, "text must not be truncated")
	assert.Equal(t, "1767", result.ID)
	assert.Equal(t, long, result.Text)
}

func TestPublishFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"forbidden", http.StatusForbidden, `{"title":"Forbidden","detail":"duplicate content"}`, "duplicate content"},
		{"rate limited", http.StatusTooManyRequests, `{"title":"Too Many Requests"}`, "429"},
		{"malformed", http.StatusCreated, `<html>`, "decode response"},
		{"errors only", http.StatusOK, `{"errors":[{"message":"Invalid","detail":"text is required"}]}`, "Invalid text is required"},
		{"empty data", http.StatusOK, `{}`, "no tweet data"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer server.Close()

			tw := NewTwitter(testCreds, server.URL, server.Client(), testLogger())
			_, err := tw.Publish(context.Background(), "hi")
			var pubErr *PublishError
			require.ErrorAs(t, err, &pubErr)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestCredentialsFrom(t *testing.T) {
	creds := CredentialsFrom(config.Config{
		TwitterAPIKey:       "a",
		TwitterAPISecret:    "b",
		TwitterAccessToken:  "c",
		TwitterAccessSecret: "d",
	})
	assert.Equal(t, Credentials{ConsumerKey: "a", ConsumerSecret: "b", AccessToken: "c", AccessSecret: "d"}, creds)
}

func TestNewTwitterDefaultURL(t *testing.T) {
	tw := NewTwitter(testCreds, "", nil, testLogger())
	assert.Equal(t, defaultAPIURL, tw.apiURL)
}
