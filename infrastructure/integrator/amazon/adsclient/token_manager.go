package adsclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/config"
)

// refreshSkew renews the token this long before its reported expiry.
const refreshSkew = 5 * time.Minute

// TokenManager holds the Login-with-Amazon access token and refreshes it
// transparently before API calls. Submission retries after an expired-token
// failure go through EnsureValidToken, so the caller never sees the refresh.
type TokenManager struct {
	cfg         *config.Config
	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
	stopRefresh chan struct{}
	httpClient  *http.Client
}

// NewTokenManager creates a token manager over the configured LWA credentials.
func NewTokenManager(cfg *config.Config) *TokenManager {
	return &TokenManager{
		cfg:         cfg,
		stopRefresh: make(chan struct{}),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type tokenErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// AccessToken returns a valid token, refreshing first when needed.
func (tm *TokenManager) AccessToken() (string, error) {
	if err := tm.EnsureValidToken(); err != nil {
		return "", err
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.accessToken, nil
}

// EnsureValidToken refreshes the token when it is missing or near expiry.
func (tm *TokenManager) EnsureValidToken() error {
	tm.mu.Lock()
	valid := tm.accessToken != "" && time.Now().Before(tm.expiresAt.Add(-refreshSkew))
	tm.mu.Unlock()

	if valid {
		return nil
	}
	return tm.RefreshToken()
}

// RefreshToken exchanges the refresh token for a fresh access token.
func (tm *TokenManager) RefreshToken() error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	// Another goroutine may have refreshed while we waited for the lock.
	if tm.accessToken != "" && time.Now().Before(tm.expiresAt.Add(-refreshSkew)) {
		return nil
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", tm.cfg.Amazon.RefreshToken)
	form.Set("client_id", tm.cfg.Amazon.ClientID)
	form.Set("client_secret", tm.cfg.Amazon.ClientSecret)

	resp, err := tm.httpClient.Post(
		tm.cfg.Amazon.TokenURL,
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("requesting LWA token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var tokenErr tokenErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&tokenErr)
		return fmt.Errorf("LWA token refresh failed: status=%d error=%s description=%s",
			resp.StatusCode, tokenErr.Error, tokenErr.ErrorDescription)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return fmt.Errorf("decoding LWA token response: %w", err)
	}

	tm.accessToken = token.AccessToken
	tm.expiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)

	logrus.WithField("expires_at", tm.expiresAt.Format(time.RFC3339)).
		Debug("LWA access token refreshed")

	return nil
}

// Invalidate drops the cached token so the next call refreshes. Used after
// the API reports an expired token ahead of our local expiry estimate.
func (tm *TokenManager) Invalidate() {
	tm.mu.Lock()
	tm.accessToken = ""
	tm.mu.Unlock()
}

// StartAutoRefresh refreshes the token periodically until StopAutoRefresh.
// LWA tokens live for an hour; refreshing on a shorter cycle keeps the
// workers from paying the refresh latency inline.
func (tm *TokenManager) StartAutoRefresh() {
	if err := tm.EnsureValidToken(); err != nil {
		logrus.WithError(err).Error("initial LWA token refresh failed")
	}

	refreshInterval := 45 * time.Minute
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := tm.RefreshToken(); err != nil {
				logrus.WithError(err).Error("periodic LWA token refresh failed")
				ticker.Reset(5 * time.Minute)
			} else {
				ticker.Reset(refreshInterval)
			}
		case <-tm.stopRefresh:
			logrus.Info("stopping LWA token auto-refresh")
			return
		}
	}
}

// StopAutoRefresh terminates the auto-refresh goroutine.
func (tm *TokenManager) StopAutoRefresh() {
	close(tm.stopRefresh)
}
