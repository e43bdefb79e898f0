package adsclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	amazondomain "github.com/tuobayong1988/amazon-ads-optimizer-sub009/infrastructure/integrator/amazon/domain"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/config"
)

// Client is the low-level Amazon Ads reporting API surface.
type Client interface {
	RequestReport(ctx context.Context, profileID string, req *amazondomain.ReportRequest) (string, error)
	GetReportStatus(ctx context.Context, profileID, reportID string) (*amazondomain.ReportStatus, error)
	DownloadReport(ctx context.Context, downloadURL string) ([]byte, error)
	EnsureValidToken() error
}

// AdsClient talks to the Ads API v3 reporting endpoints.
type AdsClient struct {
	Cfg          *config.Config
	TokenManager *TokenManager
	HTTPClient   *http.Client
}

func NewClient(cfg *config.Config, tokenManager *TokenManager) Client {
	return &AdsClient{
		Cfg:          cfg,
		TokenManager: tokenManager,
		HTTPClient:   &http.Client{Timeout: 60 * time.Second},
	}
}

// EnsureValidToken refreshes the LWA token when needed.
func (c *AdsClient) EnsureValidToken() error {
	return c.TokenManager.EnsureValidToken()
}

// authorize stamps the standard Ads API headers onto a request.
func (c *AdsClient) authorize(req *http.Request, profileID string) error {
	token, err := c.TokenManager.AccessToken()
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Amazon-Advertising-API-ClientId", c.Cfg.Amazon.ClientID)
	req.Header.Set("Amazon-Advertising-API-Scope", profileID)
	req.Header.Set("Content-Type", "application/vnd.createasyncreportrequest.v3+json")
	return nil
}

// apiErrorBody is the Ads API error payload.
type apiErrorBody struct {
	Code    string `json:"code"`
	Details string `json:"details"`
	Message string `json:"message"`
}

// handleResponse reads the body, turning non-2xx statuses into classified
// APIErrors. An expired token also invalidates the local cache so the next
// attempt refreshes before calling out.
func (c *AdsClient) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	apiErr := &amazondomain.APIError{StatusCode: resp.StatusCode}

	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		apiErr.Code = parsed.Code
		apiErr.Message = parsed.Message
		if apiErr.Message == "" {
			apiErr.Message = parsed.Details
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = resp.Status
	}

	if apiErr.Class() == amazondomain.ErrorClassExpiredToken {
		c.TokenManager.Invalidate()
	}

	return nil, apiErr
}
