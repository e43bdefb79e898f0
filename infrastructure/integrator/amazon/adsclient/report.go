package adsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	amazondomain "github.com/tuobayong1988/amazon-ads-optimizer-sub009/infrastructure/integrator/amazon/domain"
)

// reportSpec maps one (ad product, report type) pair onto the v3 reporting
// request shape. The vendor uses a distinct reportTypeId and groupBy per
// combination.
type reportSpec struct {
	reportTypeID string
	adProduct    string
	groupBy      []string
}

var reportSpecs = map[string]reportSpec{
	"sp/campaign": {reportTypeID: "spCampaigns", adProduct: "SPONSORED_PRODUCTS", groupBy: []string{"campaign"}},
	"sp/adGroup":  {reportTypeID: "spCampaigns", adProduct: "SPONSORED_PRODUCTS", groupBy: []string{"campaign", "adGroup"}},
	"sp/keyword":  {reportTypeID: "spTargeting", adProduct: "SPONSORED_PRODUCTS", groupBy: []string{"targeting"}},
	"sp/target":   {reportTypeID: "spTargeting", adProduct: "SPONSORED_PRODUCTS", groupBy: []string{"targeting"}},
	"sb/campaign": {reportTypeID: "sbCampaigns", adProduct: "SPONSORED_BRANDS", groupBy: []string{"campaign"}},
	"sb/adGroup":  {reportTypeID: "sbAdGroup", adProduct: "SPONSORED_BRANDS", groupBy: []string{"adGroup"}},
	"sb/keyword":  {reportTypeID: "sbTargeting", adProduct: "SPONSORED_BRANDS", groupBy: []string{"targeting"}},
	"sd/campaign": {reportTypeID: "sdCampaigns", adProduct: "SPONSORED_DISPLAY", groupBy: []string{"campaign"}},
	"sd/adGroup":  {reportTypeID: "sdAdGroup", adProduct: "SPONSORED_DISPLAY", groupBy: []string{"adGroup"}},
	"sd/target":   {reportTypeID: "sdTargeting", adProduct: "SPONSORED_DISPLAY", groupBy: []string{"targeting"}},
}

type createReportRequest struct {
	Name          string              `json:"name"`
	StartDate     string              `json:"startDate"`
	EndDate       string              `json:"endDate"`
	Configuration reportConfiguration `json:"configuration"`
}

type reportConfiguration struct {
	AdProduct    string   `json:"adProduct"`
	GroupBy      []string `json:"groupBy"`
	Columns      []string `json:"columns"`
	ReportTypeID string   `json:"reportTypeId"`
	TimeUnit     string   `json:"timeUnit"`
	Format       string   `json:"format"`
}

type createReportResponse struct {
	ReportID string `json:"reportId"`
	Status   string `json:"status"`
}

// RequestReport asks the API to start building a report and returns the
// opaque report id.
func (c *AdsClient) RequestReport(ctx context.Context, profileID string, req *amazondomain.ReportRequest) (string, error) {
	spec, ok := reportSpecs[req.AdProduct+"/"+req.ReportType]
	if !ok {
		return "", errors.Errorf("no report spec for product %q type %q", req.AdProduct, req.ReportType)
	}

	payload := createReportRequest{
		Name:      fmt.Sprintf("%s-%s-%s", spec.reportTypeID, req.StartDate.Format(time.DateOnly), req.EndDate.Format(time.DateOnly)),
		StartDate: req.StartDate.Format(time.DateOnly),
		EndDate:   req.EndDate.Format(time.DateOnly),
		Configuration: reportConfiguration{
			AdProduct:    spec.adProduct,
			GroupBy:      spec.groupBy,
			Columns:      req.Columns,
			ReportTypeID: spec.reportTypeID,
			TimeUnit:     "DAILY",
			Format:       "GZIP_JSON",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "marshalling report request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.Cfg.Amazon.AdsAPIURL+"/reporting/reports", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "building report request")
	}
	if err := c.authorize(httpReq, profileID); err != nil {
		return "", errors.Wrap(err, "authorizing report request")
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(err, "requesting report")
	}
	defer resp.Body.Close()

	respBody, err := c.handleResponse(resp)
	if err != nil {
		return "", err
	}

	var created createReportResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return "", errors.Wrap(err, "decoding report response")
	}
	if created.ReportID == "" {
		return "", errors.New("report response carried no reportId")
	}

	return created.ReportID, nil
}

type reportStatusResponse struct {
	ReportID      string `json:"reportId"`
	Status        string `json:"status"`
	URL           string `json:"url"`
	FailureReason string `json:"failureReason"`
}

// GetReportStatus polls a previously requested report.
func (c *AdsClient) GetReportStatus(ctx context.Context, profileID, reportID string) (*amazondomain.ReportStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.Cfg.Amazon.AdsAPIURL+"/reporting/reports/"+reportID, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building status request")
	}
	if err := c.authorize(httpReq, profileID); err != nil {
		return nil, errors.Wrap(err, "authorizing status request")
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "polling report status")
	}
	defer resp.Body.Close()

	respBody, err := c.handleResponse(resp)
	if err != nil {
		return nil, err
	}

	var status reportStatusResponse
	if err := json.Unmarshal(respBody, &status); err != nil {
		return nil, errors.Wrap(err, "decoding status response")
	}

	return &amazondomain.ReportStatus{
		ReportID:      status.ReportID,
		State:         normalizeState(status.Status),
		URL:           status.URL,
		FailureReason: status.FailureReason,
	}, nil
}

// normalizeState folds the vendor's status vocabulary into the three states
// the engine cares about.
func normalizeState(vendor string) amazondomain.ReportState {
	switch vendor {
	case "COMPLETED", "SUCCESS":
		return amazondomain.ReportStateCompleted
	case "FAILURE", "FAILED", "CANCELLED":
		return amazondomain.ReportStateFailed
	default:
		// PENDING, PROCESSING, IN_PROGRESS and anything new: still working.
		return amazondomain.ReportStatePending
	}
}

// DownloadReport fetches the completed report's compressed byte stream. The
// download URL is pre-signed, so no Ads API headers are attached.
func (c *AdsClient) DownloadReport(ctx context.Context, downloadURL string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building download request")
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "downloading report")
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}
