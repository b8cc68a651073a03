// internal/common/zoho/crm.go
package zoho

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	apphttp "portfolio-scoring-workers/internal/common/http"
)

var ErrLeadNotFound = errors.New("lead not found")

type CRMClient struct {
	oauthToken string
	baseURL    string
	httpClient *apphttp.Client
}

// Lead carries the Zoho Leads fields written for a scored partner portfolio.
// Custom fields use the Zoho API names configured in the CRM layout.
type Lead struct {
	ID            string `json:"id,omitempty"`
	Company       string `json:"Company"`
	LastName      string `json:"Last_Name"`
	Email         string `json:"Email,omitempty"`
	Phone         string `json:"Phone,omitempty"`
	LeadSource    string `json:"Lead_Source,omitempty"`
	LeadStatus    string `json:"Lead_Status,omitempty"`
	Rating        string `json:"Rating,omitempty"`
	Description   string `json:"Description,omitempty"`
	AvgFitScore   int    `json:"Portfolio_Avg_Fit_Score"`
	BootcampCount int    `json:"Portfolio_Bootcamp_Count"`
	SprintCount   int    `json:"Portfolio_Sprint_Count"`
}

type writeResponse struct {
	Data []struct {
		Code    string `json:"code"`
		Details struct {
			ID string `json:"id"`
		} `json:"details"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"data"`
}

func NewCRMClient(baseURL, oauthToken string, timeout time.Duration) *CRMClient {
	return &CRMClient{
		oauthToken: oauthToken,
		baseURL:    baseURL,
		httpClient: apphttp.NewClient(timeout),
	}
}

// Configured reports whether both endpoint and token are set.
func (c *CRMClient) Configured() bool {
	return c != nil && c.baseURL != "" && c.oauthToken != ""
}

// SearchLeadByEmail returns the first lead with email, or ErrLeadNotFound.
func (c *CRMClient) SearchLeadByEmail(ctx context.Context, email string) (*Lead, error) {
	endpoint := fmt.Sprintf("%s/Leads/search?email=%s", c.baseURL, url.QueryEscape(email))

	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Zoho answers an empty search with 204 and no body
	if resp.StatusCode == http.StatusNoContent {
		return nil, ErrLeadNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to search leads (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data []Lead `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Data) == 0 {
		return nil, ErrLeadNotFound
	}
	return &result.Data[0], nil
}

// CreateLead inserts lead and returns the new record id.
func (c *CRMClient) CreateLead(ctx context.Context, lead *Lead) (string, error) {
	return c.write(ctx, http.MethodPost, fmt.Sprintf("%s/Leads", c.baseURL), lead)
}

// UpdateLead overwrites the fields of an existing lead.
func (c *CRMClient) UpdateLead(ctx context.Context, leadID string, lead *Lead) error {
	_, err := c.write(ctx, http.MethodPut, fmt.Sprintf("%s/Leads/%s", c.baseURL, leadID), lead)
	return err
}

func (c *CRMClient) write(ctx context.Context, method, endpoint string, lead *Lead) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{"data": []Lead{*lead}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal lead: %w", err)
	}

	resp, err := c.do(ctx, method, endpoint, payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lead write failed (status %d): %s", resp.StatusCode, string(body))
	}

	var wr writeResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(wr.Data) == 0 {
		return "", fmt.Errorf("no data in response")
	}
	if wr.Data[0].Status != "success" {
		return "", fmt.Errorf("lead write rejected: %s (%s)", wr.Data[0].Message, wr.Data[0].Code)
	}
	return wr.Data[0].Details.ID, nil
}

func (c *CRMClient) do(ctx context.Context, method, endpoint string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+c.oauthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	return resp, nil
}
