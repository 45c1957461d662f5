package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/joinciviq/civiq-backend/internal/models"
)

const (
	proPublicaBaseURL = "https://api.propublica.org/congress/v1"
	defaultCongress   = 118
)

// ProPublicaClient fetches federal bills from the ProPublica Congress API
type ProPublicaClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewProPublicaClient(apiKey string, httpClient *http.Client) *ProPublicaClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ProPublicaClient{
		apiKey:     apiKey,
		baseURL:    proPublicaBaseURL,
		httpClient: httpClient,
	}
}

type proPublicaBill struct {
	BillID                string `json:"bill_id"`
	Title                 string `json:"title"`
	ShortTitle            string `json:"short_title"`
	SponsorName           string `json:"sponsor_name"`
	IntroducedDate        string `json:"introduced_date"`
	LatestMajorActionDate string `json:"latest_major_action_date"`
	LatestMajorAction     string `json:"latest_major_action"`
	Summary               string `json:"summary"`
	CongressdotgovURL     string `json:"congressdotgov_url"`
}

// FetchIntroduced returns recently introduced bills for one chamber
func (c *ProPublicaClient) FetchIntroduced(ctx context.Context, chamber string) ([]SourceBill, error) {
	url := fmt.Sprintf("%s/%d/%s/bills/introduced.json", c.baseURL, defaultCongress, chamber)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("propublica request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("propublica returned status %d", resp.StatusCode)
	}

	var payload struct {
		Results []struct {
			Bills []json.RawMessage `json:"bills"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("propublica response decode failed: %w", err)
	}

	var out []SourceBill
	for _, result := range payload.Results {
		for _, raw := range result.Bills {
			var bill proPublicaBill
			if err := json.Unmarshal(raw, &bill); err != nil || bill.BillID == "" {
				continue
			}
			var rawDoc map[string]interface{}
			_ = json.Unmarshal(raw, &rawDoc)
			out = append(out, transformProPublicaBill(bill, rawDoc))
		}
	}
	return out, nil
}

func transformProPublicaBill(bill proPublicaBill, raw map[string]interface{}) SourceBill {
	title := bill.ShortTitle
	if title == "" {
		title = bill.Title
	}
	summary := bill.Summary
	if summary == "" {
		summary = bill.Title
	}
	status := bill.LatestMajorAction
	if status == "" {
		status = "Introduced"
	}
	chamber := "house"
	if strings.Contains(strings.ToLower(bill.BillID), "s.") {
		chamber = "senate"
	}

	normalized := models.Bill{
		ExternalID:     bill.BillID,
		Level:          models.LevelFederal,
		Chamber:        chamber,
		BillNumber:     bill.BillID,
		Title:          title,
		Summary:        summary,
		Status:         status,
		IntroducedDate: parseDate(bill.IntroducedDate),
		LastActionDate: parseDate(bill.LatestMajorActionDate),
		Sponsor:        bill.SponsorName,
	}
	if bill.CongressdotgovURL != "" {
		url := bill.CongressdotgovURL
		normalized.FullTextURL = &url
	}

	return SourceBill{Source: SourceProPublica, Bill: normalized, Raw: raw}
}
