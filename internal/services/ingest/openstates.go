package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/joinciviq/civiq-backend/internal/models"
)

const openStatesBaseURL = "https://v3.openstates.org"

// OpenStatesClient fetches state-level bills from the OpenStates API
type OpenStatesClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewOpenStatesClient(apiKey string, httpClient *http.Client) *OpenStatesClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenStatesClient{
		apiKey:     apiKey,
		baseURL:    openStatesBaseURL,
		httpClient: httpClient,
	}
}

type openStatesBill struct {
	ID                      string   `json:"id"`
	Identifier              string   `json:"identifier"`
	Title                   string   `json:"title"`
	Classification          []string `json:"classification"`
	FirstActionDate         string   `json:"first_action_date"`
	LatestActionDate        string   `json:"latest_action_date"`
	LatestActionDescription string   `json:"latest_action_description"`
	Abstracts               []struct {
		Abstract string `json:"abstract"`
	} `json:"abstracts"`
}

// FetchState returns recently updated bills for one state
func (c *OpenStatesClient) FetchState(ctx context.Context, state string) ([]SourceBill, error) {
	query := url.Values{}
	query.Set("jurisdiction", strings.ToLower(state))
	query.Set("sort", "updated_desc")
	query.Set("per_page", "20")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/bills?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openstates request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openstates returned status %d", resp.StatusCode)
	}

	var payload struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("openstates response decode failed: %w", err)
	}

	var out []SourceBill
	for _, raw := range payload.Results {
		var bill openStatesBill
		if err := json.Unmarshal(raw, &bill); err != nil || bill.ID == "" {
			continue
		}
		var rawDoc map[string]interface{}
		_ = json.Unmarshal(raw, &rawDoc)
		out = append(out, transformOpenStatesBill(bill, rawDoc, state))
	}
	return out, nil
}

func transformOpenStatesBill(bill openStatesBill, raw map[string]interface{}, state string) SourceBill {
	summary := bill.Title
	if len(bill.Abstracts) > 0 && bill.Abstracts[0].Abstract != "" {
		summary = bill.Abstracts[0].Abstract
	}
	status := bill.LatestActionDescription
	if status == "" {
		status = "Introduced"
	}
	chamber := "senate"
	for _, c := range bill.Classification {
		if c == "bill" {
			chamber = "house"
			break
		}
	}

	stateCode := strings.ToUpper(state)
	normalized := models.Bill{
		ExternalID:     bill.ID,
		Level:          models.LevelState,
		State:          &stateCode,
		Chamber:        chamber,
		BillNumber:     bill.Identifier,
		Title:          bill.Title,
		Summary:        summary,
		Status:         status,
		IntroducedDate: parseDate(bill.FirstActionDate),
		LastActionDate: parseDate(bill.LatestActionDate),
		Sponsor:        "State Representative", // Sponsor detail needs a second API call
	}

	return SourceBill{Source: SourceOpenStates, Bill: normalized, Raw: raw}
}
