package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/prefab-leads/internal/infra/queue"
)

const DefaultBaseURL = "https://prefab.kommo.com/api/v4"

// NewLeadStatusID is the pipeline stage new website leads land in.
const NewLeadStatusID = 96648371

type Client struct {
	HTTPClient *http.Client
	APIToken   string
	BaseURL    string
	Log        logrus.FieldLogger
}

func NewClient(apiToken, baseURL string, log logrus.FieldLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		APIToken:   apiToken,
		BaseURL:    baseURL,
		Log:        log,
	}
}

// SyncLead mirrors a captured website lead into Kommo.
func (c *Client) SyncLead(ctx context.Context, p queue.LeadCapturedPayload) error {
	tags := []string{"website"}
	if p.ReserveSlot {
		tags = append(tags, "slot_reserved")
	}

	_, err := c.CreateLead(ctx, CreateLeadInput{
		CustomerName: p.FirstName + " " + p.LastName,
		Phone:        p.Phone,
		Email:        p.Email,
		ProductName:  p.ProductName,
		Price:        p.TotalPrice,
		Origin:       p.Origin,
		Tags:         tags,
	})
	return err
}

func (c *Client) CreateLead(ctx context.Context, input CreateLeadInput) (int, error) {
	if c.APIToken == "" {
		return 0, fmt.Errorf("kommo not configured")
	}

	contactID, err := c.findOrCreateContact(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("finding or creating contact: %w", err)
	}

	tags := make([]map[string]interface{}, 0, len(input.Tags))
	for _, t := range input.Tags {
		tags = append(tags, map[string]interface{}{"name": t})
	}

	leadData := []map[string]interface{}{
		{
			"name":      fmt.Sprintf("%s - %s", input.CustomerName, input.ProductName),
			"status_id": NewLeadStatusID,
			"price":     int(input.Price),
			"_embedded": map[string]interface{}{
				"tags": tags,
				"contacts": []map[string]interface{}{
					{"id": contactID},
				},
			},
		},
	}

	var result embeddedIDs
	if err := c.do(ctx, http.MethodPost, "/leads", leadData, &result, http.StatusOK); err != nil {
		return 0, fmt.Errorf("creating lead: %w", err)
	}
	if len(result.Embedded.Leads) == 0 {
		return 0, fmt.Errorf("lead not created")
	}

	leadID := result.Embedded.Leads[0].ID
	c.Log.WithFields(logrus.Fields{"kommo_lead_id": leadID, "customer": input.CustomerName}).Info("✅ Kommo lead created")

	return leadID, nil
}

func (c *Client) findOrCreateContact(ctx context.Context, input CreateLeadInput) (int, error) {
	contactID, err := c.findContactByPhone(ctx, input.Phone)
	if err == nil && contactID > 0 {
		return contactID, nil
	}
	return c.createContact(ctx, input)
}

func (c *Client) findContactByPhone(ctx context.Context, phone string) (int, error) {
	var result embeddedIDs
	path := "/contacts?query=" + url.QueryEscape(phone)
	if err := c.do(ctx, http.MethodGet, path, nil, &result, http.StatusOK); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) > 0 {
		return result.Embedded.Contacts[0].ID, nil
	}
	return 0, fmt.Errorf("contact not found")
}

func (c *Client) createContact(ctx context.Context, input CreateLeadInput) (int, error) {
	contactData := []map[string]interface{}{
		{
			"name": input.CustomerName,
			"custom_fields_values": []map[string]interface{}{
				{
					"field_code": "PHONE",
					"values": []map[string]interface{}{
						{"value": input.Phone, "enum_code": "WORK"},
					},
				},
				{
					"field_code": "EMAIL",
					"values": []map[string]interface{}{
						{"value": input.Email, "enum_code": "WORK"},
					},
				},
			},
		},
	}

	var result embeddedIDs
	if err := c.do(ctx, http.MethodPost, "/contacts", contactData, &result, http.StatusOK, http.StatusCreated); err != nil {
		return 0, fmt.Errorf("creating contact: %w", err)
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, fmt.Errorf("created contact has no id")
	}
	return result.Embedded.Contacts[0].ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}, accept ...int) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	c.addAuthHeaders(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	ok := false
	for _, code := range accept {
		if resp.StatusCode == code {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("kommo %s %s: %d - %s", method, path, resp.StatusCode, string(raw))
	}

	return json.Unmarshal(raw, out)
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIToken))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
