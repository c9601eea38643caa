package domain

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

// HTTPCRMConnector talks to the CRM's REST gateway.
type HTTPCRMConnector struct {
	client *httpClient
}

func NewHTTPCRMConnector(baseURL, apiKey string) *HTTPCRMConnector {
	return &HTTPCRMConnector{client: newHTTPClient(baseURL, apiKey)}
}

func (c *HTTPCRMConnector) FindContactByEmail(ctx context.Context, email string) (*CRMContact, error) {
	body, err := c.client.doJSON(ctx, http.MethodGet, "/contacts?email="+url.QueryEscape(email), nil)
	if err != nil {
		return nil, err
	}

	result := gjson.GetBytes(body, "contacts.0")
	if !result.Exists() {
		return nil, NewConnectorError(ConnectorErrNotFound, "contact not found in crm", nil)
	}
	return &CRMContact{
		ID:      result.Get("id").String(),
		Email:   result.Get("email").String(),
		Name:    result.Get("name").String(),
		Company: result.Get("company").String(),
		Title:   result.Get("title").String(),
	}, nil
}

func (c *HTTPCRMConnector) FindCompanyByDomain(ctx context.Context, domain string) (*CRMCompany, error) {
	body, err := c.client.doJSON(ctx, http.MethodGet, "/companies?domain="+url.QueryEscape(domain), nil)
	if err != nil {
		return nil, err
	}

	result := gjson.GetBytes(body, "companies.0")
	if !result.Exists() {
		return nil, NewConnectorError(ConnectorErrNotFound, "company not found in crm", nil)
	}
	return &CRMCompany{
		ID:       result.Get("id").String(),
		Domain:   result.Get("domain").String(),
		Name:     result.Get("name").String(),
		Industry: result.Get("industry").String(),
		ICPScore: result.Get("icp_score").Float(),
	}, nil
}

func (c *HTTPCRMConnector) Associations(ctx context.Context, contactID string) (*CRMAssociations, error) {
	body, err := c.client.doJSON(ctx, http.MethodGet, "/contacts/"+url.PathEscape(contactID)+"/associations", nil)
	if err != nil {
		return nil, err
	}

	assoc := &CRMAssociations{}
	for _, id := range gjson.GetBytes(body, "company_ids").Array() {
		assoc.CompanyIDs = append(assoc.CompanyIDs, id.String())
	}
	for _, deal := range gjson.GetBytes(body, "deals").Array() {
		assoc.DealIDs = append(assoc.DealIDs, deal.Get("id").String())
		assoc.Deals = append(assoc.Deals, CRMDeal{
			ID:     deal.Get("id").String(),
			Name:   deal.Get("name").String(),
			Stage:  deal.Get("stage").String(),
			Amount: deal.Get("amount").Float(),
		})
	}
	return assoc, nil
}

func (c *HTTPCRMConnector) CreateTask(ctx context.Context, contactID, title string, dueAt time.Time) (string, error) {
	payload := map[string]interface{}{
		"contact_id": contactID,
		"title":      title,
		"due_at":     dueAt.UTC().Format(time.RFC3339),
	}
	body, err := c.client.doJSON(ctx, http.MethodPost, "/tasks", payload)
	if err != nil {
		return "", err
	}
	taskID := gjson.GetBytes(body, "id").String()
	if taskID == "" {
		return "", NewConnectorError(ConnectorErrPermanent, "crm returned no task id", nil)
	}
	return taskID, nil
}

func (c *HTTPCRMConnector) UpdateTask(ctx context.Context, taskID string, fields JSONMap) error {
	_, err := c.client.doJSON(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(taskID), fields)
	return err
}

func (c *HTTPCRMConnector) DeleteTask(ctx context.Context, taskID string) error {
	_, err := c.client.doJSON(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(taskID), nil)
	if connErr, ok := AsConnectorError(err); ok && connErr.Kind == ConnectorErrNotFound {
		return nil
	}
	return err
}

func (c *HTTPCRMConnector) UpdateDeal(ctx context.Context, dealID string, fields JSONMap) error {
	_, err := c.client.doJSON(ctx, http.MethodPatch, "/deals/"+url.PathEscape(dealID), fields)
	return err
}
