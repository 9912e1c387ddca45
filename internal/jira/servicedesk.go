package jira

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	jira "github.com/andygrunwald/go-jira"
	"go.uber.org/zap"

	"github.com/clintrovert/jts/pkg/types"
)

// SearchServiceDesks retrieves one page of service desks
func (c *Client) SearchServiceDesks(ctx context.Context, start, limit int) (*types.ServiceDeskPage, error) {
	endpoint := fmt.Sprintf("rest/servicedeskapi/servicedesk?start=%d&limit=%d", start, limit)

	var page serviceDeskPage
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		return nil, fmt.Errorf("failed to list service desks: %w", err)
	}

	result := &types.ServiceDeskPage{
		Start:      page.Start,
		Limit:      page.Limit,
		IsLastPage: page.IsLastPage,
		Size:       len(page.Values),
		Values:     make([]types.ServiceDesk, 0, len(page.Values)),
	}
	for _, desk := range page.Values {
		id, err := strconv.Atoi(desk.ID)
		if err != nil {
			c.logger.Warn("skipping service desk with invalid id",
				zap.String("id", desk.ID),
				zap.String("project_key", desk.ProjectKey),
			)
			continue
		}
		result.Values = append(result.Values, types.ServiceDesk{
			ID:          id,
			ProjectKey:  desk.ProjectKey,
			ProjectName: desk.ProjectName,
		})
	}

	return result, nil
}

// ListRequestTypes retrieves the request types of a service desk. Only the
// first page returned by Jira is read.
func (c *Client) ListRequestTypes(ctx context.Context, serviceDeskID int) ([]types.RequestType, error) {
	endpoint := fmt.Sprintf("rest/servicedeskapi/servicedesk/%d/requesttype", serviceDeskID)

	var page requestTypePage
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		return nil, fmt.Errorf("failed to list request types: %w", err)
	}

	result := make([]types.RequestType, 0, len(page.Values))
	for _, rt := range page.Values {
		id, err := strconv.Atoi(rt.ID)
		if err != nil {
			c.logger.Warn("skipping request type with invalid id",
				zap.String("id", rt.ID),
				zap.String("name", rt.Name),
			)
			continue
		}
		result = append(result, types.RequestType{ID: id, Name: rt.Name})
	}

	return result, nil
}

// GetRequestTypeFields retrieves the field definitions of a request type
func (c *Client) GetRequestTypeFields(ctx context.Context, serviceDeskID, requestTypeID int) ([]types.RequiredField, error) {
	endpoint := fmt.Sprintf("rest/servicedeskapi/servicedesk/%d/requesttype/%d/field", serviceDeskID, requestTypeID)

	var resp requestTypeFields
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to get request type fields: %w", err)
	}

	result := make([]types.RequiredField, 0, len(resp.RequestTypeFields))
	for _, f := range resp.RequestTypeFields {
		field := types.RequiredField{
			FieldID:     f.FieldID,
			Name:        f.Name,
			Description: f.Description,
			Required:    f.Required,
		}
		for _, v := range f.ValidValues {
			field.ValidValues = append(field.ValidValues, types.ValidValue{Value: v.Value, Label: v.Label})
		}
		if f.JiraSchema != nil {
			field.Schema = &types.FieldSchema{
				Type:     f.JiraSchema.Type,
				System:   f.JiraSchema.System,
				Items:    f.JiraSchema.Items,
				Custom:   f.JiraSchema.Custom,
				CustomID: f.JiraSchema.CustomID,
			}
		}
		result = append(result, field)
	}

	return result, nil
}

// CreateRequest opens a service desk request
func (c *Client) CreateRequest(ctx context.Context, req *types.CreateRequest) (*types.CreatedIssue, error) {
	body := createRequestBody{
		ServiceDeskID:       strconv.Itoa(req.ServiceDeskID),
		RequestTypeID:       strconv.Itoa(req.RequestTypeID),
		RequestFieldValues:  req.FieldValues,
		RequestParticipants: []string{},
	}

	api := c.api()
	httpReq, err := api.NewRequestWithContext(ctx, http.MethodPost, "rest/servicedeskapi/request", body)
	if err != nil {
		return nil, fmt.Errorf("failed to build create request: %w", err)
	}

	var created createRequestResponse
	resp, err := api.Do(httpReq, &created)
	if err != nil {
		return nil, fmt.Errorf("failed to create service desk request: %w", responseError(resp, jira.NewJiraError(resp, err)))
	}

	c.logger.Info("created service desk request",
		zap.String("issue_key", created.IssueKey),
		zap.String("service_desk_id", created.ServiceDeskID),
	)

	return createdFromResponse(&created), nil
}

func createdFromResponse(resp *createRequestResponse) *types.CreatedIssue {
	issue := &types.CreatedIssue{
		ID:          resp.IssueID,
		Key:         resp.IssueKey,
		FieldValues: make(map[string]any, len(resp.RequestFieldValues)),
	}
	if resp.CurrentStatus != nil {
		issue.Status = resp.CurrentStatus.Status
	}
	for _, fv := range resp.RequestFieldValues {
		issue.FieldValues[fv.FieldID] = fv.Value
		if fv.FieldID == "summary" {
			if summary, ok := fv.Value.(string); ok {
				issue.Summary = summary
			}
		}
	}

	return issue
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	api := c.api()
	req, err := api.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := api.Do(req, v)
	if err != nil {
		return responseError(resp, jira.NewJiraError(resp, err))
	}

	return nil
}
