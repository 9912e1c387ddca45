package jira

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/clintrovert/jts/pkg/types"
)

// Probe checks whether Jira accepts the current credentials
func (c *Client) Probe(ctx context.Context) types.ConnectionStatus {
	api := c.api()
	req, err := api.NewRequestWithContext(ctx, http.MethodHead, "rest/api/2/search?startAt=0&maxResults=1", nil)
	if err != nil {
		c.logger.Error("failed to build probe request", zap.Error(err))
		return types.NotConnected
	}

	resp, err := api.Do(req, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	switch {
	case err == nil:
		c.logger.Info("connection to jira is valid", zap.String("scheme", string(c.Scheme())))
		return types.Connected
	case resp != nil && resp.StatusCode == http.StatusUnauthorized:
		c.logger.Warn("jira rejected credentials", zap.String("scheme", string(c.Scheme())))
		return types.Unauthorized
	default:
		c.logger.Error("failed to reach jira", zap.Error(err))
		return types.NotConnected
	}
}
