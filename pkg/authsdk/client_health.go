package authsdk

import (
	"context"
	"fmt"
	"net/http"
)

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.getHealth(ctx, "/livez")
}

// GetReadiness checks if the service is ready. A degraded service returns
// the health report together with an error.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.getHealth(ctx, "/readyz")
}

func (c *SDKClient) getHealth(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	status := resp.StatusCode

	var health HealthResponse
	if err := decodeJSON(resp, &health); err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return &health, fmt.Errorf("%s returned %d: %s", path, status, health.Status)
	}
	return &health, nil
}
