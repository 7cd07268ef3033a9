package clients

import (
	"context"
	"net/http"

	"github.com/kunalkumaramar/daadis/models"
)

// ProfileAPI is the user profile contract: read, and update limited to the
// phone number and the full address list (addresses are replaced wholesale,
// which is why callers must append rather than overwrite).
type ProfileAPI interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Update(ctx context.Context, userID, phoneNumber string, addresses []models.Address) error
}

type ProfileClient struct {
	backend *BackendClient
}

func NewProfileClient(backend *BackendClient) *ProfileClient {
	return &ProfileClient{backend: backend}
}

func (c *ProfileClient) Get(ctx context.Context, userID string) (*models.Profile, error) {
	var out struct {
		Data models.Profile `json:"data"`
	}
	if err := c.backend.DoJSON(ctx, http.MethodGet, "/users/profile", userID, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *ProfileClient) Update(ctx context.Context, userID, phoneNumber string, addresses []models.Address) error {
	payload := map[string]interface{}{
		"phoneNumber": phoneNumber,
		"addresses":   addresses,
	}
	return c.backend.DoJSON(ctx, http.MethodPut, "/users/profile", userID, payload, nil)
}
