// Package graph implements identity resolution against the Microsoft Graph
// API, with posix attributes filled in from the LDAP directory.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2/clientcredentials"

	"rdfstore/internal/domain/identity"
	"rdfstore/internal/shared/config"
	"rdfstore/internal/shared/errors"
	"rdfstore/internal/shared/logger"
)

const defaultBaseURL = "https://graph.microsoft.com/v1.0"

// profileSelect lists the Graph attributes one profile lookup needs. The
// on-premises extension attributes carry institution-specific fields:
// extensionAttribute5 is the record status, 6 the entity type and 14 the job
// family.
const profileSelect = "displayName,givenName,surname,mail,department,companyName,jobTitle,userType,onPremisesExtensionAttributes"

// Client reads user profiles from Microsoft Graph using the client
// credentials flow. The oauth2 transport caches and refreshes the app token
// transparently.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userDomain string
	logger     logger.Interface
}

func NewClient(cfg *config.GraphConfig, logger logger.Interface) *Client {
	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantID),
		Scopes:       []string{"https://graph.microsoft.com/.default"},
	}
	return &Client{
		httpClient: creds.Client(context.Background()),
		baseURL:    defaultBaseURL,
		userDomain: cfg.UserDomain,
		logger:     logger,
	}
}

type userResponse struct {
	DisplayName                   string `json:"displayName"`
	GivenName                     string `json:"givenName"`
	Surname                       string `json:"surname"`
	Mail                          string `json:"mail"`
	Department                    string `json:"department"`
	CompanyName                   string `json:"companyName"`
	JobTitle                      string `json:"jobTitle"`
	UserType                      string `json:"userType"`
	OnPremisesExtensionAttributes struct {
		ExtensionAttribute5  string `json:"extensionAttribute5"`
		ExtensionAttribute6  string `json:"extensionAttribute6"`
		ExtensionAttribute14 string `json:"extensionAttribute14"`
	} `json:"onPremisesExtensionAttributes"`
}

// GetProfile fetches the Graph profile for a username. The posix UID is not
// known to Graph and stays zero here.
func (c *Client) GetProfile(ctx context.Context, username string) (identity.Profile, error) {
	principal := fmt.Sprintf("%s@%s", username, c.userDomain)
	endpoint := fmt.Sprintf("%s/users/%s?$select=%s",
		c.baseURL, url.PathEscape(principal), url.QueryEscape(profileSelect))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return identity.Profile{}, fmt.Errorf("failed to build graph request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return identity.Profile{}, errors.NewExternalServiceUnavailable("graph", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return identity.Profile{}, errors.NewIdentityResolutionError(username, "no entry in the identity graph")
	case resp.StatusCode >= 500:
		return identity.Profile{}, errors.NewExternalServiceUnavailable("graph",
			fmt.Errorf("graph returned %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return identity.Profile{}, fmt.Errorf("graph returned %d: %s", resp.StatusCode, raw)
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return identity.Profile{}, fmt.Errorf("failed to decode graph response: %w", err)
	}

	return identity.Profile{
		Username:     username,
		Name:         user.DisplayName,
		FirstName:    user.GivenName,
		LastName:     user.Surname,
		Email:        user.Mail,
		Department:   user.Department,
		Faculty:      user.CompanyName,
		JobTitle:     user.JobTitle,
		JobFamily:    user.OnPremisesExtensionAttributes.ExtensionAttribute14,
		UserType:     user.UserType,
		EntityType:   user.OnPremisesExtensionAttributes.ExtensionAttribute6,
		RecordStatus: user.OnPremisesExtensionAttributes.ExtensionAttribute5,
	}, nil
}
