package forms

import "errors"

// GoogleFormsConfig holds configuration for the Google Forms API integration
type GoogleFormsConfig struct {
	// AccessToken is the OAuth bearer token used for every API call
	AccessToken string
	// APIBaseURL is the base URL for the Forms API
	APIBaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// GoogleFormsAPIURL is the production API endpoint
const GoogleFormsAPIURL = "https://forms.googleapis.com"

// Errors for Google Forms configuration
var ErrFormsConfigMissingToken = errors.New("forms: access token is required")

// NewGoogleFormsConfig creates a new Forms API configuration with defaults
func NewGoogleFormsConfig(accessToken string) *GoogleFormsConfig {
	return &GoogleFormsConfig{
		AccessToken:    accessToken,
		APIBaseURL:     GoogleFormsAPIURL,
		TimeoutSeconds: 30,
	}
}

// Validate validates the Forms API configuration
func (c *GoogleFormsConfig) Validate() error {
	if c.AccessToken == "" {
		return ErrFormsConfigMissingToken
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = GoogleFormsAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
