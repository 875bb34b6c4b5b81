package googleauth

import (
	"encoding/json"
	"fmt"
)

// Credentials is the subset of a Google service-account key this service
// needs. The platform injects the key as a raw JSON blob, not a file.
type Credentials struct {
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// ParseCredentials decodes a service-account JSON blob and validates the
// fields the token source depends on.
func ParseCredentials(raw string) (*Credentials, error) {
	var creds Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return nil, fmt.Errorf("invalid service account json: %w", err)
	}
	if creds.ClientEmail == "" || creds.PrivateKey == "" || creds.ProjectID == "" {
		return nil, fmt.Errorf("service account json missing client_email, private_key or project_id")
	}
	if creds.TokenURI == "" {
		creds.TokenURI = "https://oauth2.googleapis.com/token"
	}
	return &creds, nil
}
