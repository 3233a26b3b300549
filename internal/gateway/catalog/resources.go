// Package catalog holds the gateway's read-only resources and prompt templates.
package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/erauner12/toolbridge-genai/internal/gateway/tools"
)

// Resource is a fixed-URI resource
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourceTemplate is a parameterized resource such as users://{user_id}/profile
type ResourceTemplate struct {
	URITemplate string `json:"uriTemplate"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourceContents is the body of a read resource
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

// AppInfo is served at config://app
type AppInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// UserProfile is served at users://{user_id}/profile
type UserProfile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

const (
	appConfigURI  = "config://app"
	userURIPrefix = "users://"
	userURISuffix = "/profile"
	jsonMimeType  = "application/json"
)

// Resources serves the gateway's resources
type Resources struct {
	app      AppInfo
	profiles map[string]UserProfile
}

// NewResources creates the resource set. profiles are keyed by user id.
func NewResources(app AppInfo, profiles map[string]UserProfile) *Resources {
	return &Resources{app: app, profiles: profiles}
}

// DemoProfiles are the sample users exposed by the dev gateway
func DemoProfiles() map[string]UserProfile {
	return map[string]UserProfile{
		"1": {Name: "John Doe", Email: "john@example.com"},
		"2": {Name: "Jane Smith", Email: "jane@example.com"},
	}
}

// List returns the fixed resources
func (r *Resources) List() []Resource {
	return []Resource{{
		URI:         appConfigURI,
		Name:        "app_config",
		Description: "Application configuration.",
		MimeType:    jsonMimeType,
	}}
}

// Templates returns the parameterized resources
func (r *Resources) Templates() []ResourceTemplate {
	return []ResourceTemplate{{
		URITemplate: userURIPrefix + "{user_id}" + userURISuffix,
		Name:        "user_profile",
		Description: "User profile data.",
		MimeType:    jsonMimeType,
	}}
}

// Read resolves a resource URI. An unknown user yields {"error":"User not found"}, not a failure.
func (r *Resources) Read(uri string) (ResourceContents, error) {
	var body any

	switch {
	case uri == appConfigURI:
		body = r.app
	case strings.HasPrefix(uri, userURIPrefix) && strings.HasSuffix(uri, userURISuffix):
		id := strings.TrimSuffix(strings.TrimPrefix(uri, userURIPrefix), userURISuffix)
		if profile, ok := r.profiles[id]; ok && id != "" {
			body = profile
		} else {
			body = map[string]string{"error": "User not found"}
		}
	default:
		return ResourceContents{}, tools.NewToolError(tools.ErrCodeInvalidParams, fmt.Sprintf("Unknown resource: %s", uri))
	}

	data, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		return ResourceContents{}, err
	}
	return ResourceContents{URI: uri, MimeType: jsonMimeType, Text: string(data)}, nil
}
