package auth

import (
	"os"
	"strings"
)

const (
	ModeJWT         = "jwt"
	ModeDevelopment = "development"
)

// Config holds auth configuration
type Config struct {
	Mode     string
	Issuer   string
	JWKSURL  string
	Audience string
	// DevRoles are granted to every request when Mode is development
	DevRoles []string
}

var (
	DefaultIssuer  = "http://localhost:8080/realms/wailsalutem"
	DefaultJWKSURL = "http://localhost:8080/realms/wailsalutem/protocol/openid-connect/certs"
)

// LoadConfig reads config from env with sensible defaults.
// You can override with AUTH_MODE, AUTH_ISSUER, AUTH_JWKS_URL, AUTH_AUD and AUTH_DEV_ROLES.
func LoadConfig() Config {
	mode := strings.ToLower(os.Getenv("AUTH_MODE"))
	if mode != ModeDevelopment {
		mode = ModeJWT
	}
	issuer := os.Getenv("AUTH_ISSUER")
	if issuer == "" {
		issuer = DefaultIssuer
	}
	jwks := os.Getenv("AUTH_JWKS_URL")
	if jwks == "" {
		jwks = DefaultJWKSURL
	}

	devRoles := []string{"ADMIN"}
	if v := os.Getenv("AUTH_DEV_ROLES"); v != "" {
		devRoles = devRoles[:0]
		for _, r := range strings.Split(v, ",") {
			if r = strings.TrimSpace(r); r != "" {
				devRoles = append(devRoles, r)
			}
		}
	}

	return Config{
		Mode:     mode,
		Issuer:   issuer,
		JWKSURL:  jwks,
		Audience: os.Getenv("AUTH_AUD"), // optional
		DevRoles: devRoles,
	}
}
