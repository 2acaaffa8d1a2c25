package auth

import (
	"errors"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/rsbctl/internal/config"
)

// Supported credential methods.
const (
	MethodSecret          = "secret"
	MethodManagedIdentity = "managed-identity"
	MethodCLI             = "cli"
	MethodDefault         = "default"
)

var ErrIncompleteServicePrincipal = errors.New("secret auth requires AZURE_TENANT_ID, AZURE_CLIENT_ID and AZURE_CLIENT_SECRET")

// Seams for tests; the azidentity constructors do not reach the network.
var (
	newClientSecretCredential = func(tenant, client, secret string) (azcore.TokenCredential, error) {
		return azidentity.NewClientSecretCredential(tenant, client, secret, nil)
	}
	newManagedIdentityCredential = func(clientID string) (azcore.TokenCredential, error) {
		opts := &azidentity.ManagedIdentityCredentialOptions{}
		if clientID != "" {
			opts.ID = azidentity.ClientID(clientID)
		}
		return azidentity.NewManagedIdentityCredential(opts)
	}
	newCLICredential = func() (azcore.TokenCredential, error) {
		return azidentity.NewAzureCLICredential(nil)
	}
	newDefaultCredential = func() (azcore.TokenCredential, error) {
		return azidentity.NewDefaultAzureCredential(nil)
	}
)

// New selects the credential based on cfg.Auth.Method.
// NOTE: secrets are never logged.
func New(cfg config.Config) (azcore.TokenCredential, error) {
	a := cfg.Auth
	method := strings.ToLower(strings.TrimSpace(a.Method))
	log.Debug().Str("action", "auth_new").Str("method", method).Msg("credential selected")

	switch method {
	case MethodSecret:
		if a.TenantID == "" || a.ClientID == "" || a.ClientSecret == "" {
			return nil, ErrIncompleteServicePrincipal
		}
		return newClientSecretCredential(a.TenantID, a.ClientID, a.ClientSecret)

	case MethodManagedIdentity:
		return newManagedIdentityCredential(a.ClientID)

	case MethodCLI:
		return newCLICredential()

	case MethodDefault, "":
		return newDefaultCredential()

	default:
		return nil, errors.New("unsupported auth method: " + method)
	}
}
