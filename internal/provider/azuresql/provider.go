package azuresql

import (
	"context"
	"fmt"

	"github.com/Chapsvision-dev/rsbctl/internal/backup"
	"github.com/Chapsvision-dev/rsbctl/internal/provider"
)

// Name identifies the Azure SQL provider.
const Name = "azuresql"

func init() {
	provider.Register(backup.WorkloadAzureSQLDatabase, backup.ManagementAzureSQL, New)
}

// Provider handles Azure SQL Database recovery points. Database backups
// have no file-level mount, so both ILR operations are rejected.
type Provider struct{}

// New ignores the client: no remote call is ever made for this variant.
func New(backup.Client) provider.Provider { return &Provider{} }

func (p *Provider) Name() string { return Name }

func (p *Provider) ProvisionItemLevelRecoveryAccess(_ context.Context, req provider.ProvisionRequest) (backup.AccessInfo, error) {
	return backup.AccessInfo{}, fmt.Errorf("%s: %s: %w", Name, req.RecoveryPoint.ItemName, backup.ErrItemLevelRecoveryNotSupported)
}

func (p *Provider) RevokeItemLevelRecoveryAccess(_ context.Context, req provider.RevokeRequest) error {
	return fmt.Errorf("%s: %s: %w", Name, req.RecoveryPoint.ItemName, backup.ErrItemLevelRecoveryNotSupported)
}
