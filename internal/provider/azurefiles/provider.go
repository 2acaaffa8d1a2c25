package azurefiles

import (
	"context"
	"fmt"

	"github.com/Chapsvision-dev/rsbctl/internal/backup"
	"github.com/Chapsvision-dev/rsbctl/internal/provider"
)

// Name identifies the Azure Files provider.
const Name = "azurefiles"

func init() {
	provider.Register(backup.WorkloadAzureFiles, backup.ManagementAzureStorage, New)
}

// Provider handles Azure file share recovery points. Share snapshots are
// browsed in place, so there is no mount script to hand out.
type Provider struct{}

// New ignores the client: no remote call is ever made for this variant.
func New(backup.Client) provider.Provider { return &Provider{} }

func (p *Provider) Name() string { return Name }

func (p *Provider) ProvisionItemLevelRecoveryAccess(_ context.Context, req provider.ProvisionRequest) (backup.AccessInfo, error) {
	return backup.AccessInfo{}, fmt.Errorf("%s: file share %s: %w", Name, req.RecoveryPoint.ItemName, backup.ErrItemLevelRecoveryNotSupported)
}

func (p *Provider) RevokeItemLevelRecoveryAccess(_ context.Context, req provider.RevokeRequest) error {
	return fmt.Errorf("%s: file share %s: %w", Name, req.RecoveryPoint.ItemName, backup.ErrItemLevelRecoveryNotSupported)
}
