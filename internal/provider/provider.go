package provider

import (
	"context"

	"github.com/Chapsvision-dev/rsbctl/internal/backup"
)

// ProvisionRequest carries the inputs of a mount-script download.
type ProvisionRequest struct {
	RecoveryPoint backup.RecoveryPoint
	// DownloadLocation is a directory; empty means the provider default.
	DownloadLocation string
}

// RevokeRequest carries the inputs of a mount-script disable.
type RevokeRequest struct {
	RecoveryPoint backup.RecoveryPoint
}

// Provider acts on the recovery points of one (workload, management) pair.
// Instances are built per invocation and never shared.
type Provider interface {
	// ProvisionItemLevelRecoveryAccess grants time-limited file access to a
	// recovery point. Each call produces an independent grant.
	ProvisionItemLevelRecoveryAccess(ctx context.Context, req ProvisionRequest) (backup.AccessInfo, error)

	// RevokeItemLevelRecoveryAccess invalidates access. For variants that
	// support item-level recovery, revoking when nothing is provisioned is not
	// an error. Variants without it return backup.ErrItemLevelRecoveryNotSupported.
	RevokeItemLevelRecoveryAccess(ctx context.Context, req RevokeRequest) error

	// Name returns the provider identifier (e.g. "iaasvm").
	Name() string
}
