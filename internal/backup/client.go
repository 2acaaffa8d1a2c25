package backup

import (
	"context"
	"os"
)

// Client is the remote side of every recovery point command.
// Implementations own authentication, transport retries and serialization;
// failures surface as *RemoteOperationError.
type Client interface {
	// GetRecoveryPoint reads the recovery point and the types of its protected item.
	GetRecoveryPoint(ctx context.Context, id RecoveryPointID) (RecoveryPoint, error)

	// ProvisionItemLevelRecovery registers an ILR session and waits for its scripts.
	ProvisionItemLevelRecovery(ctx context.Context, id RecoveryPointID, req ILRRequest) (ILRTarget, error)

	// RevokeItemLevelRecovery invalidates any ILR session on the recovery point.
	RevokeItemLevelRecovery(ctx context.Context, id RecoveryPointID) error

	// DownloadArtifact streams the artifact at url into dst and returns the byte count.
	DownloadArtifact(ctx context.Context, url string, dst *os.File) (int64, error)
}
