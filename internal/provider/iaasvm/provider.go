package iaasvm

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/rsbctl/internal/backup"
	"github.com/Chapsvision-dev/rsbctl/internal/provider"
	"github.com/Chapsvision-dev/rsbctl/internal/util"
)

const (
	// Name identifies the IaaS VM provider.
	Name = "iaasvm"
	// DefaultDownloadLocation is used when the request carries no location.
	DefaultDownloadLocation = "."

	initiatorPrefix = "iqn.2016-01.microsoft.azure.backup:"
)

func init() {
	provider.Register(backup.WorkloadAzureVM, backup.ManagementAzureVM, New)
}

// Provider provisions and revokes ILR mount scripts for Azure IaaS VM recovery points.
type Provider struct {
	client backup.Client
	now    func() time.Time
}

// New returns a provider bound to c.
func New(c backup.Client) provider.Provider {
	return &Provider{client: c, now: time.Now}
}

func (p *Provider) Name() string { return Name }

// ProvisionItemLevelRecoveryAccess registers an ILR session and writes its
// mount script (or executable) into the download location.
func (p *Provider) ProvisionItemLevelRecoveryAccess(ctx context.Context, req provider.ProvisionRequest) (backup.AccessInfo, error) {
	rp := req.RecoveryPoint

	dir := strings.TrimSpace(req.DownloadLocation)
	if dir == "" {
		dir = DefaultDownloadLocation
	}
	dir = filepath.Clean(dir)
	// Fail before provisioning a grant whose script cannot be saved.
	if err := checkDir(dir); err != nil {
		return backup.AccessInfo{}, err
	}

	start := time.Now()
	ilr := backup.ILRRequest{
		VirtualMachineID:          rp.VirtualMachineID,
		InitiatorName:             initiatorPrefix + uuid.NewString(),
		RenewExistingRegistration: rp.InstantILRSessionActive,
	}
	log.Debug().
		Str("action", "ilr_provision").
		Str("item", rp.ItemName).
		Str("recovery_point", rp.ID.Name).
		Bool("renew", ilr.RenewExistingRegistration).
		Msg("provisioning item level recovery")

	target, err := p.client.ProvisionItemLevelRecovery(ctx, rp.ID, ilr)
	if err != nil {
		return backup.AccessInfo{}, err
	}
	script, err := pickScript(target.ClientScripts, rp.OSType)
	if err != nil {
		return backup.AccessInfo{}, err
	}

	path, err := p.writeArtifact(ctx, dir, rp.ItemName, script)
	if err != nil {
		return backup.AccessInfo{}, err
	}
	digest, err := util.FileDigest(path)
	if err != nil {
		return backup.AccessInfo{}, &backup.LocalIOError{Op: "hash", Path: path, Err: err}
	}

	log.Info().
		Str("action", "ilr_provision").
		Str("item", rp.ItemName).
		Str("file", path).
		Str("os_type", script.OSType).
		Int64("size", digest.Size).
		Dur("elapsed_ms", time.Since(start)).
		Msg("mount script downloaded")

	return backup.AccessInfo{
		ItemName:        rp.ItemName,
		RecoveryPointID: rp.ID.String(),
		OSType:          script.OSType,
		FilePath:        path,
		Password:        scriptPassword(script),
		SHA256:          digest.SHA256,
		Size:            digest.Size,
	}, nil
}

// RevokeItemLevelRecoveryAccess disables the mount scripts of a recovery point.
// The service accepts a revoke with no active session, so repeated calls are safe.
func (p *Provider) RevokeItemLevelRecoveryAccess(ctx context.Context, req provider.RevokeRequest) error {
	rp := req.RecoveryPoint
	start := time.Now()
	if err := p.client.RevokeItemLevelRecovery(ctx, rp.ID); err != nil {
		return err
	}
	log.Info().
		Str("action", "ilr_revoke").
		Str("item", rp.ItemName).
		Str("recovery_point", rp.ID.Name).
		Dur("elapsed_ms", time.Since(start)).
		Msg("mount script disabled")
	return nil
}

// pickScript prefers the script for the recovery point's OS.
func pickScript(scripts []backup.ClientScript, osType string) (backup.ClientScript, error) {
	if len(scripts) == 0 {
		return backup.ClientScript{}, &backup.RemoteOperationError{
			Op:  "provision item level recovery",
			Err: errors.New("service returned no client scripts"),
		}
	}
	if osType != "" {
		for _, s := range scripts {
			if strings.EqualFold(s.OSType, osType) {
				return s, nil
			}
		}
	}
	return scripts[0], nil
}
