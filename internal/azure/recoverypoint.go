package azure

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/rsbctl/internal/backup"
)

type protectedItemResource struct {
	Properties struct {
		WorkloadType         string `json:"workloadType"`
		BackupManagementType string `json:"backupManagementType"`
		FriendlyName         string `json:"friendlyName"`
		VirtualMachineID     string `json:"virtualMachineId"`
		SourceResourceID     string `json:"sourceResourceId"`
	} `json:"properties"`
}

type recoveryPointResource struct {
	Properties struct {
		ObjectType                string `json:"objectType"`
		RecoveryPointTime         string `json:"recoveryPointTime"`
		OSType                    string `json:"osType"`
		IsInstantILRSessionActive bool   `json:"isInstantIlrSessionActive"`
	} `json:"properties"`
}

// GetRecoveryPoint reads the protected item (for its workload and management
// types) and then the recovery point itself.
func (c *BackupClient) GetRecoveryPoint(ctx context.Context, id backup.RecoveryPointID) (backup.RecoveryPoint, error) {
	start := time.Now()

	var item protectedItemResource
	if err := c.getJSON(ctx, "get protected item", escapedPath(id.ProtectedItemPath()), &item); err != nil {
		return backup.RecoveryPoint{}, err
	}
	var rp recoveryPointResource
	if err := c.getJSON(ctx, "get recovery point", escapedPath(id.String()), &rp); err != nil {
		return backup.RecoveryPoint{}, err
	}

	out := backup.RecoveryPoint{
		ID:                      id,
		ItemName:                item.Properties.FriendlyName,
		WorkloadType:            backup.ParseWorkloadType(item.Properties.WorkloadType),
		ManagementType:          backup.ParseManagementType(item.Properties.BackupManagementType),
		OSType:                  rp.Properties.OSType,
		InstantILRSessionActive: rp.Properties.IsInstantILRSessionActive,
		VirtualMachineID:        item.Properties.VirtualMachineID,
	}
	if out.ItemName == "" {
		out.ItemName = id.ProtectedItem
	}
	if out.VirtualMachineID == "" {
		out.VirtualMachineID = item.Properties.SourceResourceID
	}
	if t, err := time.Parse(time.RFC3339Nano, rp.Properties.RecoveryPointTime); err == nil {
		out.RecoveryPointTime = t.UTC()
	}

	log.Debug().
		Str("action", "get_recovery_point").
		Str("item", out.ItemName).
		Str("workload", string(out.WorkloadType)).
		Str("management", string(out.ManagementType)).
		Str("object_type", rp.Properties.ObjectType).
		Dur("elapsed_ms", time.Since(start)).
		Msg("recovery point loaded")
	return out, nil
}
