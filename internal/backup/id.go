package backup

import (
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
)

const recoveryPointResourceType = "Microsoft.RecoveryServices/vaults/backupFabrics/protectionContainers/protectedItems/recoveryPoints"

// RecoveryPointID identifies a recovery point inside a Recovery Services vault.
type RecoveryPointID struct {
	SubscriptionID string
	ResourceGroup  string
	Vault          string
	Fabric         string
	Container      string
	ProtectedItem  string
	Name           string
}

// ParseRecoveryPointID parses a full ARM recovery point resource ID.
func ParseRecoveryPointID(s string) (RecoveryPointID, error) {
	rid, err := arm.ParseResourceID(strings.TrimSpace(s))
	if err != nil {
		return RecoveryPointID{}, fmt.Errorf("parse recovery point id: %w", err)
	}
	if !strings.EqualFold(rid.ResourceType.String(), recoveryPointResourceType) {
		return RecoveryPointID{}, fmt.Errorf("not a recovery point id: resource type %q", rid.ResourceType.String())
	}

	// recoveryPoint -> protectedItem -> container -> fabric -> vault
	item := rid.Parent
	container := item.Parent
	fabric := container.Parent
	vault := fabric.Parent

	return RecoveryPointID{
		SubscriptionID: rid.SubscriptionID,
		ResourceGroup:  rid.ResourceGroupName,
		Vault:          vault.Name,
		Fabric:         fabric.Name,
		Container:      container.Name,
		ProtectedItem:  item.Name,
		Name:           rid.Name,
	}, nil
}

// ProtectedItemPath returns the ARM path of the owning protected item.
func (id RecoveryPointID) ProtectedItemPath() string {
	return fmt.Sprintf(
		"/subscriptions/%s/resourceGroups/%s/providers/Microsoft.RecoveryServices/vaults/%s/backupFabrics/%s/protectionContainers/%s/protectedItems/%s",
		id.SubscriptionID, id.ResourceGroup, id.Vault, id.Fabric, id.Container, id.ProtectedItem,
	)
}

// String returns the ARM path of the recovery point.
func (id RecoveryPointID) String() string {
	return id.ProtectedItemPath() + "/recoveryPoints/" + id.Name
}

// MarshalText renders the ID as its ARM path.
func (id RecoveryPointID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}
