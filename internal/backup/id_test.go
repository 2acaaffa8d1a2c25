package backup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRPID = "/subscriptions/0000-1111/resourceGroups/rg-backup/providers/Microsoft.RecoveryServices/vaults/vault01" +
	"/backupFabrics/Azure/protectionContainers/IaasVMContainer;iaasvmcontainerv2;rg-app;vm01" +
	"/protectedItems/VM;iaasvmcontainerv2;rg-app;vm01/recoveryPoints/123456789"

func TestParseRecoveryPointID(t *testing.T) {
	id, err := ParseRecoveryPointID(testRPID)
	require.NoError(t, err)

	assert.Equal(t, "0000-1111", id.SubscriptionID)
	assert.Equal(t, "rg-backup", id.ResourceGroup)
	assert.Equal(t, "vault01", id.Vault)
	assert.Equal(t, "Azure", id.Fabric)
	assert.Equal(t, "IaasVMContainer;iaasvmcontainerv2;rg-app;vm01", id.Container)
	assert.Equal(t, "VM;iaasvmcontainerv2;rg-app;vm01", id.ProtectedItem)
	assert.Equal(t, "123456789", id.Name)
	assert.Equal(t, testRPID, id.String())
}

func TestParseRecoveryPointID_WrongType(t *testing.T) {
	_, err := ParseRecoveryPointID("/subscriptions/0000/resourceGroups/rg/providers/Microsoft.Compute/virtualMachines/vm01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a recovery point id")
}

func TestParseRecoveryPointID_Garbage(t *testing.T) {
	_, err := ParseRecoveryPointID("not-an-id")
	require.Error(t, err)
}

func TestParseServiceTypes(t *testing.T) {
	assert.Equal(t, WorkloadAzureVM, ParseWorkloadType("VM"))
	assert.Equal(t, WorkloadAzureSQLDatabase, ParseWorkloadType("AzureSqlDb"))
	assert.Equal(t, WorkloadAzureFiles, ParseWorkloadType("AzureFileShare"))
	assert.Equal(t, WorkloadMSSQL, ParseWorkloadType("SQLDataBase"))
	assert.Equal(t, WorkloadType("SAPHanaDatabase"), ParseWorkloadType("SAPHanaDatabase"))

	assert.Equal(t, ManagementAzureVM, ParseManagementType("AzureIaasVM"))
	assert.Equal(t, ManagementAzureSQL, ParseManagementType("AzureSql"))
	assert.Equal(t, ManagementMAB, ParseManagementType("MAB"))
	assert.Equal(t, ManagementType("Unknown"), ParseManagementType("Unknown"))
}
