package backup

import (
	"strings"
	"time"
)

// WorkloadType is the kind of protected item.
type WorkloadType string

const (
	WorkloadAzureVM          WorkloadType = "AzureVM"
	WorkloadAzureSQLDatabase WorkloadType = "AzureSQLDatabase"
	WorkloadAzureFiles       WorkloadType = "AzureFiles"
	WorkloadMSSQL            WorkloadType = "MSSQL"
)

// ManagementType is the backup management service that owns the item.
type ManagementType string

const (
	ManagementAzureVM           ManagementType = "AzureVM"
	ManagementAzureSQL          ManagementType = "AzureSQL"
	ManagementAzureStorage      ManagementType = "AzureStorage"
	ManagementAzureWorkload     ManagementType = "AzureWorkload"
	ManagementMAB               ManagementType = "MAB"
	ManagementDPM               ManagementType = "DPM"
	ManagementAzureBackupServer ManagementType = "AzureBackupServer"
)

// Service-side spellings (ARM "workloadType" / "backupManagementType").
var (
	serviceWorkloads = map[string]WorkloadType{
		"vm":             WorkloadAzureVM,
		"azuresqldb":     WorkloadAzureSQLDatabase,
		"azurefileshare": WorkloadAzureFiles,
		"sqldatabase":    WorkloadMSSQL,
	}
	serviceManagements = map[string]ManagementType{
		"azureiaasvm":       ManagementAzureVM,
		"azuresql":          ManagementAzureSQL,
		"azurestorage":      ManagementAzureStorage,
		"azureworkload":     ManagementAzureWorkload,
		"mab":               ManagementMAB,
		"dpm":               ManagementDPM,
		"azurebackupserver": ManagementAzureBackupServer,
	}
)

// ParseWorkloadType maps a service workload string to a WorkloadType.
// Unknown values are kept verbatim so dispatch reports them as-is.
func ParseWorkloadType(s string) WorkloadType {
	if w, ok := serviceWorkloads[strings.ToLower(strings.TrimSpace(s))]; ok {
		return w
	}
	return WorkloadType(s)
}

// ParseManagementType maps a service management string to a ManagementType.
func ParseManagementType(s string) ManagementType {
	if m, ok := serviceManagements[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m
	}
	return ManagementType(s)
}

// RecoveryPoint is a reference to one backed-up snapshot of a protected item.
// The data is owned by the vault; this is a read-only view of it.
type RecoveryPoint struct {
	ID                      RecoveryPointID `json:"id"`
	ItemName                string          `json:"itemName"`
	WorkloadType            WorkloadType    `json:"workloadType"`
	ManagementType          ManagementType  `json:"backupManagementType"`
	OSType                  string          `json:"osType,omitempty"`
	RecoveryPointTime       time.Time       `json:"recoveryPointTime,omitzero"`
	InstantILRSessionActive bool            `json:"instantIlrSessionActive"`
	VirtualMachineID        string          `json:"virtualMachineId,omitempty"`
}

// ILRRequest is the registration sent when provisioning item-level recovery.
type ILRRequest struct {
	VirtualMachineID          string
	InitiatorName             string
	RenewExistingRegistration bool
}

// ClientScript is one mount script variant returned by the service.
// ScriptContent is base64; it is empty when the artifact must be fetched from URL.
type ClientScript struct {
	ScriptContent string
	Extension     string
	OSType        string
	URL           string
	NameSuffix    string
}

// ILRTarget is the result of a successful provisioning operation.
type ILRTarget struct {
	ClientScripts []ClientScript
}

// AccessInfo describes a provisioned item-level recovery grant.
type AccessInfo struct {
	ItemName        string `json:"itemName"`
	RecoveryPointID string `json:"recoveryPointId"`
	OSType          string `json:"osType"`
	FilePath        string `json:"filePath"`
	Password        string `json:"password"`
	SHA256          string `json:"sha256"`
	Size            int64  `json:"size"`
}
