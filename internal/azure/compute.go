package azure

import (
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute"
)

// NewComputeImagesClient returns the VM image catalogue client for subscriptionID.
func NewComputeImagesClient(subscriptionID string, cred azcore.TokenCredential, opts *arm.ClientOptions) (*armcompute.VirtualMachineImagesClient, error) {
	return armcompute.NewVirtualMachineImagesClient(subscriptionID, cred, opts)
}
