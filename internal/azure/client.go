package azure

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"

	"github.com/Chapsvision-dev/rsbctl/internal/backup"
	"github.com/Chapsvision-dev/rsbctl/internal/poll"
)

const (
	moduleName    = "rsbctl"
	moduleVersion = "v0.1.0"
	apiVersion    = "2023-04-01"
)

// BackupClient talks to the Recovery Services backup ARM API.
// It implements backup.Client.
type BackupClient struct {
	pl       runtime.Pipeline
	endpoint string
	poll     poll.Options
	blobOpts *blob.ClientOptions
}

var _ backup.Client = (*BackupClient)(nil)

// NewBackupClient builds an ARM pipeline for cred. The pipeline owns
// transport retries; this client never retries on its own.
func NewBackupClient(cred azcore.TokenCredential, po poll.Options, opts *arm.ClientOptions) (*BackupClient, error) {
	cl, err := arm.NewClient(moduleName, moduleVersion, cred, opts)
	if err != nil {
		return nil, err
	}
	return &BackupClient{pl: cl.Pipeline(), endpoint: cl.Endpoint(), poll: po}, nil
}

func (c *BackupClient) newRequest(ctx context.Context, method, path string) (*policy.Request, error) {
	req, err := runtime.NewRequest(ctx, method, runtime.JoinPaths(c.endpoint, path))
	if err != nil {
		return nil, err
	}
	q := req.Raw().URL.Query()
	q.Set("api-version", apiVersion)
	req.Raw().URL.RawQuery = q.Encode()
	req.Raw().Header["Accept"] = []string{"application/json"}
	return req, nil
}

// do sends req and maps transport and status failures to RemoteOperationError.
func (c *BackupClient) do(op string, req *policy.Request, statuses ...int) (*http.Response, error) {
	resp, err := c.pl.Do(req)
	if err != nil {
		return nil, remoteError(op, err)
	}
	if !runtime.HasStatusCode(resp, statuses...) {
		return nil, remoteError(op, runtime.NewResponseError(resp))
	}
	return resp, nil
}

func (c *BackupClient) getJSON(ctx context.Context, op, path string, v any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path)
	if err != nil {
		return remoteError(op, err)
	}
	resp, err := c.do(op, req, http.StatusOK)
	if err != nil {
		return err
	}
	if err := runtime.UnmarshalAsJSON(resp, v); err != nil {
		return remoteError(op, err)
	}
	return nil
}

// DownloadArtifact fetches a SAS-signed artifact URL into dst.
func (c *BackupClient) DownloadArtifact(ctx context.Context, artifactURL string, dst *os.File) (int64, error) {
	const op = "download artifact"
	bc, err := blob.NewClientWithNoCredential(artifactURL, c.blobOpts)
	if err != nil {
		return 0, remoteError(op, err)
	}
	n, err := bc.DownloadFile(ctx, dst, nil)
	if err != nil {
		return 0, remoteError(op, err)
	}
	return n, nil
}

func remoteError(op string, err error) error {
	roe := &backup.RemoteOperationError{Op: op, Err: err}
	var re *azcore.ResponseError
	if errors.As(err, &re) {
		roe.StatusCode = re.StatusCode
		roe.Code = re.ErrorCode
	}
	return roe
}

// escapedPath renders an ARM path with every segment escaped, as the
// generated SDK clients do (container and item names contain ';').
func escapedPath(raw string) string {
	parts := strings.Split(strings.TrimPrefix(raw, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return "/" + strings.Join(parts, "/")
}
