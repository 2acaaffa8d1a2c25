package azure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/rsbctl/internal/backup"
	"github.com/Chapsvision-dev/rsbctl/internal/poll"
)

type ilrRequestResource struct {
	Properties ilrRegistrationRequest `json:"properties"`
}

type ilrRegistrationRequest struct {
	ObjectType                string `json:"objectType"`
	RecoveryPointID           string `json:"recoveryPointId"`
	VirtualMachineID          string `json:"virtualMachineId"`
	InitiatorName             string `json:"initiatorName"`
	RenewExistingRegistration bool   `json:"renewExistingRegistration"`
}

type clientScript struct {
	ScriptContent    string `json:"scriptContent"`
	ScriptExtension  string `json:"scriptExtension"`
	OSType           string `json:"osType"`
	URL              string `json:"url"`
	ScriptNameSuffix string `json:"scriptNameSuffix"`
}

type operationStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Properties *struct {
		ObjectType     string `json:"objectType"`
		RecoveryTarget *struct {
			ClientScripts []clientScript `json:"clientScripts"`
		} `json:"recoveryTarget"`
	} `json:"properties"`
}

// ProvisionItemLevelRecovery registers an ILR session and waits for the
// operation to produce the client scripts.
func (c *BackupClient) ProvisionItemLevelRecovery(ctx context.Context, id backup.RecoveryPointID, in backup.ILRRequest) (backup.ILRTarget, error) {
	const op = "provision item level recovery"
	start := time.Now()

	req, err := c.newRequest(ctx, http.MethodPost, escapedPath(id.String())+"/provisionInstantItemRecovery")
	if err != nil {
		return backup.ILRTarget{}, remoteError(op, err)
	}
	body := ilrRequestResource{Properties: ilrRegistrationRequest{
		ObjectType:                "IaasVMILRRegistrationRequest",
		RecoveryPointID:           id.Name,
		VirtualMachineID:          in.VirtualMachineID,
		InitiatorName:             in.InitiatorName,
		RenewExistingRegistration: in.RenewExistingRegistration,
	}}
	if err := runtime.MarshalAsJSON(req, body); err != nil {
		return backup.ILRTarget{}, remoteError(op, err)
	}
	resp, err := c.do(op, req, http.StatusOK, http.StatusAccepted)
	if err != nil {
		return backup.ILRTarget{}, err
	}

	trackURL := trackingURL(resp)
	if trackURL == "" {
		return backup.ILRTarget{}, &backup.RemoteOperationError{
			Op: op, StatusCode: resp.StatusCode, Err: errors.New("response carries no operation tracking header"),
		}
	}
	st, err := c.track(ctx, op, trackURL)
	if err != nil {
		return backup.ILRTarget{}, err
	}

	var out backup.ILRTarget
	if st.Properties != nil && st.Properties.RecoveryTarget != nil {
		for _, s := range st.Properties.RecoveryTarget.ClientScripts {
			out.ClientScripts = append(out.ClientScripts, backup.ClientScript{
				ScriptContent: s.ScriptContent,
				Extension:     s.ScriptExtension,
				OSType:        s.OSType,
				URL:           s.URL,
				NameSuffix:    s.ScriptNameSuffix,
			})
		}
	}
	log.Debug().
		Str("action", "ilr_provision_remote").
		Str("recovery_point", id.Name).
		Int("scripts", len(out.ClientScripts)).
		Dur("elapsed_ms", time.Since(start)).
		Msg("provision operation finished")
	return out, nil
}

// RevokeItemLevelRecovery asks the service to drop any ILR session.
func (c *BackupClient) RevokeItemLevelRecovery(ctx context.Context, id backup.RecoveryPointID) error {
	const op = "revoke item level recovery"

	req, err := c.newRequest(ctx, http.MethodPost, escapedPath(id.String())+"/revokeInstantItemRecovery")
	if err != nil {
		return remoteError(op, err)
	}
	resp, err := c.do(op, req, http.StatusOK, http.StatusAccepted, http.StatusNoContent)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusAccepted {
		return nil
	}
	if u := trackingURL(resp); u != "" {
		if _, err := c.track(ctx, op, u); err != nil {
			return err
		}
	}
	return nil
}

func trackingURL(resp *http.Response) string {
	if u := resp.Header.Get("Azure-AsyncOperation"); u != "" {
		return u
	}
	return resp.Header.Get("Location")
}

// track polls an operation URL until it leaves InProgress.
func (c *BackupClient) track(ctx context.Context, op, trackURL string) (operationStatus, error) {
	var final operationStatus
	check := func(ctx context.Context) (bool, error) {
		req, err := runtime.NewRequest(ctx, http.MethodGet, trackURL)
		if err != nil {
			return false, remoteError(op, err)
		}
		req.Raw().Header["Accept"] = []string{"application/json"}
		resp, err := c.do(op, req, http.StatusOK, http.StatusAccepted, http.StatusNoContent)
		if err != nil {
			return false, err
		}
		if resp.StatusCode == http.StatusAccepted {
			return false, nil
		}
		var st operationStatus
		if err := runtime.UnmarshalAsJSON(resp, &st); err != nil {
			return false, remoteError(op, err)
		}
		switch strings.ToLower(st.Status) {
		case "inprogress":
			return false, nil
		case "failed", "canceled", "cancelled":
			code, msg := "", st.Status
			if st.Error != nil {
				code, msg = st.Error.Code, st.Error.Message
			}
			return false, &backup.RemoteOperationError{
				Op: op, StatusCode: resp.StatusCode, Code: code,
				Err: fmt.Errorf("operation %s: %s", strings.ToLower(st.Status), msg),
			}
		default:
			final = st
			return true, nil
		}
	}
	if err := poll.Until(ctx, c.poll, "track_"+strings.ReplaceAll(op, " ", "_"), check); err != nil {
		var roe *backup.RemoteOperationError
		if errors.As(err, &roe) {
			return operationStatus{}, err
		}
		return operationStatus{}, remoteError(op, err)
	}
	return final, nil
}
