package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chapsvision-dev/rsbctl/internal/backup"
	"github.com/Chapsvision-dev/rsbctl/internal/compute"
	"github.com/Chapsvision-dev/rsbctl/internal/config"
)

/* ----------------------------- test harness ----------------------------- */

type exitPanic struct{ code int }

func patchExit(t *testing.T) func() {
	t.Helper()
	prev := exit
	exit = func(code int) { panic(exitPanic{code}) }
	return func() { exit = prev }
}

func mustExitCode(t *testing.T, fn func()) (code int) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected os.Exit interception, got no panic")
		}
		if ep, ok := r.(exitPanic); ok {
			code = ep.code
			return
		}
		t.Fatalf("unexpected panic: %#v", r)
	}()
	fn()
	return 0
}

func withArgs(t *testing.T, args []string) func() {
	t.Helper()
	prev := os.Args
	os.Args = append([]string{prev[0]}, args...)
	return func() { os.Args = prev }
}

func captureStdout(t *testing.T) func() string {
	t.Helper()
	old := os.Stdout
	var buf bytes.Buffer
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan struct{})
	go func() {
		_, _ = buf.ReadFrom(r)
		close(done)
	}()

	return func() string {
		_ = w.Close()
		<-done
		os.Stdout = old
		return buf.String()
	}
}

func resetSeams() {
	loadConfig = config.Load
	newBackupClient = defaultBackupClient
	newOfferLister = defaultOfferLister
}

func stubConfig(cfg config.Config) {
	loadConfig = func(string) (config.Config, error) {
		if cfg.Output == "" {
			cfg.Output = config.OutputTable
		}
		return cfg, nil
	}
}

// runCaptured runs the CLI and returns its exit code and stdout.
func runCaptured(t *testing.T, args ...string) (int, string) {
	t.Helper()
	restore := captureStdout(t)
	code := run(context.Background(), args)
	return code, restore()
}

/* ------------------------------- test fakes ------------------------------ */

const rpID = "/subscriptions/sub/resourceGroups/rg/providers/Microsoft.RecoveryServices/vaults/vault" +
	"/backupFabrics/Azure/protectionContainers/IaasVMContainer;iaasvmcontainerv2;rg;vm01" +
	"/protectedItems/VM;iaasvmcontainerv2;rg;vm01/recoveryPoints/42"

type fakeClient struct {
	rp        backup.RecoveryPoint
	getErr    error
	provCalls int
	revCalls  int
}

func (f *fakeClient) GetRecoveryPoint(_ context.Context, id backup.RecoveryPointID) (backup.RecoveryPoint, error) {
	if f.getErr != nil {
		return backup.RecoveryPoint{}, f.getErr
	}
	rp := f.rp
	rp.ID = id
	return rp, nil
}

func (f *fakeClient) ProvisionItemLevelRecovery(context.Context, backup.RecoveryPointID, backup.ILRRequest) (backup.ILRTarget, error) {
	f.provCalls++
	return backup.ILRTarget{ClientScripts: []backup.ClientScript{{
		ScriptContent: base64.StdEncoding.EncodeToString([]byte("#!/usr/bin/env python3\n")),
		Extension:     ".py",
		OSType:        "Linux",
		NameSuffix:    "vm01_0001_PASSWORDPASSWORD1",
	}}}, nil
}

func (f *fakeClient) RevokeItemLevelRecovery(context.Context, backup.RecoveryPointID) error {
	f.revCalls++
	return nil
}

func (f *fakeClient) DownloadArtifact(context.Context, string, *os.File) (int64, error) {
	return 0, errors.New("not used")
}

func vmClient() *fakeClient {
	return &fakeClient{rp: backup.RecoveryPoint{
		ItemName:       "vm01",
		WorkloadType:   backup.WorkloadAzureVM,
		ManagementType: backup.ManagementAzureVM,
		OSType:         "Linux",
	}}
}

func useClient(c backup.Client) {
	newBackupClient = func(config.Config) (backup.Client, error) { return c, nil }
}

type fakeLister struct{}

func (fakeLister) ListOffers(context.Context, string, string, *armcompute.VirtualMachineImagesClientListOffersOptions) (armcompute.VirtualMachineImagesClientListOffersResponse, error) {
	return armcompute.VirtualMachineImagesClientListOffersResponse{
		VirtualMachineImageResourceArray: []*armcompute.VirtualMachineImageResource{
			{ID: to.Ptr("/offers/UbuntuServer"), Location: to.Ptr("westeurope"), Name: to.Ptr("UbuntuServer")},
		},
	}, nil
}

/* --------------------------------- tests -------------------------------- */

func TestMain_NoArgsIsUsageError(t *testing.T) {
	resetSeams()
	defer patchExit(t)()
	defer withArgs(t, []string{})()

	code := mustExitCode(t, func() { main() })
	assert.Equal(t, 2, code)
}

func TestRun_UnknownCommand(t *testing.T) {
	resetSeams()
	code, _ := runCaptured(t, "backup")
	assert.Equal(t, 2, code)
}

func TestRun_Version(t *testing.T) {
	resetSeams()
	code, out := runCaptured(t, "version")
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "rsbctl dev"), out)
}

func TestRun_Providers(t *testing.T) {
	resetSeams()
	code, out := runCaptured(t, "providers", "-o", "json")
	require.Equal(t, 0, code)

	var got []providerEntry
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Contains(t, got, providerEntry{Workload: "AzureVM", Management: "AzureVM", Provider: "iaasvm"})
	assert.Contains(t, got, providerEntry{Workload: "AzureSQLDatabase", Management: "AzureSQL", Provider: "azuresql"})
	assert.Contains(t, got, providerEntry{Workload: "AzureFiles", Management: "AzureStorage", Provider: "azurefiles"})
}

func TestRun_BadOutputFormat(t *testing.T) {
	resetSeams()
	code, _ := runCaptured(t, "providers", "-o", "xml")
	assert.Equal(t, 2, code)
}

func TestMountScriptGet_PathArgOverridesConfig(t *testing.T) {
	resetSeams()
	argDir, cfgDir := t.TempDir(), t.TempDir()
	stubConfig(config.Config{DownloadDir: cfgDir, Output: config.OutputJSON})
	c := vmClient()
	useClient(c)

	code, out := runCaptured(t, "mount-script", "get", rpID, argDir)
	require.Equal(t, 0, code)

	var info backup.AccessInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "vm01", info.ItemName)
	assert.Equal(t, "SSWORDPASSWORD1", info.Password)
	assert.Equal(t, argDir, filepath.Dir(info.FilePath))
	assert.Equal(t, 1, c.provCalls)

	entries, err := os.ReadDir(cfgDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMountScriptGet_UsesConfiguredDownloadDir(t *testing.T) {
	resetSeams()
	dir := t.TempDir()
	stubConfig(config.Config{DownloadDir: dir})
	useClient(vmClient())

	code, out := runCaptured(t, "mount-script", "get", rpID)
	require.Equal(t, 0, code)
	assert.Contains(t, out, dir)
	assert.Contains(t, out, "PASSWORD")
}

func TestMountScriptGet_WhatIf(t *testing.T) {
	resetSeams()
	dir := t.TempDir()
	stubConfig(config.Config{})
	c := vmClient()
	useClient(c)

	code, out := runCaptured(t, "mount-script", "get", rpID, dir, "--what-if")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "What if")
	assert.Zero(t, c.provCalls)
}

func TestMountScriptGet_MissingArgument(t *testing.T) {
	resetSeams()
	code, _ := runCaptured(t, "mount-script", "get")
	assert.Equal(t, 2, code)
}

func TestMountScriptGet_UnsupportedWorkload(t *testing.T) {
	resetSeams()
	stubConfig(config.Config{})
	useClient(&fakeClient{rp: backup.RecoveryPoint{
		WorkloadType:   backup.WorkloadMSSQL,
		ManagementType: backup.ManagementAzureWorkload,
	}})

	code, _ := runCaptured(t, "mount-script", "get", rpID, t.TempDir())
	assert.Equal(t, 1, code)
}

func TestMountScriptDisable_PassThru(t *testing.T) {
	resetSeams()
	stubConfig(config.Config{Output: config.OutputYAML})
	c := vmClient()
	useClient(c)

	code, out := runCaptured(t, "mount-script", "disable", rpID, "--passthru")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "itemName: vm01")
	assert.Equal(t, 1, c.revCalls)
}

func TestMountScriptDisable_QuietByDefault(t *testing.T) {
	resetSeams()
	stubConfig(config.Config{})
	c := vmClient()
	useClient(c)

	code, out := runCaptured(t, "mount-script", "disable", rpID)
	require.Equal(t, 0, code)
	assert.Empty(t, out)
	assert.Equal(t, 1, c.revCalls)
}

func TestMountScriptDisable_ConfigError(t *testing.T) {
	resetSeams()
	loadConfig = func(string) (config.Config, error) { return config.Config{}, errors.New("bad config") }

	code, _ := runCaptured(t, "mount-script", "disable", rpID)
	assert.Equal(t, 1, code)
}

func TestImageOffers(t *testing.T) {
	resetSeams()
	stubConfig(config.Config{SubscriptionID: "sub"})
	newOfferLister = func(config.Config) (compute.OfferLister, error) { return fakeLister{}, nil }

	code, out := runCaptured(t, "image-offers", "--location", "West Europe", "--publisher", "Canonical")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "UbuntuServer")
	assert.Contains(t, out, "Canonical")
}

func TestImageOffers_RequiredFlags(t *testing.T) {
	resetSeams()
	code, _ := runCaptured(t, "image-offers", "--location", "westeurope")
	assert.Equal(t, 2, code)
}

func TestDefaultOfferLister_RequiresSubscription(t *testing.T) {
	_, err := defaultOfferLister(config.Config{})
	assert.ErrorIs(t, err, errNoSubscription)
}

func TestWithSignals_CancelsOnInterrupt(t *testing.T) {
	ctx := withSignals(context.Background())

	// Send SIGINT after a short delay to ensure signal.Notify has been registered.
	time.AfterFunc(100*time.Millisecond, func() {
		p, _ := os.FindProcess(os.Getpid())
		_ = p.Signal(os.Interrupt)
	})

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not canceled after os.Interrupt")
	}
	signal.Reset(os.Interrupt)
}
