package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/rsbctl/internal/auth"
	"github.com/Chapsvision-dev/rsbctl/internal/azure"
	"github.com/Chapsvision-dev/rsbctl/internal/backup"
	"github.com/Chapsvision-dev/rsbctl/internal/compute"
	"github.com/Chapsvision-dev/rsbctl/internal/config"
	"github.com/Chapsvision-dev/rsbctl/internal/logx"

	_ "github.com/Chapsvision-dev/rsbctl/internal/provider/azurefiles"
	_ "github.com/Chapsvision-dev/rsbctl/internal/provider/azuresql"
	_ "github.com/Chapsvision-dev/rsbctl/internal/provider/iaasvm"
)

// Test seams, overridden in unit tests. Keep signatures in sync with packages.
var (
	loadConfig      func(path string) (config.Config, error)            = config.Load
	newCredential   func(config.Config) (azcore.TokenCredential, error) = auth.New
	newBackupClient func(config.Config) (backup.Client, error)          = defaultBackupClient
	newOfferLister  func(config.Config) (compute.OfferLister, error)    = defaultOfferLister
	exit            func(int)                                           = os.Exit
)

var errNoSubscription = errors.New("AZURE_SUBSCRIPTION_ID is required")

// main wires CLI -> config -> credential -> ARM client -> command service.
// Exit codes: 0 success, 1 runtime error, 2 usage error.
func main() {
	_ = godotenv.Load() // best-effort
	logx.InitFromEnv()

	ctx := withSignals(context.Background())
	if code := run(ctx, os.Args[1:]); code != 0 {
		exit(code)
	}
}

func run(ctx context.Context, args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		if isUsageError(err) {
			root.PrintErrln("Error:", err)
			root.PrintErrln(root.UsageString())
			return 2
		}
		log.Error().Err(err).Msg("command failed")
		return 1
	}
	return 0
}

func defaultBackupClient(cfg config.Config) (backup.Client, error) {
	cred, err := newCredential(cfg)
	if err != nil {
		return nil, err
	}
	return azure.NewBackupClient(cred, cfg.PollOptions(), nil)
}

func defaultOfferLister(cfg config.Config) (compute.OfferLister, error) {
	if cfg.SubscriptionID == "" {
		return nil, errNoSubscription
	}
	cred, err := newCredential(cfg)
	if err != nil {
		return nil, err
	}
	return azure.NewComputeImagesClient(cfg.SubscriptionID, cred, nil)
}

// usageError marks errors that should exit with code 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func isUsageError(err error) bool {
	var ue usageError
	if errors.As(err, &ue) {
		return true
	}
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "required flag") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

func withSignals(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		<-ch
		cancel()
	}()
	return ctx
}
