package main

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"emma-client/internal/accounts"
	"emma-client/internal/agents"
	"emma-client/internal/apiclient"
	"emma-client/internal/config"
	"emma-client/internal/featureflags"
	"emma-client/internal/logging"
	"emma-client/internal/session"
	"emma-client/internal/site"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const usage = `usage: emma-client [flags] <command> [args]

commands:
  flags              print every feature flag
  flag <name>        print whether a flag is enabled
  details <name>     print a flag with its details
  accounts           sign in locally and list accounts
  watch              follow flag changes until interrupted
  logo               print the logo HTML
  site               print the site metadata
`

func main() {
	fs := pflag.NewFlagSet("emma-client", pflag.ExitOnError)
	fs.String("backend.url", "", "backend base URL, e.g. http://localhost:8008")
	fs.String("log.level", "info", "log level")
	email := fs.String("email", "", "email of the local user")
	theme := fs.String("theme", string(site.ThemeSystem), "logo theme: light, dark or system")
	systemTheme := fs.String("system-theme", string(site.ThemeLight), "theme reported by the OS")
	size := fs.Int("size", site.DefaultLogoSize, "logo size in pixels")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	args := fs.Args()
	if len(args) == 0 {
		fs.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if err := logging.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logging.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	flags := featureflags.NewManager(featureflags.Options{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Flags.Timeout,
		TTL:     cfg.Flags.TTL,
		Logger:  logging.Named("flags"),
	})

	switch args[0] {
	case "flags":
		all := flags.GetAllFlags(ctx)
		for _, name := range slices.Sorted(maps.Keys(all)) {
			fmt.Printf("%-20s %t\n", name, all[name])
		}
	case "flag":
		if len(args) < 2 {
			fs.Usage()
			os.Exit(2)
		}
		fmt.Println(flags.IsEnabled(ctx, args[1]))
	case "details":
		if len(args) < 2 {
			fs.Usage()
			os.Exit(2)
		}
		flag, ok := flags.GetFlagDetails(ctx, args[1])
		if !ok {
			fmt.Fprintln(os.Stderr, "flag details unavailable")
			os.Exit(1)
		}
		printJSON(flag)
	case "accounts":
		printJSON(listAccounts(ctx, cfg, flags, *email))
	case "watch":
		watch(ctx, cfg, flags)
	case "logo":
		html, err := site.Logo{Size: *size}.HTML(site.Appearance{
			Theme:       site.ParseTheme(*theme),
			SystemTheme: site.ParseTheme(*systemTheme),
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(html)
	case "site":
		printJSON(site.Default)
	default:
		fs.Usage()
		os.Exit(2)
	}
}

// listAccounts signs in as the local user, waits for the default agent
// install, then lists accounts.
func listAccounts(ctx context.Context, cfg *config.Configuration, flags *featureflags.Manager, email string) []accounts.Account {
	authClient := session.NewLocalAuthClient(email)
	api := apiclient.New(cfg.Backend.URL, flags, authClient, apiclient.WithLogger(logging.Named("api")))
	provider := session.NewProvider(authClient, agents.NewInstaller(api, logging.Named("agents")), logging.Named("session"))
	defer provider.Close()

	provider.Start(ctx)
	if _, err := authClient.SignIn(ctx); err != nil {
		logging.Error("Local sign-in failed", zap.Error(err))
		return []accounts.Account{}
	}
	if task := provider.InstallTask(); task != nil {
		if err := task.Wait(ctx); err != nil {
			logging.Warn("Default agent not installed", zap.Error(err))
		}
	}

	return accounts.NewService(provider, api, logging.Named("accounts")).List(ctx)
}

func watch(ctx context.Context, cfg *config.Configuration, flags *featureflags.Manager) {
	wsURL, err := featureflags.EventsURL(cfg.Backend.URL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "watch:", err)
		os.Exit(1)
	}
	flags.PreloadFlags(ctx, featureflags.Names())
	logging.Info("Watching flag changes", zap.String("url", wsURL))
	if err := flags.Watch(ctx, wsURL); err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, "watch:", err)
		os.Exit(1)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
