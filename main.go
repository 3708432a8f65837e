package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/pflag"

	"imagesteps/alter"
	"imagesteps/common"
	"imagesteps/config"
	"imagesteps/logging"
	"imagesteps/watcher"
)

var (
	configPath = pflag.StringP("config", "c", "", "Path to config.yaml (defaults apply when empty)")
	attrs      = pflag.StringArrayP("attr", "a", nil, "Transform attribute as Key=Value, repeatable (e.g. -a Width=640 -a \"Resize Method=Crop\")")
	normalize  = pflag.BoolP("normalize", "n", false, "Print the normalized form of the given attributes instead of altering")
	dryRun     = pflag.Bool("dry-run", false, "Print the command instead of running it")
	watch      = pflag.BoolP("watch", "w", false, "Watch the fixtures directory and render altered references")
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <image>...\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logging.L().Fatalf("Failed to load config: %v", err)
	}
	logging.Configure(logging.Options{Level: cfg.Logging.Level, JSON: cfg.Logging.JSON})
	log := logging.L()

	parsed, err := common.ParseAttributes(*attrs)
	if err != nil {
		log.Fatalf("Invalid attributes: %v", err)
	}

	if *normalize {
		printNormalized(parsed)
		return
	}

	planner := alter.NewPlannerFromConfig(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *watch {
		if err := runWatcher(ctx, cfg, planner); err != nil {
			log.Fatalf("Watcher failed: %v", err)
		}
		return
	}

	if pflag.NArg() == 0 {
		pflag.Usage()
		os.Exit(2)
	}

	for _, path := range pflag.Args() {
		plan, err := alter.BuildPlan(path, parsed)
		if err != nil {
			log.Fatalf("Failed to plan %s: %v", path, err)
		}
		if *dryRun {
			fmt.Println(plan.Command(planner.Tool()))
			continue
		}
		if err := planner.Run(ctx, plan); err != nil {
			log.Fatalf("Failed to alter %s: %v", path, err)
		}
		log.WithField("path", path).Info("Image altered")
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg := config.Default()
	if err := config.LoadEnv(cfg, ".env"); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func printNormalized(attrs common.Attributes) {
	normalized := common.NormalizeAttributeKeys(attrs)
	keys := make([]string, 0, len(normalized))
	for k := range normalized {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s=%s\n", k, normalized[k])
	}
}

func runWatcher(ctx context.Context, cfg *config.Config, planner *alter.Planner) error {
	w, err := watcher.NewWatcher(cfg, planner)
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Start(ctx); err != nil {
		return err
	}
	logging.L().Info("Watcher started. Press Ctrl+C to stop")

	for {
		select {
		case <-ctx.Done():
			logging.L().Info("Shutting down...")
			return nil
		case event := <-w.Events():
			entry := logging.L().WithField("fixture", event.FilePath).WithField("event", event.Type.String())
			if event.Err != nil {
				entry.WithError(event.Err).Warn("Fixture not rendered")
				continue
			}
			entry.WithField("output", event.Output).Info("Fixture event")
		}
	}
}
