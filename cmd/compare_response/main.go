package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"imagesteps/alter"
	"imagesteps/common"
	"imagesteps/compare"
	"imagesteps/config"
	"imagesteps/logging"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: compare_response <fixture.yaml> <received-image> [config.yaml]")
		os.Exit(1)
	}

	fixturePath := os.Args[1]
	receivedPath := os.Args[2]

	// Load config
	cfg := config.Default()
	if len(os.Args) > 3 {
		var err error
		cfg, err = config.Load(os.Args[3])
		if err != nil {
			logging.L().Fatalf("Failed to load config: %v", err)
		}
	}
	// Running this tool is an explicit request to compare
	cfg.Compare.Enabled = true
	logging.Configure(logging.Options{Level: cfg.Logging.Level, JSON: cfg.Logging.JSON})

	// Parse fixture
	fixture, err := common.ParseFixture(fixturePath)
	if err != nil {
		logging.L().Fatalf("Failed to parse fixture: %v", err)
	}

	received, err := os.ReadFile(receivedPath)
	if err != nil {
		logging.L().Fatalf("Failed to read received image: %v", err)
	}

	fmt.Printf("Fixture: %s\n", fixture.Name)
	fmt.Printf("Alterations: %d attributes\n", len(fixture.Alter))

	comparator := compare.NewComparator(cfg, alter.NewPlannerFromConfig(cfg), nil, compare.StaticResponse(received))
	err = comparator.CompareFixture(context.Background(), fixture)
	switch {
	case err == nil:
		fmt.Println("✅ Received image matches the altered reference")
	case errors.Is(err, compare.ErrNotDuplicate), errors.Is(err, compare.ErrNotCompressed):
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	default:
		logging.L().Fatalf("Comparison failed: %v", err)
	}
}
