package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/emrekoca/zscout/internal/config"
)

func TestConfigFlagDefaultMatchesInitTarget(t *testing.T) {
	f := rootCmd.PersistentFlags().Lookup("config")
	if f == nil {
		t.Fatal("config flag not registered")
	}
	if f.DefValue != defaultConfigFile {
		t.Fatalf("--config default = %q, but init writes %q", f.DefValue, defaultConfigFile)
	}
}

func TestInitWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), defaultConfigFile)
	if err := initCmd.RunE(initCmd, []string{path}); err != nil {
		t.Fatalf("init: %v", err)
	}
	c, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Analysis.ZScoreThreshold != 3.0 {
		t.Fatalf("threshold = %v, want example default", c.Analysis.ZScoreThreshold)
	}
}

func TestInitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), defaultConfigFile)
	if err := os.WriteFile(path, []byte("keep me"), 0o644); err != nil {
		t.Fatalf("seed existing config: %v", err)
	}
	if err := initCmd.RunE(initCmd, []string{path}); err == nil {
		t.Fatal("want refusal without --force")
	}
}
