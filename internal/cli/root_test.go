// internal/cli/root_test.go
package metricdeck

import (
	"os"
	"path/filepath"
	"testing"
)

func resetFlag(t *testing.T, name string) {
	t.Helper()
	flag := rootCmd.PersistentFlags().Lookup(name)
	if flag == nil {
		t.Fatalf("unknown flag %q", name)
	}
	_ = flag.Value.Set(flag.DefValue)
	flag.Changed = false
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metricdeck.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestPersistentPreRunEUsesFlagValues verifies that flags set on the command
// line override the values loaded from the config file.
func TestPersistentPreRunEUsesFlagValues(t *testing.T) {
	configPath := writeTempConfig(t, `{
		"apiBase": "https://monitoring.example.com/v1",
		"project": "from-file",
		"timespan": "6h",
		"charts": [{"metric": "cpu/usage_time"}]
	}`)

	prevCfgFile := cfgFile
	cfgFile = configPath
	t.Cleanup(func() { cfgFile = prevCfgFile })

	for _, name := range []string{"debug", "project", "timespan", "refresh", "logFile"} {
		resetFlag(t, name)
	}
	_ = rootCmd.PersistentFlags().Set("debug", "true")
	_ = rootCmd.PersistentFlags().Set("project", "from-flag")
	_ = rootCmd.PersistentFlags().Set("refresh", "30")

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("PersistentPreRunE error: %v", err)
	}

	if currentConfig == nil {
		t.Fatal("expected config to be loaded")
	}
	if !currentConfig.Debug {
		t.Error("expected debug flag to flow into config")
	}
	if currentConfig.Project != "from-flag" {
		t.Errorf("expected project from-flag, got %q", currentConfig.Project)
	}
	if currentConfig.RefreshSeconds != 30 {
		t.Errorf("expected refresh 30, got %d", currentConfig.RefreshSeconds)
	}
	if currentConfig.Timespan != "6h" {
		t.Errorf("expected unflagged timespan to keep file value 6h, got %q", currentConfig.Timespan)
	}
}

// TestPersistentPreRunEConfigValuesSurvive verifies that file values are kept
// when no flag overrides them.
func TestPersistentPreRunEConfigValuesSurvive(t *testing.T) {
	configPath := writeTempConfig(t, `{
		"apiBase": "https://monitoring.example.com/v1",
		"project": "from-file",
		"charts": [{"metric": "cpu/usage_time"}]
	}`)

	prevCfgFile := cfgFile
	cfgFile = configPath
	t.Cleanup(func() { cfgFile = prevCfgFile })

	for _, name := range []string{"debug", "project", "timespan", "refresh", "logFile"} {
		resetFlag(t, name)
	}

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("PersistentPreRunE error: %v", err)
	}
	if currentConfig.Project != "from-file" {
		t.Errorf("expected project from-file, got %q", currentConfig.Project)
	}
	if currentConfig.Debug {
		t.Error("expected debug to stay false without the flag")
	}
}

// TestPersistentPreRunERejectsInvalidTimespan verifies that a timespan the
// monitoring API cannot parse is rejected at startup, whether it comes from
// the config file or the flag.
func TestPersistentPreRunERejectsInvalidTimespan(t *testing.T) {
	configPath := writeTempConfig(t, `{
		"apiBase": "https://monitoring.example.com/v1",
		"timespan": "fortnight",
		"charts": [{"metric": "cpu/usage_time"}]
	}`)

	prevCfgFile := cfgFile
	cfgFile = configPath
	t.Cleanup(func() { cfgFile = prevCfgFile })

	for _, name := range []string{"debug", "project", "timespan", "refresh", "logFile"} {
		resetFlag(t, name)
	}

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err == nil {
		t.Error("expected an error for an unparseable config timespan, got nil")
	}

	_ = rootCmd.PersistentFlags().Set("timespan", "5x")
	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err == nil {
		t.Error("expected an error for an unparseable flag timespan, got nil")
	}

	_ = rootCmd.PersistentFlags().Set("timespan", "15m")
	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("expected a valid flag timespan to pass, got %v", err)
	}
	if currentConfig.Timespan != "15m" {
		t.Errorf("expected timespan 15m, got %q", currentConfig.Timespan)
	}
}
