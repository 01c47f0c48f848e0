package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/cuenta-app/cuenta/internal/validation"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.Contains(configDir, "cuenta") {
		t.Errorf("GetConfigDir() = %v, should contain 'cuenta'", configDir)
	}

	if runtime.GOOS == "windows" {
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	}
}

func TestGetConfigDir_XDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux")
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if configDir != "/tmp/xdg-test/cuenta" {
		t.Errorf("GetConfigDir() = %s, want /tmp/xdg-test/cuenta", configDir)
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("Version = %v, want 1", reg.Version)
	}
	if reg.Servers == nil {
		t.Error("Servers should not be nil")
	}
	if reg.Preferences == nil || reg.Preferences.OutputFormat != "detailed" {
		t.Errorf("unexpected preferences: %+v", reg.Preferences)
	}
	if reg.ActiveServer() != nil {
		t.Error("new registry should have no active server")
	}
	if reg.EffectiveRules() != validation.DefaultRules() {
		t.Error("new registry should use default rules")
	}
}

func TestRegistrySetServer(t *testing.T) {
	reg := NewRegistry()

	reg.SetServer("home", "http://192.168.1.20:8420", "u-1")
	reg.SetServer("work", "http://cuenta.internal:8420", "u-9")

	if reg.Current != "home" {
		t.Errorf("Current = %q, first server should become active", reg.Current)
	}

	active := reg.ActiveServer()
	if active == nil || active.URL != "http://192.168.1.20:8420" || active.UserID != "u-1" {
		t.Errorf("ActiveServer() = %+v", active)
	}

	// Updating without a user keeps the stored one
	reg.SetServer("home", "http://192.168.1.21:8420", "")
	if reg.GetServer("home").UserID != "u-1" {
		t.Error("empty user id should not clear the stored one")
	}

	if err := reg.UseServer("work"); err != nil {
		t.Fatal(err)
	}
	if reg.ActiveServer().UserID != "u-9" {
		t.Error("UseServer should switch the active server")
	}

	if err := reg.UseServer("missing"); err == nil {
		t.Error("UseServer should reject unknown names")
	}

	names := reg.ServerNames()
	if len(names) != 2 || names[0] != "home" || names[1] != "work" {
		t.Errorf("ServerNames() = %v", names)
	}
}

func TestRegistryRecordDiscovered(t *testing.T) {
	reg := NewRegistry()

	s := reg.RecordDiscovered("cuenta-dev", "http://10.0.0.5:8420")
	if s.Source != "mdns" || s.URL != "http://10.0.0.5:8420" || s.LastSeen.IsZero() {
		t.Errorf("unexpected discovered server: %+v", s)
	}

	// Manual entries are not overwritten by discovery
	reg.SetServer("home", "http://manual:8420", "u-1")
	reg.RecordDiscovered("home", "http://10.0.0.6:8420")
	if reg.GetServer("home").URL != "http://manual:8420" {
		t.Error("discovery must not overwrite a manual URL")
	}
}

func TestRegistrySetNickBounds(t *testing.T) {
	reg := NewRegistry()

	if err := reg.SetNickBounds(4, 20); err != nil {
		t.Fatal(err)
	}
	rules := reg.EffectiveRules()
	if rules.NickMin != 4 || rules.NickMax != 20 || rules.NameMin != validation.DefaultNameMin {
		t.Errorf("EffectiveRules() = %+v", rules)
	}

	if err := reg.SetNickBounds(10, 3); err == nil {
		t.Error("inverted bounds should be rejected")
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	testConfigPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg := NewRegistry()
	reg.SetServer("home", "http://192.168.1.20:8420", "u-1")
	if err := reg.SetNickBounds(3, 12); err != nil {
		t.Fatal(err)
	}
	reg.Preferences.OutputFormat = "compact"

	if err := saveRegistryToFile(reg, testConfigPath); err != nil {
		t.Fatalf("saveRegistryToFile() error = %v", err)
	}

	info, err := os.Stat(testConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(testConfigPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after save")
	}

	data, _ := os.ReadFile(testConfigPath)
	if !strings.HasPrefix(string(data), "# cuenta configuration file") {
		t.Error("saved file should start with the header comment")
	}
	if strings.Contains(string(data), "token:") {
		t.Error("config file must not carry credentials")
	}

	loaded, err := loadRegistryFromFile(testConfigPath)
	if err != nil {
		t.Fatalf("loadRegistryFromFile() error = %v", err)
	}

	active := loaded.ActiveServer()
	if active == nil || active.UserID != "u-1" {
		t.Fatalf("ActiveServer() = %+v", active)
	}
	if loaded.EffectiveRules().NickMax != 12 {
		t.Errorf("NickMax = %d, want 12", loaded.EffectiveRules().NickMax)
	}
	if loaded.Preferences.OutputFormat != "compact" {
		t.Errorf("OutputFormat = %q", loaded.Preferences.OutputFormat)
	}
}

func TestLoadRegistryFromFile_Missing(t *testing.T) {
	reg, err := loadRegistryFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should yield defaults, got %v", err)
	}
	if reg.Version != 1 {
		t.Error("expected default registry")
	}
}

func TestLoadRegistryFromFile_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad version":      "version: 2\n",
		"bad yaml":         "version: [\n",
		"dangling current": "version: 1\ncurrent: ghost\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := loadRegistryFromFile(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadRegistryFromFile_FillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 1\n"), 0600); err != nil {
		t.Fatal(err)
	}

	reg, err := loadRegistryFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if reg.Servers == nil || reg.Preferences == nil {
		t.Error("missing sections should be filled with defaults")
	}
}

func TestValidOutputFormat(t *testing.T) {
	for _, f := range OutputFormats {
		if !ValidOutputFormat(f) {
			t.Errorf("ValidOutputFormat(%q) = false", f)
		}
	}
	if ValidOutputFormat("xml") {
		t.Error("xml should not be accepted")
	}
}
