package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/torinwade/salib/internal/core/domain"
	"github.com/torinwade/salib/pkg/config"
	"github.com/torinwade/salib/pkg/vault"
)

func TestRootCommandRegistration(t *testing.T) {
	expected := []string{
		"init", "version", "register", "unregister", "list", "thumb",
		"preview", "explore", "tags", "stats", "daemon", "config", "doctor",
		"clean",
	}

	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}

	for _, name := range expected {
		if !registered[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestSortAssets(t *testing.T) {
	day := 24 * time.Hour
	now := time.Now()
	base := []domain.Asset{
		{Name: "a.png", Type: "prop", RegisteredAt: now.Add(-2 * day)},
		{Name: "b.png", Type: "char", RegisteredAt: now},
		{Name: "c.png", Type: "envir", RegisteredAt: now.Add(-1 * day)},
	}

	tests := []struct {
		name      string
		key       string
		reverse   bool
		wantOrder []string
	}{
		{"by name keeps input order", "name", false, []string{"a.png", "b.png", "c.png"}},
		{"by name reversed", "name", true, []string{"c.png", "b.png", "a.png"}},
		{"by type", "type", false, []string{"b.png", "c.png", "a.png"}},
		{"by date newest first", "date", false, []string{"b.png", "c.png", "a.png"}},
		{"by date reversed", "date", true, []string{"a.png", "c.png", "b.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assets := make([]domain.Asset, len(base))
			copy(assets, base)

			sortAssets(assets, tt.key, tt.reverse)

			for i, want := range tt.wantOrder {
				if assets[i].Name != want {
					t.Errorf("position %d = %q, want %q", i, assets[i].Name, want)
				}
			}
		})
	}
}

func TestIsKnownType(t *testing.T) {
	appConfig = config.DefaultConfig()

	tests := []struct {
		assetType string
		want      bool
	}{
		{"prop", true},
		{"PROP", true},
		{"fx", true},
		{"vehicle", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isKnownType(tt.assetType); got != tt.want {
			t.Errorf("isKnownType(%q) = %v, want %v", tt.assetType, got, tt.want)
		}
	}
}

func TestShortHash(t *testing.T) {
	if got := shortHash("0123456789abcdef"); got != "0123456789ab" {
		t.Errorf("shortHash() = %q, want 0123456789ab", got)
	}
	if got := shortHash("abc"); got != "abc" {
		t.Errorf("shortHash() = %q, want abc", got)
	}
}

func TestOrNone(t *testing.T) {
	if got := orNone(""); got != "(none)" {
		t.Errorf("orNone(\"\") = %q", got)
	}
	if got := orNone("x"); got != "x" {
		t.Errorf("orNone(\"x\") = %q", got)
	}
}

func TestVaultStatus(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	status := vaultStatus()
	if !strings.Contains(status, "not initialized") {
		t.Errorf("vaultStatus() before init = %q, want a not-initialized hint", status)
	}

	v, err := vault.New()
	if err != nil {
		t.Fatalf("vault.New() error: %v", err)
	}
	if err := v.Initialize(); err != nil {
		t.Fatalf("failed to initialize vault: %v", err)
	}

	if got := vaultStatus(); got != v.RootPath {
		t.Errorf("vaultStatus() after init = %q, want %q", got, v.RootPath)
	}
}
