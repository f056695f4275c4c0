package config

import (
	"os"
	"path/filepath"
	"testing"

	"zapisbot/internal/models"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
telegram:
  bot_token: "test_token"
  operator_id: 111222333
database:
  path: "test.db"
google:
  credentials_file: "credentials.json"
  spreadsheet_id: "sheet-id"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	// Mock .env file
	if err := os.WriteFile(".env", []byte(""), 0o644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	defer os.Remove(".env")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Telegram.BotToken != "test_token" {
		t.Errorf("expected bot_token test_token, got %s", cfg.Telegram.BotToken)
	}

	if cfg.Telegram.OperatorID != 111222333 {
		t.Errorf("expected operator_id 111222333, got %d", cfg.Telegram.OperatorID)
	}

	// Defaults
	if cfg.Google.SheetTab != "Записи" {
		t.Errorf("expected default sheet tab, got %s", cfg.Google.SheetTab)
	}
	if cfg.Bot.SessionTTLSeconds != models.DefaultSessionTTL {
		t.Errorf("expected default session ttl, got %d", cfg.Bot.SessionTTLSeconds)
	}
	if cfg.Bot.RateLimitMessages != models.RateLimitMessages {
		t.Errorf("expected default rate limit, got %d", cfg.Bot.RateLimitMessages)
	}
}

func TestLoadConfigEnvExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
telegram:
  bot_token: "${TEST_BOT_TOKEN}"
  operator_id: 42
database:
  path: "test.db"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	if err := os.WriteFile(".env", []byte(""), 0o644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	defer os.Remove(".env")

	t.Setenv("TEST_BOT_TOKEN", "token-from-env")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Telegram.BotToken != "token-from-env" {
		t.Errorf("expected env-expanded token, got %s", cfg.Telegram.BotToken)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				Telegram: TelegramConfig{BotToken: "token", OperatorID: 1},
				Database: DatabaseConfig{Path: "path"},
			},
			wantErr: false,
		},
		{
			name: "missing token",
			cfg: Config{
				Telegram: TelegramConfig{OperatorID: 1},
				Database: DatabaseConfig{Path: "path"},
			},
			wantErr: true,
		},
		{
			name: "placeholder token",
			cfg: Config{
				Telegram: TelegramConfig{BotToken: "YOUR_BOT_TOKEN_HERE", OperatorID: 1},
				Database: DatabaseConfig{Path: "path"},
			},
			wantErr: true,
		},
		{
			name: "missing operator",
			cfg: Config{
				Telegram: TelegramConfig{BotToken: "token"},
				Database: DatabaseConfig{Path: "path"},
			},
			wantErr: true,
		},
		{
			name: "missing database path",
			cfg: Config{
				Telegram: TelegramConfig{BotToken: "token", OperatorID: 1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateServices(t *testing.T) {
	tests := []struct {
		name     string
		services []models.Service
		wantErr  bool
	}{
		{
			name: "valid catalog",
			services: []models.Service{
				{Name: "Чистка лица", Slots: []string{"2024-05-01 10:00", "2024-05-01 12:00"}},
				{Name: "Массаж", Slots: []string{"2024-05-02 10:00"}},
			},
			wantErr: false,
		},
		{
			name:     "empty catalog",
			services: nil,
			wantErr:  true,
		},
		{
			name: "duplicate service",
			services: []models.Service{
				{Name: "Массаж", Slots: []string{"a"}},
				{Name: "Массаж", Slots: []string{"b"}},
			},
			wantErr: true,
		},
		{
			name: "service without slots",
			services: []models.Service{
				{Name: "Массаж"},
			},
			wantErr: true,
		},
		{
			name: "duplicate slot",
			services: []models.Service{
				{Name: "Массаж", Slots: []string{"a", "a"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateServices(tt.services)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateServices() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
