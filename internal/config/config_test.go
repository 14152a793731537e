package config

import (
	"errors"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CODEQUEST_PROJECT_ID", "project-123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.BaseURL)
	}
	if cfg.ProjectID != "project-123" {
		t.Errorf("ProjectID = %q", cfg.ProjectID)
	}
	if cfg.Debug {
		t.Error("Debug defaults on, want off")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CODEQUEST_PROJECT_ID", "project-123")
	t.Setenv("CODEQUEST_BASE_URL", "http://localhost:8080")
	t.Setenv("CODEQUEST_DEBUG", "true")
	t.Setenv("CODEQUEST_DB", "/tmp/custom.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	if cfg.DBPath != "/tmp/custom.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
}

func TestValidate(t *testing.T) {
	if err := (Config{ProjectID: "p"}).Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	err := (Config{}).Validate()
	if !errors.Is(err, ErrMissingProjectID) {
		t.Errorf("Validate() = %v, want ErrMissingProjectID", err)
	}
}
