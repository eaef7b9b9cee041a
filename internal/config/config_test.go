package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Search: SearchConfig{
			Addrs:      []string{"https://localhost:9200"},
			CardIndex:  "cards",
			RulesIndex: "rules",
			QAIndex:    "qa",
		},
		Embedding: EmbeddingConfig{Model: "text-embedding-3-small"},
		Model:     ModelConfig{Model: "gpt-4o-mini"},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingSearchAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Addrs = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing search addrs")
	}
}

func TestValidate_MissingIndexes(t *testing.T) {
	for _, tc := range []struct {
		name  string
		strip func(*Config)
	}{
		{"card_index", func(c *Config) { c.Search.CardIndex = "" }},
		{"rules_index", func(c *Config) { c.Search.RulesIndex = "" }},
		{"qa_index", func(c *Config) { c.Search.QAIndex = "" }},
		{"embedding_model", func(c *Config) { c.Embedding.Model = "" }},
		{"model_model", func(c *Config) { c.Model.Model = "" }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.strip(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected error for missing %s", tc.name)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Search.LexicalSize != 10 {
		t.Errorf("expected LexicalSize=10, got %d", cfg.Search.LexicalSize)
	}
	if cfg.Search.OverfetchFactor != 10 {
		t.Errorf("expected OverfetchFactor=10, got %d", cfg.Search.OverfetchFactor)
	}
	if cfg.Search.TopK != 3 {
		t.Errorf("expected TopK=3, got %d", cfg.Search.TopK)
	}
	if cfg.Rulings.MaxConcurrent != 8 {
		t.Errorf("expected MaxConcurrent=8, got %d", cfg.Rulings.MaxConcurrent)
	}
	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CARDSAGE_TEST_PASSWORD", "secret")

	in := []byte("password: ${CARDSAGE_TEST_PASSWORD}\nindex: ${CARDSAGE_TEST_MISSING:-cards}\n")
	out := string(expandEnvVars(in))

	want := "password: secret\nindex: cards\n"
	if out != want {
		t.Errorf("unexpected expansion:\ngot:  %q\nwant: %q", out, want)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	data := []byte(`
http:
  port: 8080
search:
  addrs: ["https://localhost:9200"]
  card_index: cards
  rules_index: rules
  qa_index: qa
embedding:
  model: text-embedding-3-small
model:
  model: gpt-4o-mini
`)
	if err := os.WriteFile(filepath.Join(dir, "config", "test.yaml"), data, 0o600); err != nil {
		t.Fatal(err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.HTTP.Port)
	}
	if cfg.Search.LexicalSize != 10 {
		t.Errorf("expected defaulted LexicalSize=10, got %d", cfg.Search.LexicalSize)
	}
}
