package utils

import (
	"reflect"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{
		"RANKCET_ADDR", "RANKCET_DATA_DIR", "RANKCET_SCHEMA_FILE", "RANKCET_GENERATION",
		"RANKCET_ALLOWED_ORIGINS", "RANKCET_LOG_DEBUG", "RANKCET_S3_BUCKET", "RANKCET_S3_REGION",
	} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())

	cfg := LoadConfig()
	if cfg.Addr != ":8080" || cfg.DataDir != "data" || cfg.Debug {
		t.Errorf("defaults = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"*"}) {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.S3.Enabled() || cfg.S3.Region != "us-east-1" {
		t.Errorf("S3 = %+v", cfg.S3)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RANKCET_ADDR", ":9090")
	t.Setenv("RANKCET_DATA_DIR", "/srv/cutoffs")
	t.Setenv("RANKCET_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("RANKCET_LOG_DEBUG", "true")
	t.Setenv("RANKCET_S3_BUCKET", "eamcet")
	t.Setenv("RANKCET_S3_PATH_STYLE", "not-a-bool")

	cfg := LoadConfig()
	if cfg.Addr != ":9090" || cfg.DataDir != "/srv/cutoffs" || !cfg.Debug {
		t.Errorf("cfg = %+v", cfg)
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v; want %v", cfg.AllowedOrigins, want)
	}
	if !cfg.S3.Enabled() || cfg.S3.PathStyle {
		t.Errorf("S3 = %+v", cfg.S3)
	}
}
