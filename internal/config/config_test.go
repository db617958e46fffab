package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("dev enables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in dev by default")
		}
	})
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "bolao-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "bolao-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_DBBinaryParametersParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_BINARY_PARAMETERS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBBinaryParameters {
			t.Fatalf("expected DBBinaryParameters=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_BINARY_PARAMETERS", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_BINARY_PARAMETERS")
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CacheTTL != 60*time.Second {
			t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})
}

func TestLoad_MailConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("log driver by default", func(t *testing.T) {
		t.Setenv("MAIL_DRIVER", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.MailDriver != MailDriverLog {
			t.Fatalf("unexpected default mail driver: %q", cfg.MailDriver)
		}
		if cfg.SMTPPort != 587 {
			t.Fatalf("unexpected default smtp port: %d", cfg.SMTPPort)
		}
		if !cfg.MailCircuitEnabled || cfg.MailCircuitFailureCount != 5 {
			t.Fatalf("unexpected mail circuit defaults: %+v", cfg)
		}
	})

	t.Run("smtp requires host and from", func(t *testing.T) {
		t.Setenv("MAIL_DRIVER", "smtp")
		t.Setenv("SMTP_HOST", "")
		t.Setenv("SMTP_FROM", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when MAIL_DRIVER=smtp without SMTP_HOST")
		}
	})

	t.Run("smtp with values", func(t *testing.T) {
		t.Setenv("MAIL_DRIVER", "SMTP")
		t.Setenv("SMTP_HOST", "smtp.example.com")
		t.Setenv("SMTP_FROM", "bolao@example.com")
		t.Setenv("SMTP_PORT", "2525")
		t.Setenv("SMTP_TIMEOUT", "3s")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.MailDriver != MailDriverSMTP || cfg.SMTPHost != "smtp.example.com" || cfg.SMTPPort != 2525 {
			t.Fatalf("unexpected smtp config: %+v", cfg)
		}
		if cfg.SMTPTimeout != 3*time.Second {
			t.Fatalf("unexpected smtp timeout: %s", cfg.SMTPTimeout)
		}
	})

	t.Run("invalid driver", func(t *testing.T) {
		t.Setenv("MAIL_DRIVER", "carrier-pigeon")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid MAIL_DRIVER")
		}
	})

	t.Run("invalid port", func(t *testing.T) {
		t.Setenv("MAIL_DRIVER", "log")
		t.Setenv("SMTP_PORT", "70000")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for out of range SMTP_PORT")
		}
	})
}

func TestLoad_StorageAndSessionParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "")
		t.Setenv("SESSION_TTL", "")
		t.Setenv("SESSION_COOKIE_SECURE", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StorageDriverPostgres {
			t.Fatalf("unexpected default storage driver: %q", cfg.StorageDriver)
		}
		if cfg.SessionTTL != 168*time.Hour {
			t.Fatalf("unexpected default session ttl: %s", cfg.SessionTTL)
		}
		if cfg.SessionCookieSecure {
			t.Fatalf("expected insecure session cookie in dev by default")
		}
	})

	t.Run("memory driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "memory")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StorageDriverMemory {
			t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
		}
	})

	t.Run("invalid driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "sqlite")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid STORAGE_DRIVER")
		}
	})

	t.Run("prod secures the session cookie", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("STORAGE_DRIVER", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SessionCookieSecure {
			t.Fatalf("expected secure session cookie in prod by default")
		}
	})
}

func TestLoad_TimezoneAndBaseURL(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("APP_TIMEZONE", "")
		t.Setenv("PUBLIC_BASE_URL", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.Location.String() != "America/Sao_Paulo" {
			t.Fatalf("unexpected default location: %s", cfg.Location)
		}
		if cfg.PublicBaseURL != "http://localhost:8080" {
			t.Fatalf("unexpected default base url: %q", cfg.PublicBaseURL)
		}
	})

	t.Run("trailing slash trimmed", func(t *testing.T) {
		t.Setenv("PUBLIC_BASE_URL", "https://bolao.example.com/")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.PublicBaseURL != "https://bolao.example.com" {
			t.Fatalf("unexpected base url: %q", cfg.PublicBaseURL)
		}
	})

	t.Run("relative base url rejected", func(t *testing.T) {
		t.Setenv("PUBLIC_BASE_URL", "/bolao")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for relative PUBLIC_BASE_URL")
		}
	})

	t.Run("unknown timezone rejected", func(t *testing.T) {
		t.Setenv("PUBLIC_BASE_URL", "")
		t.Setenv("APP_TIMEZONE", "Mars/Olympus")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown APP_TIMEZONE")
		}
	})
}
