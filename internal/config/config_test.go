package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	cfg := FromViper(viper.New())

	if cfg.App.Name != "mero-crm" || cfg.App.Port != "8080" {
		t.Errorf("App = %+v", cfg.App)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Database.Driver = %q", cfg.Database.Driver)
	}
	if cfg.JWT.ExpiryHours != 24*time.Hour {
		t.Errorf("JWT.ExpiryHours = %v", cfg.JWT.ExpiryHours)
	}
	if cfg.AppSession.TTL != 30*time.Minute {
		t.Errorf("AppSession.TTL = %v", cfg.AppSession.TTL)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("APP_SESSION_TTL_MINUTES", "5")
	t.Setenv("APP_ENV", "production")

	v := viper.New()
	v.AutomaticEnv()
	cfg := FromViper(v)

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q", cfg.Database.Driver)
	}
	if cfg.AppSession.TTL != 5*time.Minute {
		t.Errorf("AppSession.TTL = %v", cfg.AppSession.TTL)
	}
	if !cfg.App.IsProduction() {
		t.Error("IsProduction() = false")
	}
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", User: "u", Password: "p", Name: "crm", Port: "5432", SSLMode: "disable", Timezone: "UTC"}
	want := "host=db user=u password=p dbname=crm port=5432 sslmode=disable TimeZone=UTC"
	if got := db.DSN(); got != want {
		t.Errorf("DSN() = %q", got)
	}
}
