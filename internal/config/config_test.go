package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Data: DataConfig{
			BasePath: "/some/path",
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_LogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"WARN", true}, // case insensitive
		{"verbose", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_DataPathRequired(t *testing.T) {
	cfg := validConfig()
	cfg.Data.BasePath = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_TokenKeyLength(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.AccessTokenKey = make([]byte, 16)
	assert.Error(t, cfg.Validate())

	cfg.Auth.AccessTokenKey = make([]byte, 32)
	assert.NoError(t, cfg.Validate())

	// Absent key is fine; one gets generated at startup
	cfg.Auth.AccessTokenKey = nil
	assert.NoError(t, cfg.Validate())
}

func TestExpandPath(t *testing.T) {
	got, err := expandPath("", "/default/path")
	assert.NoError(t, err)
	assert.Equal(t, "/default/path", got)

	got, err = expandPath("/absolute/path", "/default")
	assert.NoError(t, err)
	assert.Equal(t, "/absolute/path", got)
}

func TestGetConfigValue(t *testing.T) {
	t.Setenv("INKWELL_TEST_KEY", "from-env")

	// Flag wins
	assert.Equal(t, "from-flag", getConfigValue("from-flag", "INKWELL_TEST_KEY", "default"))

	// Then env
	assert.Equal(t, "from-env", getConfigValue("", "INKWELL_TEST_KEY", "default"))

	// Then default
	assert.Equal(t, "default", getConfigValue("", "INKWELL_TEST_UNSET", "default"))
}
