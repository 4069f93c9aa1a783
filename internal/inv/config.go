package inv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// ConfigFileName is the dotfile searched for when no --config is given.
const ConfigFileName = ".inv-config"

// EnvPrefix is prepended to config keys when reading overrides from the environment.
const EnvPrefix = "INV_"

// Config holds the CLI configuration
type Config struct {
	APIURL         string `validate:"required,url"`
	APIToken       string
	Brand          string `validate:"required"`
	Currency       string `validate:"required,alpha,len=3"`
	PageSize       int    `validate:"min=1,max=500"`
	LogFile        string
	LogLevel       string `validate:"oneof=panic fatal error warn warning info debug trace"`
	InvoiceDir     string `validate:"required"`
	TimeoutSeconds int    `validate:"min=1,max=600"`

	// Source is the file the values were read from, empty when only the
	// environment was used.
	Source string
}

var configKeys = []string{
	"API_URL", "API_TOKEN", "BRAND", "CURRENCY", "PAGE_SIZE",
	"LOG_FILE", "LOG_LEVEL", "INVOICE_DIR", "TIMEOUT_SECONDS",
}

var validate = validator.New()

// DefaultConfig returns a Config with every optional key at its default.
func DefaultConfig() *Config {
	return &Config{
		Brand:          "Inventory CLI",
		Currency:       "USD",
		PageSize:       10,
		LogFile:        "inv-cli.log",
		LogLevel:       "info",
		InvoiceDir:     ".",
		TimeoutSeconds: 30,
	}
}

// Timeout is the HTTP client timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// findConfig returns the first config file found next to the working
// directory or the binary.
func findConfig() string {
	configPaths := []string{
		ConfigFileName,
		filepath.Join("..", ConfigFileName),
		filepath.Join(filepath.Dir(os.Args[0]), ConfigFileName),
		filepath.Join(filepath.Dir(os.Args[0]), "..", ConfigFileName),
	}
	for _, p := range configPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadConfig reads KEY=VALUE pairs from path, or from the first .inv-config
// found when path is empty. INV_<KEY> environment variables override file values.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = findConfig()
	}

	values := map[string]string{}
	if path != "" {
		read, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read config %s: %w", path, err)
		}
		values = read
	}
	for _, key := range configKeys {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			values[key] = v
		}
	}

	if path == "" && values["API_URL"] == "" {
		return nil, errors.New("config file not found. Copy .inv-config.example to .inv-config or set INV_API_URL")
	}

	config, err := parseConfig(values)
	if err != nil {
		return nil, err
	}
	config.Source = path
	return config, nil
}

func parseConfig(values map[string]string) (*Config, error) {
	config := DefaultConfig()

	for key, raw := range values {
		value := strings.TrimSpace(raw)
		switch key {
		case "API_URL":
			config.APIURL = strings.TrimRight(value, "/")
		case "API_TOKEN":
			config.APIToken = value
		case "BRAND":
			if value != "" {
				config.Brand = value
			}
		case "CURRENCY":
			if value != "" {
				config.Currency = strings.ToUpper(value)
			}
		case "PAGE_SIZE":
			if err := setInt(&config.PageSize, key, value); err != nil {
				return nil, err
			}
		case "LOG_FILE":
			config.LogFile = value
		case "LOG_LEVEL":
			if value != "" {
				config.LogLevel = strings.ToLower(value)
			}
		case "INVOICE_DIR":
			if value != "" {
				config.InvoiceDir = value
			}
		case "TIMEOUT_SECONDS":
			if err := setInt(&config.TimeoutSeconds, key, value); err != nil {
				return nil, err
			}
		}
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", describeValidation(err))
	}
	return config, nil
}

func setInt(dst *int, key, value string) error {
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid config: %s must be an integer, got %q", key, value)
	}
	*dst = n
	return nil
}

// describeValidation turns validator errors into "FIELD: tag" pairs.
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(parts, ", "))
}
