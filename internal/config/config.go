package config

import (
	"fmt"
	"net"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Driver string
		Path   string
		URL    string
	}
	Auth struct {
		BcryptCost  int
		HashWorkers int
	}
	Register struct {
		RedactHash bool
	}
	Form struct {
		APIURL string
	}
	Log struct {
		Level  string
		Format string
	}
}

// Load reads configuration from environment variables and optional config
// files and checks the store settings the server needs.
func Load() (Config, error) {
	cfg, err := read()
	if err != nil {
		return Config{}, err
	}

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	switch cfg.Database.Driver {
	case "sqlite", "postgres", "memory":
	default:
		return Config{}, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if cfg.Database.Driver == "postgres" && strings.TrimSpace(cfg.Database.URL) == "" {
		return Config{}, fmt.Errorf("database url is required for postgres")
	}

	return cfg, nil
}

// LoadClient reads the same sources as Load for programs that only talk to
// the API, so store settings are not checked.
func LoadClient() (Config, error) {
	return read()
}

func read() (Config, error) {
	// existing variables win over .env entries
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SIGNUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/signup.db")
	v.SetDefault("database.url", "")
	v.SetDefault("auth.bcryptcost", 10)
	v.SetDefault("auth.hashworkers", runtime.NumCPU())
	v.SetDefault("register.redacthash", false)
	v.SetDefault("form.apiurl", "") // derived from server.addr
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.Form.APIURL) == "" {
		url, err := LocalURL(cfg.Server.Addr)
		if err != nil {
			return Config{}, err
		}
		cfg.Form.APIURL = url
	}

	return cfg, nil
}

// LocalURL turns a listen address into the URL a process on the same host
// dials to reach it. Wildcard hosts map to the IPv4 loopback.
func LocalURL(addr string) (string, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("invalid server addr %q: %w", addr, err)
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port), nil
}
