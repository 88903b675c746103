package config

import (
	"flag"
	"net"
	"os"
	"strconv"
	"strings"
)

// Flags holds parsed command-line flag values and which were set.
type Flags struct {
	Addr   string
	DB     string
	Config string
	Set    map[string]bool
}

// ParseCommandFlags defines and parses command-line flags and returns
// their values along with a map indicating which were explicitly set.
func ParseCommandFlags() Flags {
	addrPtr := flag.String("addr", ":8080", "HTTP listen address")
	dbPtr := flag.String("db", "./.database", "Pebble DB path")
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	flag.Parse()
	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	return Flags{Addr: *addrPtr, DB: *dbPtr, Config: *cfgPtr, Set: setFlags}
}

// ResolveConfigPath picks the config file path: an explicit flag wins,
// then CAPSULEDB_CONFIG, then the flag default.
func ResolveConfigPath(flagVal string, flagSet bool) string {
	if flagSet {
		return flagVal
	}
	if v := os.Getenv("CAPSULEDB_CONFIG"); v != "" {
		return v
	}
	return flagVal
}

// LoadEffective loads the config file (when present) and overlays
// CAPSULEDB_* environment variables. It returns the merged config and
// whether any environment override was applied.
func LoadEffective(path string) (*Config, bool, error) {
	cfg := &Config{}
	if c, err := Load(path); err == nil {
		cfg = c
	} else if !strings.Contains(err.Error(), "not found") {
		return nil, false, err
	}
	envUsed := applyEnv(cfg)
	return cfg, envUsed, nil
}

func applyEnv(cfg *Config) bool {
	envUsed := false
	parseList := func(v string) []string {
		if v == "" {
			return nil
		}
		var parts []string
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				parts = append(parts, s)
			}
		}
		return parts
	}

	if v := os.Getenv("CAPSULEDB_SERVER_ADDR"); v != "" {
		envUsed = true
		if h, p, err := net.SplitHostPort(v); err == nil {
			cfg.Server.Address = h
			if pi, err := strconv.Atoi(p); err == nil {
				cfg.Server.Port = pi
			}
		} else {
			cfg.Server.Address = v
		}
	}
	if v := os.Getenv("CAPSULEDB_DB_PATH"); v != "" {
		envUsed = true
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("CAPSULEDB_LOG_LEVEL"); v != "" {
		envUsed = true
		cfg.Logging.Level = v
	}
	if v := parseList(os.Getenv("CAPSULEDB_BACKEND_KEYS")); len(v) > 0 {
		envUsed = true
		cfg.Security.APIKeys.Backend = append(cfg.Security.APIKeys.Backend, v...)
	}
	if v := parseList(os.Getenv("CAPSULEDB_FRONTEND_KEYS")); len(v) > 0 {
		envUsed = true
		cfg.Security.APIKeys.Frontend = append(cfg.Security.APIKeys.Frontend, v...)
	}
	if v := parseList(os.Getenv("CAPSULEDB_ADMIN_KEYS")); len(v) > 0 {
		envUsed = true
		cfg.Security.APIKeys.Admin = append(cfg.Security.APIKeys.Admin, v...)
	}
	if v := parseList(os.Getenv("CAPSULEDB_SIGNING_KEYS")); len(v) > 0 {
		envUsed = true
		cfg.Security.SigningKeys = append(cfg.Security.SigningKeys, v...)
	}
	if v := os.Getenv("CAPSULEDB_ALLOW_UNAUTH"); v != "" {
		envUsed = true
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes":
			cfg.Security.APIKeys.AllowUnauth = true
		default:
			cfg.Security.APIKeys.AllowUnauth = false
		}
	}
	if v := os.Getenv("CAPSULEDB_VALIDATION_STRICT"); v != "" {
		envUsed = true
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes":
			cfg.Validation.Strict = true
		default:
			cfg.Validation.Strict = false
		}
	}
	if v := os.Getenv("CAPSULEDB_STATS_CRON"); v != "" {
		envUsed = true
		cfg.Stats.Enabled = true
		cfg.Stats.Cron = v
	}
	return envUsed
}
