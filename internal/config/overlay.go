// config/overlay.go
package config

import (
	"os"
	"strconv"
	"strings"
)

// OverlayEnv lets the deployment override file settings. A mounted volume
// (RAILWAY_VOLUME_MOUNT_PATH) wins over JOBFEED_DATA_DIR.
func OverlayEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("JOBFEED_DATA_DIR")); v != "" {
		cfg.App.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("RAILWAY_VOLUME_MOUNT_PATH")); v != "" {
		cfg.App.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("JOBFEED_PORT")); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = p
		}
	}
	if v := strings.TrimSpace(os.Getenv("JOBFEED_BIND")); v != "" {
		cfg.App.Bind = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		cfg.Cache.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("JOBFEED_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
}
