package config

import (
	"os"
	"strconv"
)

const (
	DefaultTimeZone    = "Asia/Ho_Chi_Minh"
	DefaultStorageRoot = "./FilesXuLyNo"

	// MaxUploadBytes caps a single multipart request body.
	MaxUploadBytes = 50 << 20

	// Staged files older than this many minutes with no relocation are
	// considered orphaned and swept.
	DefaultTempSweepAfterMinutes = 120

	// DefaultTempSweepSchedule runs the orphan sweeper every 30 minutes.
	DefaultTempSweepSchedule = "*/30 * * * *"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// StorageRoot is the base directory all case documents live under.
func StorageRoot() string {
	return getEnv("XLN_STORAGE_ROOT", DefaultStorageRoot)
}

func GatewayPort() string {
	return getEnv("XLN_GATEWAY_PORT", "3143")
}

func CasesPort() string {
	return getEnv("XLN_CASES_PORT", "6143")
}

func DashPort() string {
	return getEnv("XLN_DASH_PORT", "4143")
}

func UsersPort() string {
	return getEnv("XLN_USERS_PORT", "5143")
}

func TempSweepSchedule() string {
	return getEnv("XLN_TEMP_SWEEP_SCHEDULE", DefaultTempSweepSchedule)
}

func TempSweepAfterMinutes() int {
	return getEnvInt("XLN_TEMP_SWEEP_AFTER_MINUTES", DefaultTempSweepAfterMinutes)
}

func MaxSessionUsers() int {
	return getEnvInt("XLN_MAX_SESSION_USERS", 200)
}
