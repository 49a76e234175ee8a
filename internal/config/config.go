package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string

	// DB
	Env    string // "dev" | "prod"
	DBPath string // e.g. "./data/custodia.db"

	// Overdue thresholds per asset class.
	VehicleOverdue time.Duration
	KeyOverdue     time.Duration

	// How often the background overdue watcher runs. 0 disables it.
	OverdueScanInterval time.Duration

	// Barcode input timing.
	ScanIdleGap    time.Duration // keystroke gap that resets the wedge buffer
	ScanRearmDelay time.Duration // camera re-arm suppression window
}

func FromEnv() Config {
	addr := getenvDefault("CUSTODIA_HTTP_ADDR", ":8080")

	env := strings.ToLower(getenvDefault("CUSTODIA_ENV", "dev"))
	if env != "dev" && env != "prod" {
		// fail-soft: treat unknown as dev
		env = "dev"
	}

	dbPath := getenvDefault("CUSTODIA_DB_PATH", "./data/custodia.db")

	vehicleHours := getenvInt("CUSTODIA_VEHICLE_OVERDUE_HOURS", 72)
	keyHours := getenvInt("CUSTODIA_KEY_OVERDUE_HOURS", 24)
	scanInterval := getenvInt("CUSTODIA_OVERDUE_SCAN_INTERVAL_MINUTES", 15)

	idleGapMs := getenvInt("CUSTODIA_SCAN_IDLE_GAP_MS", 100)
	rearmSeconds := getenvInt("CUSTODIA_SCAN_REARM_SECONDS", 3)

	return Config{
		HTTPAddr: addr,
		Env:      env,
		DBPath:   dbPath,

		VehicleOverdue:      time.Duration(vehicleHours) * time.Hour,
		KeyOverdue:          time.Duration(keyHours) * time.Hour,
		OverdueScanInterval: time.Duration(scanInterval) * time.Minute,

		ScanIdleGap:    time.Duration(idleGapMs) * time.Millisecond,
		ScanRearmDelay: time.Duration(rearmSeconds) * time.Second,
	}
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
