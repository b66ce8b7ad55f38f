package main

import (
	"os"
	"time"
)

type Config struct {
	MongoURI string
	MongoDB  string

	SentinelClientID     string
	SentinelClientSecret string
	SentinelTokenURL     string
	SentinelProcessURL   string
	SentinelTimeout      time.Duration

	// RasterEngine gates true pixel statistics. When false the stats
	// endpoints return labeled estimates instead of measured values.
	RasterEngine bool

	JWTSecret string
	Port      string
}

func mustConfig() Config {
	cfg := Config{
		MongoURI:             getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:              getenv("MONGO_DB", "agriflow"),
		SentinelClientID:     getenv("SENTINEL_CLIENT_ID", ""),
		SentinelClientSecret: getenv("SENTINEL_CLIENT_SECRET", ""),
		SentinelTokenURL:     getenv("SENTINEL_OAUTH_URL", "https://services.sentinel-hub.com/oauth/token"),
		SentinelProcessURL:   getenv("SENTINEL_PROCESS_URL", "https://services.sentinel-hub.com/api/v1/process"),
		SentinelTimeout:      getenvDuration("SENTINEL_TIMEOUT", 25*time.Second),
		RasterEngine:         getenvBool("RASTER_ENGINE", false),
		JWTSecret:            getenv("JWT_SECRET", "change_me"),
		Port:                 getenv("PORT", "8080"),
	}

	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
