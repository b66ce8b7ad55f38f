package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()
	cfg := mustConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	app, err := newApp(ctx, cfg)
	if err != nil {
		log.Fatal("mongo connect error: ", err)
	}
	defer app.close(context.Background())

	// Acquire the Sentinel Hub credential once at startup. A failure here
	// leaves the placeholder token in place; process requests made with it
	// will surface upstream auth errors instead.
	if err := app.sentinel.Refresh(ctx); err != nil {
		log.Warnf("sentinel token acquisition failed, using placeholder credential: %v", err)
	}

	if cfg.RasterEngine {
		log.Info("raster engine enabled, NDVI statistics computed from pixels")
	} else {
		log.Info("raster engine unavailable, NDVI statistics use labeled estimates")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("AgriFlow API listening on :" + cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
