package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"stem-orders/app"
	"stem-orders/config"
)

var (
	router  *gin.Engine
	initErr error
	once    sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg, err := config.LoadConfig()
		if err != nil {
			initErr = err
			return
		}
		config.SetupLogger(cfg.AppEnv, cfg.LogLevel)

		application, err := app.New(context.Background(), cfg)
		if err != nil {
			initErr = err
			return
		}
		router = application.Router
	})
}

// Handler is the serverless entry point. The router is built on the first
// request and reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		log.Error().Err(initErr).Msg("Application failed to initialize")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	router.ServeHTTP(w, r)
}
