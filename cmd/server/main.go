// cmd/server/main.go
package main

import (
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/dhihaei/gameserver/internal/broadcast"
	"github.com/dhihaei/gameserver/internal/config"
	"github.com/dhihaei/gameserver/internal/coordinator"
	"github.com/dhihaei/gameserver/internal/game"
	"github.com/dhihaei/gameserver/internal/handlers"
	"github.com/dhihaei/gameserver/internal/sponsor"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	sponsors, err := sponsor.Load(logger, cfg.SponsorPath)
	if err != nil {
		// The sponsor subsystem must never block gameplay; run without it.
		logger.Warnf("sponsor config unavailable: %v", err)
		sponsors = nil
	}

	types := game.NewRegistry(game.Options{
		ConfirmWindow:  cfg.ConfirmWindow,
		QuickMatchSize: cfg.QuickMatchSize,
	})

	router := broadcast.NewRouter(logger)
	coord := coordinator.New(logger, router, types, coordinator.SpectatorPolicy(cfg.SpectatorPolicy))

	handler := handlers.NewRouter(logger, coord, router, sponsors)

	logger.Infof("dhihaei server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
