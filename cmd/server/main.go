package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/diewo77/lavanderia-app/internal/config"
	"github.com/diewo77/lavanderia-app/internal/db"
	"github.com/diewo77/lavanderia-app/internal/server"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()

	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if config.ParseBool("DEBUG", false) {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Load()
	dbConn, err := db.Connect(cfg.DatabaseDSN, log)
	if err != nil {
		log.WithError(err).Fatal("error de conexión a la BD")
	}
	if *migrateOnlyFlag {
		log.Info("migrations completed; exiting as requested")
		return
	}

	log.WithFields(logrus.Fields{"env": cfg.Env, "port": cfg.Port}).Info("starting server")
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: server.New(dbConn, cfg, log)}

	go func() {
		log.Infof("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
	log.Info("server gracefully stopped")
}
