package main

import (
	"context"
	"fmt"

	"github.com/Victor-cmda/serveon-sub001/internal/adapter/auth"
	"github.com/Victor-cmda/serveon-sub001/internal/adapter/config"
	"github.com/Victor-cmda/serveon-sub001/internal/adapter/handler/http"
	"github.com/Victor-cmda/serveon-sub001/internal/adapter/logger"
	"github.com/Victor-cmda/serveon-sub001/internal/adapter/storage"
	"github.com/Victor-cmda/serveon-sub001/internal/adapter/storage/repository"
	"github.com/Victor-cmda/serveon-sub001/internal/core/domain"
	"github.com/Victor-cmda/serveon-sub001/internal/core/service"
	"go.uber.org/zap"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log := logger.NewLogger(conf.App)
	if log == nil {
		fmt.Printf("error creating log")
		return
	}
	defer func() {
		err := log.Sync()
		if err != nil {
			fmt.Printf("log error: %s", err)
		}
	}()

	ctx := context.Background()

	db, err := storage.NewDBStorage(ctx, conf.Database)
	if err != nil {
		log.Error("database error", zap.Error(err))
		return
	}
	err = db.RunMigrations()
	if err != nil {
		log.Error("database migration error", zap.Error(err))
		return
	}

	repo, err := repository.NewRepository(db)
	if err != nil {
		log.Error("order repo creating error", zap.Error(err))
		return
	}
	tokenService, err := auth.New()
	if err != nil {
		log.Error("token service creating error", zap.Error(err))
		return
	}

	svc, err := service.NewService(repo, tokenService, log.Named("Service"))
	if err != nil {
		log.Error("order service creating error", zap.Error(err))
		return
	}

	salesHandler, err := http.NewOrderHandler(svc, domain.FamilySales, log.Named("Sales handler"))
	if err != nil {
		log.Error("sales handler creating error", zap.Error(err))
		return
	}
	purchasesHandler, err := http.NewOrderHandler(svc, domain.FamilyPurchases, log.Named("Purchases handler"))
	if err != nil {
		log.Error("purchases handler creating error", zap.Error(err))
		return
	}
	referenceHandler, err := http.NewReferenceHandler(svc, log.Named("Reference handler"))
	if err != nil {
		log.Error("reference handler creating error", zap.Error(err))
		return
	}
	authHandler, err := http.NewAuthHandler(svc, log.Named("Auth handler"))
	if err != nil {
		log.Error("auth handler creating error", zap.Error(err))
		return
	}

	r, err := http.NewRouter(conf.HTTP, tokenService,
		salesHandler, purchasesHandler, referenceHandler, authHandler)
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	err = r.Serve(conf.HTTP.HostString)
	if err != nil {
		log.Error("router serve error", zap.Error(err))
		return
	}
}
