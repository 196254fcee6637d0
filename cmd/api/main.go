package main

import (
	"gallery/internal/config"
	"gallery/internal/domain/model"
	"gallery/internal/handler"
	"gallery/internal/infra/db"
	"gallery/internal/infra/kv"
	"gallery/internal/infra/mpesa"
	infraRepo "gallery/internal/infra/repository"
	"gallery/internal/logging"
	"gallery/internal/server"
	"gallery/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// .envはローカル開発用。なくてもよい
	_ = godotenv.Load()

	log := logging.Init("gallery-api", "./logs/app.log")

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "error", err)
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Error("db connect failed", "error", err)
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.Artwork{},
		&model.Exhibition{},
		&model.User{},
		&model.PushPayment{},
		&model.InvoiceRequest{},
	); err != nil {
		log.Error("migration failed", "error", err)
		panic(err)
	}

	//Redis（カートスナップショット）
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	snapshots := kv.NewRedisSnapshotStore(rdb, 0)

	//Repository（GORM実装）生成
	catalogRepo := infraRepo.NewCatalogGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	pushRepo := infraRepo.NewPushPaymentGormRepository(gormDB)
	invoiceRepo := infraRepo.NewInvoiceGormRepository(gormDB)

	//M-Pesaゲートウェイ
	gateway := mpesa.NewClient(mpesa.Config{
		BaseURL:        cfg.MpesaBaseURL,
		ConsumerKey:    cfg.MpesaConsumerKey,
		ConsumerSecret: cfg.MpesaConsumerSecret,
		ShortCode:      cfg.MpesaShortCode,
		Passkey:        cfg.MpesaPasskey,
		CallbackURL:    cfg.MpesaCallbackURL,
		Timeout:        cfg.MpesaTimeout,
	})

	//Usecase生成
	catalogUC := usecase.NewCatalogUsecase(catalogRepo)
	cartUC := usecase.NewCartUsecase(snapshots, catalogRepo, log)
	checkoutUC := usecase.NewCheckoutUsecase(cartUC, userRepo, gateway, pushRepo, invoiceRepo, log)
	paymentUC := usecase.NewPaymentUsecase(pushRepo, log)

	//Handler生成
	h := server.Handlers{
		Catalog:  handler.NewCatalogHandler(catalogUC),
		Cart:     handler.NewCartHandler(cartUC),
		Checkout: handler.NewCheckoutHandler(checkoutUC),
		Payment:  handler.NewPaymentHandler(paymentUC),
	}

	//Server起動
	e := server.New(cfg, h)
	log.Info("server starting", "port", cfg.Port, "env", cfg.GoEnv)
	if err := server.Start(e, cfg); err != nil {
		log.Error("server stopped", "error", err)
		panic(err)
	}
}
