package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-booking/internal/booking"
	"github.com/iliyamo/flight-seat-booking/internal/config"
	"github.com/iliyamo/flight-seat-booking/internal/database"
	"github.com/iliyamo/flight-seat-booking/internal/handler"
	"github.com/iliyamo/flight-seat-booking/internal/middleware"
	"github.com/iliyamo/flight-seat-booking/internal/queue"
	"github.com/iliyamo/flight-seat-booking/internal/repository"
	"github.com/iliyamo/flight-seat-booking/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	airports := repository.NewAirportRepo(db)
	airplaneTypes := repository.NewAirplaneTypeRepo(db)
	airplanes := repository.NewAirplaneRepo(db)
	routes := repository.NewRouteRepo(db)
	crew := repository.NewCrewRepo(db)
	flights := repository.NewFlightRepo(db)
	orders := repository.NewOrderRepo(db)

	svc := booking.NewService(flights, orders)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	adminH := handler.NewAdminHandler(airports, airplaneTypes, airplanes, routes, crew, flights)
	browseH := handler.NewBrowseHandler(airports, airplaneTypes, airplanes, routes, crew, flights, svc)
	orderH := handler.NewOrderHandler(svc, orders)

	e := echo.New()
	e.HideBanner = true

	// Redis is optional: without it the limiter and cache middlewares
	// become pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	respCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)
	router.RegisterBrowse(e, browseH, cfg.JWTSecret, respCache)
	router.RegisterOrders(e, orderH, cfg.JWTSecret)

	// Background consumer appends confirmed orders to logs/orders.log.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
