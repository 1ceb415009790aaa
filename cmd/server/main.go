package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/stewardship-hub/internal/config"
	"github.com/iliyamo/stewardship-hub/internal/database"
	"github.com/iliyamo/stewardship-hub/internal/handler"
	"github.com/iliyamo/stewardship-hub/internal/mailer"
	"github.com/iliyamo/stewardship-hub/internal/queue"
	"github.com/iliyamo/stewardship-hub/internal/repository"
	"github.com/iliyamo/stewardship-hub/internal/router"
	"github.com/iliyamo/stewardship-hub/internal/service"
)

func main() {
	_ = godotenv.Load() // optional .env; real env vars win
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db, cfg.DB.Driver); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	}

	// ---- Repositories ----
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	teams := repository.NewTeamRepo(db)
	semesters := repository.NewSemesterRepo(db)
	purchases := repository.NewPurchaseRepo(db)
	shopping := repository.NewShoppingRepo(db)
	suggestions := repository.NewSuggestionRepo(db)
	verifications := repository.NewVerificationRepo(db)

	// ---- Services ----
	events := service.NewPublisher(cfg.AMQPURL)
	dash := &service.Dashboard{
		Semester:      semesters,
		Purchases:     purchases,
		Shopping:      shopping,
		Suggestions:   suggestions,
		Verifications: verifications,
	}
	approver := &service.Approver{
		Verifications: verifications,
		Teams:         teams,
		Users:         users,
		Events:        events,
		MembersTeamID: cfg.MembersTeamID,
	}

	// ---- HTTP ----
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				log.Printf("%s %s -> %d (%s) err=%v", v.Method, v.URI, v.Status, v.Latency, v.Error)
				return nil
			}
			log.Printf("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	guards := router.Guards{
		JWTSecret: cfg.JWTSecret,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
	}
	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens, teams, verifications), guards)
	router.RegisterMember(e, &handler.MemberHandler{
		Purchases:   purchases,
		Shopping:    shopping,
		Suggestions: suggestions,
		Dashboard:   dash,
	}, guards)
	router.RegisterAdmin(e, &handler.AdminHandler{
		Semester:      semesters,
		Purchases:     purchases,
		Shopping:      shopping,
		Suggestions:   suggestions,
		Verifications: verifications,
		Dashboard:     dash,
		Approver:      approver,
		Events:        events,
		Loc:           cfg.Location,
	}, guards)

	// ---- Event consumer ----
	if cfg.ConsumeEvents && cfg.AMQPURL != "" {
		h := &queue.Handler{LogDir: "logs", Mailer: mailer.New(ctx, cfg.AWSRegion, cfg.SESSender)}
		go func() {
			if err := queue.StartEventConsumer(ctx, cfg.AMQPURL, h); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("event-consumer: stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DB.Driver)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
