package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/controle-validade/internal/application/dashboard"
	"github.com/jhoicas/controle-validade/internal/application/ports"
	"github.com/jhoicas/controle-validade/internal/application/query"
	"github.com/jhoicas/controle-validade/internal/infrastructure/cache"
	"github.com/jhoicas/controle-validade/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/controle-validade/internal/infrastructure/pdf"
	"github.com/jhoicas/controle-validade/internal/infrastructure/postgres"
	"github.com/jhoicas/controle-validade/internal/infrastructure/supabase"
	httpRouter "github.com/jhoicas/controle-validade/internal/interfaces/http"
	"github.com/jhoicas/controle-validade/pkg/config"
	"github.com/jhoicas/controle-validade/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Backend.Driver).
		Str("cache", cfg.Cache.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var backend ports.ProductBackend
	switch cfg.Backend.Driver {
	case config.DriverSupabase:
		backend = supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, cfg.Supabase.Timeout, log)
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		backend = postgres.NewProductBackend(pool)
	case config.DriverMemory:
		mem := memory.New()
		seedDemo(mem, time.Now())
		backend = mem
	}

	// Cada usuario tiene su propia caché: sus lecturas dependen de sus políticas en el backend.
	newStore := func(userID string) query.Store { return cache.NewMemoryStore() }
	if cfg.Cache.Store == config.StoreRedis {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		newStore = func(userID string) query.Store {
			return cache.NewRedisStore(rdb, "cv:"+userID+":", cfg.Cache.Retention)
		}
	}

	reports := infrapdf.NewMarotoReportGenerator()
	sessions := dashboard.NewSessions(func(u dashboard.Identity) *dashboard.Dashboard {
		c := query.NewCache(newStore(u.UserID),
			query.WithStaleTime(cfg.Cache.StaleTime),
			query.WithLogger(log),
		)
		return dashboard.New(u, backend, c,
			dashboard.WithReports(reports),
			dashboard.WithLogger(log),
		)
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: cfg.App.DocsPath,
		Path:     "docs",
		Title:    "Controle de Validade API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions: sessions,
		Auth: httpRouter.AuthConfig{
			Secret:           cfg.JWT.Secret,
			Issuer:           cfg.JWT.Issuer,
			AllowDevIdentity: cfg.App.IsDevelopment(),
		},
		Logger: log,
	})

	sweepCtx, stopSweep := context.WithCancel(ctx)
	go sweepSessions(sweepCtx, sessions, cfg.Session.IdleTimeout, log)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	sessions.Wait()

	log.Info().Msg("aplicación detenida")
}

// sweepSessions descarta periódicamente las sesiones sin uso durante idle.
func sweepSessions(ctx context.Context, sessions *dashboard.Sessions, idle time.Duration, log *logger.Logger) {
	t := time.NewTicker(idle / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := sessions.Sweep(idle); n > 0 {
				log.Info().Int("closed", n).Int("open", sessions.Len()).Msg("sesiones inactivas cerradas")
			}
		}
	}
}
