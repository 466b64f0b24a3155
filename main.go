package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/api"
	"github.com/rpupo63/portfolio-site-backend/auth"
	"github.com/rpupo63/portfolio-site-backend/cache"
	"github.com/rpupo63/portfolio-site-backend/config"
	"github.com/rpupo63/portfolio-site-backend/database"
	"github.com/rpupo63/portfolio-site-backend/events"
	"github.com/rpupo63/portfolio-site-backend/storage"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// `portfolio hash-password <plaintext>` prints a value for ADMIN_PASSWORD_HASH.
	if len(os.Args) == 3 && os.Args[1] == "hash-password" {
		hash, err := auth.HashPassword(os.Args[2], 0)
		if err != nil {
			log.Fatal().Err(err).Msg("hashing password")
		}
		fmt.Println(hash)
		return
	}

	log.Info().Msg("Initializing app...")

	c := config.Load()
	if err := config.OverlaySSM(context.Background(), c); err != nil {
		log.Fatal().Err(err).Msg("loading parameters from SSM")
	}

	if level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	db, err := database.Open(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	if config.GetBool(c, "AUTO_MIGRATE", false) {
		log.Info().Msg("Running migrations...")
		if err := database.New(db).Migrate(); err != nil {
			log.Fatal().Err(err).Msg("Error migrating database")
		}
	}

	bus := events.NewBus()
	readCache := cache.New(newCacheStore(c), config.GetSeconds(c, "CACHE_TTL_SECONDS", 300))
	readCache.InvalidateAll(context.Background())
	defer readCache.Subscribe(bus)()

	currentDB := database.New(db,
		database.WithCache(readCache),
		database.WithEvents(bus),
		database.WithTimeout(config.GetSeconds(c, "REMOTE_TIMEOUT_SECONDS", 15)),
	)

	store, uploadsDir, err := newObjectStore(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring object storage")
	}

	sessions, err := newSessions(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring admin sessions")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(c, api.Deps{
		Database:   currentDB,
		Sessions:   sessions,
		Store:      store,
		UploadsDir: uploadsDir,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

func newCacheStore(c map[string]string) cache.Store {
	addr := config.GetString(c, "REDIS_ADDR", "")
	if addr == "" {
		return cache.NewMemoryStore()
	}
	log.Info().Str("addr", addr).Msg("Using redis read cache")
	client := cache.NewRedisClient(addr, config.GetString(c, "REDIS_PASSWORD", ""), config.GetInt(c, "REDIS_DB", 0))
	return cache.NewRedisStore(client)
}

// newObjectStore returns the configured store and, for the local driver, the
// directory the server should expose under /uploads/.
func newObjectStore(c map[string]string) (storage.Store, string, error) {
	switch driver := config.GetString(c, "STORAGE_DRIVER", "s3"); driver {
	case "local":
		root := config.GetString(c, "STORAGE_LOCAL_DIR", "uploads")
		base := config.GetString(c, "STORAGE_PUBLIC_BASE_URL", "/uploads")
		return storage.NewLocalStore(root, base), root, nil
	case "s3":
		store, err := storage.NewS3Store(context.Background(), storage.S3Config{
			Region:          config.GetString(c, "STORAGE_REGION", "us-east-1"),
			Endpoint:        config.GetString(c, "STORAGE_ENDPOINT", ""),
			AccessKeyID:     config.GetString(c, "STORAGE_ACCESS_KEY_ID", ""),
			SecretAccessKey: config.GetString(c, "STORAGE_SECRET_ACCESS_KEY", ""),
			PublicBaseURL:   config.GetString(c, "STORAGE_PUBLIC_BASE_URL", ""),
		})
		return store, "", err
	default:
		return nil, "", fmt.Errorf("unsupported STORAGE_DRIVER %q", driver)
	}
}

func newSessions(c map[string]string) (*auth.Sessions, error) {
	tokens, err := auth.NewTokenService(config.GetString(c, "SESSION_SECRET", ""))
	if err != nil {
		return nil, err
	}
	admin := auth.Credentials{
		Email:        config.GetString(c, "ADMIN_EMAIL", ""),
		PasswordHash: config.GetString(c, "ADMIN_PASSWORD_HASH", ""),
	}
	if admin.Email == "" || admin.PasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD_HASH must be set")
	}
	return auth.NewSessions(tokens, admin, config.GetSeconds(c, "SESSION_TTL_SECONDS", 12*60*60)), nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
