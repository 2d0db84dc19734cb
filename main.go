package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/waste-point/web-go/config"
	"github.com/waste-point/web-go/repository"
	"github.com/waste-point/web-go/routes"
	"github.com/waste-point/web-go/services"
	"github.com/waste-point/web-go/session"
	"github.com/waste-point/web-go/uploads"
	"gorm.io/gorm"
)

func main() {
	// Set up logging to stdout
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	promoteAdmin := flag.String("promote-admin", "", "grant the admin role to the user with this email and exit")
	pruneUploads := flag.Bool("prune-uploads", false, "delete uploads that no report references and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.InsecureSecret() && cfg.CookieSecure {
		log.Fatal("SESSION_SECRET must be set when COOKIE_SECURE is enabled")
	}

	db, err := config.InitDB(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	ctx := context.Background()
	files, err := uploads.NewFileStore(ctx, cfg.Upload)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	users := repository.NewUserRepository(db)
	switch {
	case *promoteAdmin != "":
		if err := users.PromoteToAdmin(ctx, *promoteAdmin); err != nil {
			log.Fatalf("Failed to promote %s: %v", *promoteAdmin, err)
		}
		log.Printf("%s is now an admin", *promoteAdmin)
		return
	case *pruneUploads:
		removed, err := services.PruneUploads(ctx, repository.NewReportRepository(db), files)
		if err != nil {
			log.Fatalf("Failed to prune uploads: %v", err)
		}
		log.Printf("Removed %d orphaned uploads", len(removed))
		return
	}

	for _, email := range cfg.Admins {
		if err := users.PromoteToAdmin(ctx, email); err != nil {
			log.Printf("Could not promote configured admin %s: %v", email, err)
		}
	}

	store, err := sessionStore(ctx, cfg, db)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}

	r := routes.NewRouter(routes.Dependencies{
		DB:           db,
		Sessions:     session.NewManager(store, cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure),
		Files:        files,
		Google:       config.NewGoogleConfig(cfg.Google),
		WasteTypes:   cfg.WasteTypes,
		CSRFKey:      []byte(cfg.CSRFKey),
		CookieSecure: cfg.CookieSecure,
	})
	if cfg.CSRFKey == "" {
		log.Println("WARNING: CSRF_KEY not set, forms are not CSRF protected")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Starting server on port %s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server stopped: %v", err)
	}
}

// sessionStore prefers Redis when REDIS_ADDR is set.
func sessionStore(ctx context.Context, cfg *config.Config, db *gorm.DB) (session.Store, error) {
	if cfg.Redis.Addr == "" {
		return session.NewGormStore(db), nil
	}
	client, err := session.DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	log.Printf("Using Redis session store at %s", cfg.Redis.Addr)
	return session.NewRedisStore(client), nil
}
