package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"

	apihttp "transit-registry/internal/api/http"
	"transit-registry/internal/audit"
	"transit-registry/internal/auth"
	"transit-registry/internal/credentials"
	"transit-registry/internal/observability/metrics"
	"transit-registry/internal/protocol"
	"transit-registry/internal/registry/application"
	registrypg "transit-registry/internal/registry/infrastructure/postgres"
	"transit-registry/internal/server"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}
	if err := registrypg.Migrate(context.Background(), db); err != nil {
		logger.Fatalf("db migrate error: %v", err)
	}

	metrics.Init()

	hasher, err := credentials.NewHasherFromFile(cfg.SaltPath)
	if err != nil {
		logger.Fatalf("credentials error: %v", err)
	}

	gateway, err := application.NewGateway(
		registrypg.NewAccountRepository(db),
		registrypg.NewRegionRepository(db),
		registrypg.NewStationRepository(db),
	)
	if err != nil {
		logger.Fatalf("gateway error: %v", err)
	}

	router, err := protocol.NewRouter(gateway, hasher, credentials.NewToken, logger,
		protocol.WithAuditor(audit.NewRepository(db)),
		protocol.WithApprovalReset(cfg.ApprovalResetOnEdit),
	)
	if err != nil {
		logger.Fatalf("router error: %v", err)
	}

	supervisor, err := server.NewSupervisor(router, logger)
	if err != nil {
		logger.Fatalf("supervisor error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	middleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	adminMux := http.NewServeMux()
	adminMux.Handle("/healthz", apihttp.NewHealthHandler())
	adminMux.Handle("/metrics", promhttp.Handler())
	adminMux.Handle("/admin/exports/stations.xlsx", apihttp.NewExportStationsXLSXHandler(gateway, logger))
	adminMux.Handle("/admin/exports/regions.pdf", apihttp.NewExportRegionsPDFHandler(gateway, logger))

	adminServer := &http.Server{Addr: cfg.AdminAddr, Handler: middleware.Wrap(adminMux)}
	go func() {
		logger.Printf("admin interface listening on %s", cfg.AdminAddr)
		logger.Fatal(adminServer.ListenAndServe())
	}()

	wsServer := &http.Server{Addr: cfg.ListenAddr, Handler: supervisor}
	logger.Printf("command channel listening on %s", cfg.ListenAddr)
	logger.Fatal(wsServer.ListenAndServe())
}

type config struct {
	ListenAddr          string `yaml:"listen_addr"`
	AdminAddr           string `yaml:"admin_addr"`
	DatabaseURL         string `yaml:"database_url"`
	SaltPath            string `yaml:"salt_path"`
	JWTSecret           string `yaml:"jwt_secret"`
	ApprovalResetOnEdit bool   `yaml:"approval_reset_on_edit"`
}

func loadConfig() config {
	cfg := config{
		ListenAddr:          getenvDefault("LISTEN_ADDR", ":8080"),
		AdminAddr:           getenvDefault("ADMIN_ADDR", ":8081"),
		DatabaseURL:         getenvDefault("DATABASE_URL", ""),
		SaltPath:            getenvDefault("SALT_PATH", "/run/secrets/registry_salt"),
		JWTSecret:           getenvDefault("AUTH_JWT_SECRET", ""),
		ApprovalResetOnEdit: getenvBoolDefault("APPROVAL_RESET_ON_EDIT", true),
	}

	if path := os.Getenv("REGISTRY_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("config read error: %v", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("config parse error: %v", err)
		}
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvBoolDefault(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
