package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/georgemunganga/supply-storefront/internal/config"
	"github.com/georgemunganga/supply-storefront/internal/database"
	"github.com/georgemunganga/supply-storefront/internal/middleware"
	"github.com/georgemunganga/supply-storefront/internal/modules/auth"
	"github.com/georgemunganga/supply-storefront/internal/modules/cart"
	"github.com/georgemunganga/supply-storefront/internal/modules/catalog"
	"github.com/georgemunganga/supply-storefront/internal/modules/customer"
	"github.com/georgemunganga/supply-storefront/internal/modules/order"
	"github.com/georgemunganga/supply-storefront/internal/modules/pricing"
	"github.com/georgemunganga/supply-storefront/internal/modules/promotion"
	"github.com/georgemunganga/supply-storefront/internal/modules/venue"
	"github.com/georgemunganga/supply-storefront/internal/notify"
	"github.com/georgemunganga/supply-storefront/internal/session"
)

func main() {
	decimal.MarshalJSONWithoutQuotes = true

	root := &cobra.Command{
		Use:          "storefront",
		Short:        "Restaurant supply storefront API",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), migrateCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := database.Open(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			log.Println("schema applied")
			return nil
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, migrate bool) error {
	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Println("connected to the database")

	if migrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	}

	// ── Outbound integrations ───────────────────────────────
	var mailer notify.Mailer
	if cfg.SMTP.Host != "" {
		mailer = notify.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	} else {
		log.Println("SMTP_HOST not set, mail is logged instead of sent")
		mailer = notify.NewLogMailer()
	}

	var sms notify.SMSSender
	if cfg.SMS.AccountSID != "" {
		sms = notify.NewTwilioSMS(cfg.SMS.BaseURL, cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.From)
	} else {
		sms = notify.NewLogSMS()
	}

	var forwarder order.Forwarder
	if cfg.Orders.BaseURL != "" {
		forwarder = order.NewHTTPForwarder(cfg.Orders.BaseURL, cfg.Orders.APIKey)
	} else {
		forwarder = order.NewLogForwarder()
	}

	prices := pricing.NewFetcher(
		pricing.NewHTTPClient(cfg.Pricing.BaseURL, cfg.Pricing.APIKey, cfg.Pricing.Timeout),
		cfg.Pricing.BatchSize, cfg.Pricing.BatchDelay)
	issuer := session.NewIssuer(cfg.JWTSecret, cfg.SessionTTL)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(middleware.Authenticate(issuer))
	router.Use(middleware.APIKey(cfg.APIKeyHash, "/api/customers", "/api/products", "/api/venue-products"))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	// ── Customers & sign-in ─────────────────────────────────
	customerService := customer.NewService(customer.NewPostgresRepository(db), sms)
	customer.NewHandler(customerService).RegisterRoutes(router)

	authService := auth.NewService(customerService, auth.NewPostgresCodeRepository(db), mailer, issuer, cfg.OTPTTL)
	auth.NewHandler(authService).RegisterRoutes(router)

	// ── Catalog, venues & pricing ───────────────────────────
	catalog.NewHandler(catalog.NewService(catalog.NewPostgresRepository(db))).RegisterRoutes(router)
	venue.NewHandler(venue.NewService(venue.NewPostgresRepository(db), prices)).RegisterRoutes(router)
	pricing.NewHandler(prices).RegisterRoutes(router)

	// ── Cart & orders ───────────────────────────────────────
	cartService := cart.NewService(cart.NewPostgresRepository(db), prices, customerService, mailer, cfg.SMTP.OrderTo, forwarder)
	cart.NewHandler(cartService).RegisterRoutes(router)

	promotion.NewHandler(promotion.NewService(promotion.NewPostgresRepository(db))).RegisterRoutes(router)

	// ── Start Server ────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Printf("storefront API listening on :%s", cfg.Port)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
