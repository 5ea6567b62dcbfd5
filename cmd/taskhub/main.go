package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"taskhub/internal/config"
	"taskhub/internal/observability/logging"
	"taskhub/internal/observability/metrics"
	"taskhub/internal/phone"
	"taskhub/internal/service"
	impl "taskhub/internal/service/impl"
	"taskhub/internal/sms"
	"taskhub/internal/store"
	httpx "taskhub/internal/transport/http"
	"taskhub/pkg/db"
)

func main() {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "taskhub",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	logger.Info("starting service")

	cfg := config.Load()
	metrics.MustRegister("taskhub")

	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}
	st := store.New(gdb)

	// Services
	pw := impl.NewPasswordServiceBcrypt(cfg.Pepper)
	otp := impl.NewOtpService(st, cfg.OtpTTL, cfg.OtpLength)
	ts := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     cfg.Issuer,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
		SigningKey: []byte(cfg.SigningKey),
	}, st)

	var gateway service.SmsGateway
	if cfg.TwilioAccountSID != "" {
		gateway = sms.NewTwilioGateway(sms.Config{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			FromNumber: cfg.TwilioFromNumber,
		})
	} else {
		logger.Warn("no twilio credentials, sms gateway logs instead of sending")
		gateway = sms.LogGateway{}
	}

	as := impl.NewAuthServiceImpl(impl.AuthConfig{
		OtpResendWindow:      cfg.OtpResendWindow,
		OtpResendMax:         int64(cfg.OtpResendMax),
		EnforceUniqueMobile:  cfg.EnforceUniqueMobile,
		RequireVerifiedLogin: cfg.RequireVerifiedLogin,
	}, st, pw, otp, ts, gateway, phone.NewValidator(cfg.DefaultPhoneRegion))
	tds := impl.NewTodoServiceImpl(st)

	router := httpx.NewRouter(as, tds, ts)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
