// Command medauth-server exposes the authentication engine over HTTP: it
// accepts identity-verification requests and maps engine error codes onto
// HTTP statuses.
//
// Without REDIS_URL it runs an embedded miniredis; without DATABASE_URL it
// serves two seeded demo records:
//
//	POST /v1/authenticate
//	  {"kind":"medicare_id","identifier":"123-45-6789","secondary_factor":"Rivera"}
//	  {"kind":"npi","identifier":"1457384521"}
//	GET /v1/verify       with Authorization: Bearer <token>
//	GET /healthz
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/caredesk/medauth"
	memorystore "github.com/caredesk/medauth/store/memory"
	pgstore "github.com/caredesk/medauth/store/postgres"
	"github.com/caredesk/medauth/token"
)

type authenticateRequest struct {
	Kind            string `json:"kind"`
	Identifier      string `json:"identifier"`
	SecondaryFactor string `json:"secondary_factor,omitempty"`
}

type authenticateResponse struct {
	Success           bool              `json:"success"`
	Token             string            `json:"token,omitempty"`
	ExpiresAt         string            `json:"expires_at,omitempty"`
	DisplayName       string            `json:"display_name,omitempty"`
	Identifier        string            `json:"identifier,omitempty"`
	ErrorCode         string            `json:"error_code,omitempty"`
	Message           string            `json:"message,omitempty"`
	RetryAfterSeconds int64             `json:"retry_after_seconds,omitempty"`
	Attributes        map[string]string `json:"attributes,omitempty"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.ServerPort = port
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	// ---------- attempt-window backing ----------
	redisURL := cfg.RedisURL
	if redisURL == "" {
		mr, err := miniredis.Run()
		if err != nil {
			log.Fatalf("embedded redis: %v", err)
		}
		defer mr.Close()
		redisURL = "redis://" + mr.Addr()
		logger.Info("no REDIS_URL set, using embedded miniredis", "addr", mr.Addr())
	}
	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("parse redis url: %v", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	// ---------- record store ----------
	var records medauth.RecordStore
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("connect database: %v", err)
		}
		defer pool.Close()
		records = pgstore.New(pool)
		logger.Info("using postgres record store")
	} else {
		records = memorystore.NewStore(
			medauth.CredentialRecord{
				Kind:        medauth.KindMedicareID,
				Identifier:  "123-45-6789",
				LastName:    "Rivera",
				DisplayName: "Maria Rivera",
				Attributes:  map[string]string{"plan": "Medicare Advantage"},
			},
			medauth.CredentialRecord{
				Kind:        medauth.KindNPI,
				Identifier:  "1457384521",
				Status:      "Active",
				DisplayName: "Dr. James Okafor",
			},
		)
		logger.Info("no DATABASE_URL set, using seeded in-memory record store")
	}

	// ---------- audit sink ----------
	var sink medauth.AuditSink
	if cfg.AuditLogPath != "" {
		f, err := os.OpenFile(cfg.AuditLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			log.Fatalf("open audit log: %v", err)
		}
		defer f.Close()
		sink = medauth.NewJSONWriterSink(f)
	} else {
		sink = medauth.NewJSONWriterSink(os.Stdout)
	}

	signingKey := cfg.TokenSigningKey
	if signingKey == "" {
		logger.Warn("TOKEN_SIGNING_KEY not set, using an ephemeral demo key")
		signingKey = "demo-signing-key-0123456789abcdef"
	}
	engineCfg := demoConfig([]byte(signingKey))

	engine, err := medauth.New().
		WithConfig(engineCfg).
		WithRedis(redisClient).
		WithRecordStore(records).
		WithAuditSink(sink).
		WithLogger(logger).
		Build()
	if err != nil {
		log.Fatalf("build engine: %v", err)
	}
	defer engine.Close()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Post("/v1/authenticate", handleAuthenticate(engine))
	r.Get("/v1/verify", handleVerify(engine))

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func demoConfig(signingKey []byte) medauth.Config {
	return medauth.Config{
		Limiter: medauth.LimiterConfig{
			MaxAttempts: 5,
			Window:      15 * time.Minute,
		},
		Token: medauth.TokenConfig{
			SigningKey:     signingKey,
			BeneficiaryTTL: time.Hour,
			ProviderTTL:    24 * time.Hour,
			Issuer:         "medauth",
		},
		Audit: medauth.AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: medauth.MetricsConfig{Enabled: true},
	}
}

func handleAuthenticate(engine *medauth.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authenticateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, authenticateResponse{
				ErrorCode: medauth.CodeInvalidFormat,
				Message:   "request body is not valid JSON",
			})
			return
		}

		ctx := medauth.WithClientIP(r.Context(), r.RemoteAddr)
		result := engine.Authenticate(ctx, medauth.AuthRequest{
			Kind:            medauth.IdentifierKind(strings.TrimSpace(req.Kind)),
			Identifier:      req.Identifier,
			SecondaryFactor: req.SecondaryFactor,
		})

		resp := authenticateResponse{
			Success:   result.Success,
			Token:     result.Token,
			ErrorCode: result.ErrorCode,
			Message:   result.Message,
		}
		if result.Success {
			resp.ExpiresAt = result.ExpiresAt.Format(time.RFC3339)
			if result.Profile != nil {
				resp.Identifier = result.Profile.Identifier
				resp.DisplayName = result.Profile.DisplayName
				resp.Attributes = result.Profile.Attributes
			}
			writeJSON(w, http.StatusOK, resp)
			return
		}

		status := statusForCode(result.ErrorCode)
		if result.ErrorCode == medauth.CodeRateLimitExceeded {
			seconds := int64(result.RetryAfter / time.Second)
			if seconds < 1 {
				seconds = 1
			}
			resp.RetryAfterSeconds = seconds
			w.Header().Set("Retry-After", strconv.FormatInt(seconds, 10))
		}
		writeJSON(w, status, resp)
	}
}

func handleVerify(engine *medauth.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		tokenStr := strings.TrimPrefix(auth, "Bearer ")
		if tokenStr == "" || tokenStr == auth {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			return
		}

		claims, err := engine.VerifyToken(tokenStr)
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, token.ErrExpiredToken) {
				status = http.StatusForbidden
			}
			writeJSON(w, status, map[string]string{"error": "token rejected"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"identifier": claims.Subject,
			"kind":       claims.Kind,
			"expires_at": claims.ExpiresAt.Time.Format(time.RFC3339),
		})
	}
}

func statusForCode(code string) int {
	switch code {
	case medauth.CodeMissingCredentials, medauth.CodeInvalidFormat:
		return http.StatusBadRequest
	case medauth.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case medauth.CodeInactiveAccount:
		return http.StatusForbidden
	case medauth.CodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case medauth.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
