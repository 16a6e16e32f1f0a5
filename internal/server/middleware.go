package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/desertthunder/tunebase/internal/auth"
	"github.com/desertthunder/tunebase/internal/shared"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID reuses the caller's X-Request-ID or generates one, exposing it on the context and the response.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		})
	}
}

// requestIDFrom returns the id stored by [RequestID].
func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// AccessLog logs one line per request with its status and latency.
func AccessLog(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			shared.WithLogger(logger, "request_id", requestIDFrom(r.Context())).Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

// Recover turns a panic in a handler into a logged 500.
func Recover(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					logger.Error("panic", "error", v, "path", r.URL.Path, "request_id", requestIDFrom(r.Context()))
					writeMessage(w, http.StatusInternalServerError, "Server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// CORS allows browser clients from origins. An empty list allows any origin.
func CORS(origins []string) Middleware {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	})
	return c.Handler
}

// RequireAuth rejects requests without a valid bearer token and stores the user id on the context.
func RequireAuth(tokens *auth.TokenService, logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.ExtractBearer(r.Header.Get("Authorization"))
			if err == nil {
				var claims *auth.Claims
				if claims, err = tokens.Verify(token); err == nil {
					next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), claims.UserID)))
					return
				}
			}

			msg, _ := shared.Message(err)
			logger.Warn("rejected request", "reason", msg, "method", r.Method, "path", r.URL.Path,
				"request_id", requestIDFrom(r.Context()))
			writeMessage(w, http.StatusUnauthorized, msg)
		})
	}
}

// RateLimit allows each client address rps requests per second with the given burst.
// A non-positive rps disables limiting.
func RateLimit(rps float64, burst int) Middleware {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}

	limiters := newClientLimiters(rate.Limit(rps), burst, 10*time.Minute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.get(clientIP(r)).Allow() {
				writeMessage(w, http.StatusTooManyRequests, "Too many requests.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters keeps one token bucket per client, dropping buckets idle longer than ttl.
type clientLimiters struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
}

func newClientLimiters(limit rate.Limit, burst int, ttl time.Duration) *clientLimiters {
	return &clientLimiters{
		limiters:  make(map[string]*clientLimiter),
		limit:     limit,
		burst:     burst,
		ttl:       ttl,
		lastSweep: time.Now(),
	}
}

func (c *clientLimiters) get(key string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if now.Sub(c.lastSweep) > c.ttl {
		for k, l := range c.limiters {
			if now.Sub(l.lastSeen) > c.ttl {
				delete(c.limiters, k)
			}
		}
		c.lastSweep = now
	}

	l, ok := c.limiters[key]
	if !ok {
		l = &clientLimiter{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.limiters[key] = l
	}
	l.lastSeen = now
	return l.limiter
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
