// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ailink-app/diagnostico/auth"
	"github.com/ailink-app/diagnostico/models"
)

// pruneThreshold bounds the client map; expired windows are swept once the
// map grows past it.
const pruneThreshold = 4096

type clientWindow struct {
	count       int
	windowStart time.Time
}

// RateLimiter enforces a fixed-window request quota per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	message string
	salt    string
	clients map[string]*clientWindow
}

// NewRateLimiter returns a limiter allowing max requests per window.
// The message is returned verbatim to throttled clients; salt is used to
// hash IPs before they reach the logs.
func NewRateLimiter(max int, window time.Duration, message, salt string) *RateLimiter {
	return &RateLimiter{
		max:     max,
		window:  window,
		message: message,
		salt:    salt,
		clients: make(map[string]*clientWindow),
	}
}

// Allow reports whether a request from ip fits in its current window.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	cw, ok := rl.clients[ip]
	if !ok || now.Sub(cw.windowStart) >= rl.window {
		if len(rl.clients) > pruneThreshold {
			rl.prune(now)
		}
		rl.clients[ip] = &clientWindow{count: 1, windowStart: now}
		return true
	}

	if cw.count >= rl.max {
		return false
	}
	cw.count++
	return true
}

// prune removes expired windows. Caller must hold rl.mu.
func (rl *RateLimiter) prune(now time.Time) {
	for ip, cw := range rl.clients {
		if now.Sub(cw.windowStart) >= rl.window {
			delete(rl.clients, ip)
		}
	}
}

// Wrap applies the limiter to a handler, responding 429 when the quota
// is exhausted.
func (rl *RateLimiter) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := GetClientIP(r)
		if !rl.Allow(ip) {
			slog.Warn("Rate limit exceeded",
				"ip_hash", auth.HashIP(ip, rl.salt),
				"path", r.URL.Path,
			)
			JSONResponse(w, http.StatusTooManyRequests, models.RateLimitResponse{
				Status:  http.StatusTooManyRequests,
				Message: rl.message,
			})
			return
		}
		next(w, r)
	}
}
