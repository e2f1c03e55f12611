package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/AngelCh415/ads-driver/internal/models"
)

// Timeout bounds the whole downstream pipeline. The handler writes into a
// buffer; whichever of completion or deadline comes first decides the single
// response. A deadline produces 408 with {"detail": detail} and later writes
// from the handler are dropped. Handler panics become a 500 JSON error.
func Timeout(d time.Duration, detail string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			r = r.WithContext(ctx)

			tw := &timeoutWriter{h: make(http.Header), code: http.StatusOK}
			done := make(chan struct{})
			panicked := make(chan any, 1)
			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case p := <-panicked:
				tw.mu.Lock()
				tw.abandoned = true
				tw.mu.Unlock()
				log.Error("handler panic", slog.String("rid", RID(ctx)), slog.String("panic", fmt.Sprint(p)))
				WriteError(w, http.StatusInternalServerError, "internal server error")
			case <-done:
				tw.mu.Lock()
				defer tw.mu.Unlock()
				dst := w.Header()
				for k, vv := range tw.h {
					dst[k] = vv
				}
				w.WriteHeader(tw.code)
				_, _ = w.Write(tw.buf.Bytes())
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.abandoned = true
				log.Warn("request timed out", slog.String("rid", RID(ctx)), slog.String("path", r.URL.Path), slog.Duration("limit", d))
				WriteError(w, http.StatusRequestTimeout, detail)
			}
		})
	}
}

// WriteError writes the fixed-shape JSON error body.
func WriteError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.ErrorBody{Detail: detail})
}

type timeoutWriter struct {
	mu          sync.Mutex
	h           http.Header
	buf         bytes.Buffer
	code        int
	wroteHeader bool
	abandoned   bool
}

func (tw *timeoutWriter) Header() http.Header { return tw.h }

func (tw *timeoutWriter) Write(p []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.abandoned {
		return 0, http.ErrHandlerTimeout
	}
	if !tw.wroteHeader {
		tw.wroteHeader = true
	}
	return tw.buf.Write(p)
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.abandoned || tw.wroteHeader {
		return
	}
	tw.wroteHeader = true
	tw.code = code
}
