package log

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "natalchart.log")

	if err := InitWithFile(false, FileOptions{Path: path, MaxSizeMB: 1, MaxBackups: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Infow("chart computed", "status", "success")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"chart computed"`) || !strings.Contains(string(data), `"status":"success"`) {
		t.Errorf("unexpected log file contents: %s", data)
	}
}

func TestComponent(t *testing.T) {
	if Component("assembler") == nil {
		t.Fatal("expected a logger")
	}
}

func TestHTTPMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core).Sugar()

	handler := HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))

	tests := []struct {
		path   string
		status int
		level  zapcore.Level
	}{
		{"/healthz", http.StatusOK, zapcore.InfoLevel},
		{"/fail", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			entries := logs.TakeAll()
			if len(entries) != 1 {
				t.Fatalf("expected 1 log entry, got %d", len(entries))
			}
			e := entries[0]
			if e.Level != tt.level {
				t.Errorf("level = %v, expected %v", e.Level, tt.level)
			}
			fields := e.ContextMap()
			if fields["path"] != tt.path {
				t.Errorf("path = %v, expected %s", fields["path"], tt.path)
			}
			if fields["status"] != int64(tt.status) {
				t.Errorf("status = %v, expected %d", fields["status"], tt.status)
			}
		})
	}
}
