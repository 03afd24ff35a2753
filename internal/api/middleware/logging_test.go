package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestRequestLogger_StatusLevels — уровень записи зависит от статуса ответа:
// 2xx — INFO, 4xx — WARN, 5xx — ERROR.
func TestRequestLogger_StatusLevels(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"успешный запрос", http.StatusOK, "INFO"},
		{"конфликт", http.StatusConflict, "WARN"},
		{"серверная ошибка", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{}`))
			}))

			req := httptest.NewRequest(http.MethodPost, "/candidates", nil)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			out := buf.String()
			if !strings.Contains(out, `"level":"`+tt.wantLevel+`"`) {
				t.Errorf("Запись без уровня %s: %s", tt.wantLevel, out)
			}
			if !strings.Contains(out, `"method":"POST"`) || !strings.Contains(out, `"path":"/candidates"`) {
				t.Errorf("В записи нет метода или пути: %s", out)
			}
			if !strings.Contains(out, `"bytes":2`) {
				t.Errorf("В записи нет объёма ответа: %s", out)
			}
		})
	}
}
