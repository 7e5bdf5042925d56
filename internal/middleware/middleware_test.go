package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewResponseWriter(t *testing.T) {
	w := httptest.NewRecorder()
	rw := newResponseWriter(w)

	if rw == nil {
		t.Fatal("Expected responseWriter to be created")
	}

	if rw.statusCode != http.StatusOK {
		t.Errorf("Expected default status code 200, got %d", rw.statusCode)
	}

	if rw.bytesWritten != 0 {
		t.Errorf("Expected bytesWritten to be 0, got %d", rw.bytesWritten)
	}

	if rw.wroteHeader {
		t.Error("Expected wroteHeader to be false initially")
	}
}

func TestResponseWriterWriteHeader(t *testing.T) {
	w := httptest.NewRecorder()
	rw := newResponseWriter(w)

	rw.WriteHeader(http.StatusNotFound)

	if rw.statusCode != http.StatusNotFound {
		t.Errorf("Expected status code 404, got %d", rw.statusCode)
	}

	if !rw.wroteHeader {
		t.Error("Expected wroteHeader to be true after WriteHeader")
	}

	// Write header again - should be ignored
	rw.WriteHeader(http.StatusInternalServerError)

	if rw.statusCode != http.StatusNotFound {
		t.Error("Status code should not change after first WriteHeader")
	}
}

func TestResponseWriterWrite(t *testing.T) {
	w := httptest.NewRecorder()
	rw := newResponseWriter(w)

	data := []byte("test data")
	n, err := rw.Write(data)

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if n != len(data) {
		t.Errorf("Expected to write %d bytes, wrote %d", len(data), n)
	}

	if rw.bytesWritten != int64(len(data)) {
		t.Errorf("Expected bytesWritten to be %d, got %d", len(data), rw.bytesWritten)
	}

	if !rw.wroteHeader {
		t.Error("Expected wroteHeader to be true after Write")
	}
}

func TestDefaultLoggingConfig(t *testing.T) {
	config := DefaultLoggingConfig()

	if len(config.SkipPaths) != 0 {
		t.Errorf("Expected empty SkipPaths, got %d items", len(config.SkipPaths))
	}

	if config.LogMediaFiles {
		t.Error("Expected LogMediaFiles to be false by default")
	}

	if !config.LogHealthChecks {
		t.Error("Expected LogHealthChecks to be true by default")
	}
}

func TestShouldSkip(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		config LoggingConfig
		want   bool
	}{
		{
			name:   "Regular API request is logged",
			path:   "/api/sources",
			config: DefaultLoggingConfig(),
			want:   false,
		},
		{
			name:   "Media image skipped by default",
			path:   "/media/images/20250314_092653_589793.jpg",
			config: DefaultLoggingConfig(),
			want:   true,
		},
		{
			name:   "Media preview skipped by default",
			path:   "/media/previews/20250314_092653_589793.jpg",
			config: DefaultLoggingConfig(),
			want:   true,
		},
		{
			name:   "Media logged when enabled",
			path:   "/media/images/x.jpg",
			config: LoggingConfig{LogMediaFiles: true, LogHealthChecks: true},
			want:   false,
		},
		{
			name:   "Health check logged when enabled",
			path:   "/healthz",
			config: LoggingConfig{LogHealthChecks: true},
			want:   false,
		},
		{
			name:   "Health check skipped when disabled",
			path:   "/healthz",
			config: LoggingConfig{LogHealthChecks: false},
			want:   true,
		},
		{
			name:   "Explicit skip path",
			path:   "/api/logs",
			config: LoggingConfig{SkipPaths: []string{"/api/logs"}, LogHealthChecks: true},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldSkip(tt.path, tt.config); got != tt.want {
				t.Errorf("shouldSkip(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestLoggerMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	middleware := Logger(DefaultLoggingConfig())
	wrappedHandler := middleware(handler)

	req := httptest.NewRequest("GET", "/api/previews", http.NoBody)
	w := httptest.NewRecorder()

	wrappedHandler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "ok" {
		t.Errorf("Expected body to pass through, got %q", w.Body.String())
	}
}

func TestSanitizeLogField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Plain string unchanged", "GET", "GET"},
		{"Newline replaced with space", "a\nb", "a b"},
		{"Carriage return replaced", "a\rb", "a b"},
		{"Null byte stripped", "a\x00b", "ab"},
		{"ANSI escape stripped", "a\x1b[31mb", "a[31mb"},
		{"Tab preserved", "a\tb", "a\tb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeLogField(tt.input); got != tt.want {
				t.Errorf("sanitizeLogField(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "RemoteAddr without headers",
			remoteAddr: "192.0.2.10:4312",
			want:       "192.0.2.10",
		},
		{
			name:       "X-Forwarded-For single value",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5"},
			want:       "203.0.113.5",
		},
		{
			name:       "X-Forwarded-For chain takes first",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.2"},
			want:       "203.0.113.5",
		},
		{
			name:       "X-Real-IP fallback",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Real-IP": "198.51.100.7"},
			want:       "198.51.100.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", http.NoBody)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultCompressionConfig(t *testing.T) {
	config := DefaultCompressionConfig()

	if config.MinSize != 1024 {
		t.Errorf("Expected MinSize to be 1024, got %d", config.MinSize)
	}

	if config.Level != gzip.DefaultCompression {
		t.Errorf("Expected Level to be DefaultCompression (%d), got %d", gzip.DefaultCompression, config.Level)
	}

	found := false
	for _, ct := range config.CompressibleTypes {
		if ct == "application/json" {
			found = true
		}
	}
	if !found {
		t.Error("Expected application/json in CompressibleTypes")
	}
}

func TestCompressionMiddleware(t *testing.T) {
	tests := []struct {
		name              string
		path              string
		responseBody      string
		contentType       string
		acceptEncoding    string
		expectCompression bool
	}{
		{
			name:              "Compresses large JSON",
			path:              "/api/previews",
			responseBody:      strings.Repeat(`{"name":"20250314_092653_589793.jpg"}`, 100),
			contentType:       "application/json",
			acceptEncoding:    "gzip",
			expectCompression: true,
		},
		{
			name:              "Doesn't compress small responses",
			path:              "/api/previews",
			responseBody:      `{"ok":true}`,
			contentType:       "application/json",
			acceptEncoding:    "gzip",
			expectCompression: false,
		},
		{
			name:              "Doesn't compress JPEG content",
			path:              "/api/previews",
			responseBody:      strings.Repeat("data", 500),
			contentType:       "image/jpeg",
			acceptEncoding:    "gzip",
			expectCompression: false,
		},
		{
			name:              "Media paths bypass compression",
			path:              "/media/images/x.jpg",
			responseBody:      strings.Repeat("data", 500),
			contentType:       "application/json",
			acceptEncoding:    "gzip",
			expectCompression: false,
		},
		{
			name:              "Respects client without gzip support",
			path:              "/api/previews",
			responseBody:      strings.Repeat("data", 500),
			contentType:       "application/json",
			acceptEncoding:    "",
			expectCompression: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(tt.responseBody))
			})

			middleware := Compression(DefaultCompressionConfig())
			wrappedHandler := middleware(handler)

			req := httptest.NewRequest("GET", tt.path, http.NoBody)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			w := httptest.NewRecorder()

			wrappedHandler.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", w.Code)
			}

			isCompressed := w.Header().Get("Content-Encoding") == "gzip"
			if isCompressed != tt.expectCompression {
				t.Errorf("Expected compression=%v, got compression=%v", tt.expectCompression, isCompressed)
			}

			if tt.expectCompression {
				gr, err := gzip.NewReader(w.Body)
				if err != nil {
					t.Fatalf("Failed to create gzip reader: %v", err)
				}
				defer gr.Close()

				decompressed, err := io.ReadAll(gr)
				if err != nil {
					t.Fatalf("Failed to decompress: %v", err)
				}

				if string(decompressed) != tt.responseBody {
					t.Error("Decompressed content doesn't match original")
				}
			}
		})
	}
}

func TestGzipResponseWriterBuffering(t *testing.T) {
	w := httptest.NewRecorder()
	config := DefaultCompressionConfig()
	grw := newGzipResponseWriter(w, config)

	// Write small amount of data (less than MinSize)
	smallData := []byte("small")
	n, err := grw.Write(smallData)

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if n != len(smallData) {
		t.Errorf("Expected to write %d bytes, wrote %d", len(smallData), n)
	}

	// Data should be buffered
	if len(grw.buffer) != len(smallData) {
		t.Errorf("Expected buffer length %d, got %d", len(smallData), len(grw.buffer))
	}

	if !bytes.Equal(grw.buffer, smallData) {
		t.Error("Buffer content doesn't match written data")
	}
}

func TestCompressionWithMultipleWrites(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		// Multiple small writes that together exceed MinSize
		for i := 0; i < 50; i++ {
			w.Write([]byte(strings.Repeat(`{"n":1}`, 10)))
		}
	})

	middleware := Compression(DefaultCompressionConfig())
	wrappedHandler := middleware(handler)

	req := httptest.NewRequest("GET", "/api/logs", http.NoBody)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()

	wrappedHandler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Header().Get("Content-Encoding") != "gzip" {
		t.Error("Expected response to be compressed")
	}
}

func TestDefaultMetricsConfig(t *testing.T) {
	config := DefaultMetricsConfig()

	expectedPaths := []string{"/metrics", "/healthz", "/livez", "/readyz"}
	for _, path := range expectedPaths {
		found := false
		for _, skip := range config.SkipPaths {
			if skip == path {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected %q to be in default SkipPaths", path)
		}
	}
}

func TestMetricsMiddlewareStatusCode(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"200 OK", http.StatusOK},
		{"201 Created", http.StatusCreated},
		{"400 Bad Request", http.StatusBadRequest},
		{"404 Not Found", http.StatusNotFound},
		{"500 Internal Server Error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
			})

			config := MetricsConfig{SkipPaths: []string{}}
			middleware := Metrics(config)
			wrappedHandler := middleware(handler)

			req := httptest.NewRequest(http.MethodGet, "/api/sources", http.NoBody)
			w := httptest.NewRecorder()

			wrappedHandler.ServeHTTP(w, req)

			if w.Code != tt.statusCode {
				t.Errorf("Expected status code %d, got %d", tt.statusCode, w.Code)
			}
		})
	}
}

func TestMetricsMiddlewareSkipPaths(t *testing.T) {
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	middleware := Metrics(DefaultMetricsConfig())
	wrappedHandler := middleware(handler)

	for _, path := range []string{"/metrics", "/healthz", "/api/sources"} {
		handlerCalled = false
		req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
		w := httptest.NewRecorder()

		wrappedHandler.ServeHTTP(w, req)

		if !handlerCalled {
			t.Errorf("Expected handler to be called for %s", path)
		}
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "Image file path",
			path:     "/media/images/20250314_092653_589793.jpg",
			expected: "/media/images/{name}",
		},
		{
			name:     "Preview file path",
			path:     "/media/previews/20250314_092653_589793.jpg",
			expected: "/media/previews/{name}",
		},
		{
			name:     "Source by ID",
			path:     "/api/sources/42",
			expected: "/api/sources/{id}",
		},
		{
			name:     "Webhook path",
			path:     "/telegram/webhook",
			expected: "/telegram/webhook",
		},
		{
			name:     "Sources collection",
			path:     "/api/sources",
			expected: "/api/sources",
		},
		{
			name:     "Config path",
			path:     "/api/config/slideshow",
			expected: "/api/config/slideshow",
		},
		{
			name:     "Root path",
			path:     "/",
			expected: "/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := normalizePath(tt.path)
			if result != tt.expected {
				t.Errorf("normalizePath(%q) = %q, want %q", tt.path, result, tt.expected)
			}
		})
	}
}

func BenchmarkLoggingMiddleware(b *testing.B) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	middleware := Logger(DefaultLoggingConfig())
	wrappedHandler := middleware(handler)

	req := httptest.NewRequest("GET", "/api/previews", http.NoBody)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		wrappedHandler.ServeHTTP(w, req)
	}
}

func BenchmarkNormalizePath(b *testing.B) {
	paths := []string{
		"/media/images/20250314_092653_589793.jpg",
		"/media/previews/20250314_092653_589793.jpg",
		"/api/sources/42",
		"/api/previews",
		"/",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, path := range paths {
			_ = normalizePath(path)
		}
	}
}
