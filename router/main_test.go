package router

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kingfer30/image-describe/common/config"
	"github.com/kingfer30/image-describe/common/helper"
	"github.com/kingfer30/image-describe/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(providerURL, apiKey string) *config.Config {
	return &config.Config{
		Port:                    3000,
		ProviderURL:             providerURL,
		ProviderAPIKey:          apiKey,
		PromptTemplate:          "Describe the photo.",
		MultipartMemory:         1 << 20,
		UploadRateLimitDuration: 60,
	}
}

func newTestServer(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	server := gin.New()
	server.Use(gin.Recovery())
	server.Use(middleware.RequestId())
	middleware.SetUpLogger(server)
	SetRouter(server, cfg)
	return server
}

func newUpload(t *testing.T, image []byte, prompt string) *http.Request {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("image", "photo.jpg")
	require.NoError(t, err)
	_, err = fw.Write(image)
	require.NoError(t, err)
	require.NoError(t, w.WriteField("promptTemplate", prompt))
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/describe-image", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(server *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

type countingProvider struct {
	hits int32
	*httptest.Server
}

func newProvider(handler http.HandlerFunc) *countingProvider {
	p := &countingProvider{}
	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&p.hits, 1)
		handler(w, r)
	}))
	return p
}

func (p *countingProvider) Hits() int32 {
	return atomic.LoadInt32(&p.hits)
}

func TestDescribeImageSuccess(t *testing.T) {
	provider := newProvider(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"description":"A red bicycle."}`)
	})
	defer provider.Close()
	server := newTestServer(newTestConfig(provider.URL, "secret"))

	rec := serve(server, newUpload(t, []byte("jpeg"), "Describe the photo."))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Len(t, rec.Header().Get(helper.RequestIdKey), 22)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{
		"description": "A red bicycle.",
		"promptUsed":  "Describe the photo.",
	}, body)
}

func TestDescribeImageFallbackToWholeBody(t *testing.T) {
	provider := newProvider(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"foo": "bar"}`)
	})
	defer provider.Close()
	server := newTestServer(newTestConfig(provider.URL, "secret"))

	rec := serve(server, newUpload(t, []byte("jpeg"), "p"))
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, `{"foo":"bar"}`, body["description"])
}

func TestDescribeImageMissingKey(t *testing.T) {
	provider := newProvider(func(w http.ResponseWriter, r *http.Request) {})
	defer provider.Close()
	server := newTestServer(newTestConfig(provider.URL, ""))

	rec := serve(server, newUpload(t, []byte("jpeg"), "p"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server misconfiguration: GEMINI_API_KEY not set", rec.Body.String())
	assert.Equal(t, int32(0), provider.Hits())
}

func TestDescribeImageRelaysProviderError(t *testing.T) {
	provider := newProvider(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, "overloaded")
	})
	defer provider.Close()
	server := newTestServer(newTestConfig(provider.URL, "secret"))

	rec := serve(server, newUpload(t, []byte("jpeg"), "p"))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "overloaded", rec.Body.String())
	assert.Equal(t, int32(1), provider.Hits())
}

func TestDescribeImageNoCaching(t *testing.T) {
	provider := newProvider(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"description":"same"}`)
	})
	defer provider.Close()
	server := newTestServer(newTestConfig(provider.URL, "secret"))

	for i := 0; i < 2; i++ {
		rec := serve(server, newUpload(t, []byte("jpeg"), "p"))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, int32(2), provider.Hits())
}

func TestDescribeImageRateLimit(t *testing.T) {
	provider := newProvider(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"description":"ok"}`)
	})
	defer provider.Close()
	cfg := newTestConfig(provider.URL, "secret")
	cfg.UploadRateLimitNum = 1
	server := newTestServer(cfg)

	assert.Equal(t, http.StatusOK, serve(server, newUpload(t, []byte("jpeg"), "p")).Code)
	rec := serve(server, newUpload(t, []byte("jpeg"), "p"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Ratelimit-Limit-Requests"))
	assert.Equal(t, int32(1), provider.Hits())
}

func TestStatus(t *testing.T) {
	server := newTestServer(newTestConfig("http://127.0.0.1:1", ""))
	rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			ProviderConfigured bool `json:"provider_configured"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.False(t, body.Data.ProviderConfigured)
}

func TestWebRoutes(t *testing.T) {
	server := newTestServer(newTestConfig("http://127.0.0.1:1", ""))

	rec := serve(server, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Describe the photo.")

	rec = serve(server, httptest.NewRequest(http.MethodGet, "/static/upload.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "promptTemplate")
}

func TestNotFound(t *testing.T) {
	server := newTestServer(newTestConfig("http://127.0.0.1:1", ""))
	rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid URL (GET /api/nope)")
}

func TestCORSPreflight(t *testing.T) {
	server := newTestServer(newTestConfig("http://127.0.0.1:1", "secret"))

	req := httptest.NewRequest(http.MethodOptions, "/api/describe-image", nil)
	req.Header.Set("Origin", "http://client.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := serve(server, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Origin", "http://client.test")
	rec = serve(server, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDescribeImagePassThroughContentType(t *testing.T) {
	provider := newProvider(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("typed") != "" {
			w.Header().Set("Content-Type", "application/json")
		} else {
			// suppress sniffing so the provider sends no Content-Type at all
			w.Header()["Content-Type"] = nil
		}
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `{"error":"bad"}`)
	})
	defer provider.Close()

	rec := serve(newTestServer(newTestConfig(provider.URL, "secret")), newUpload(t, []byte("jpeg"), "p"))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `{"error":"bad"}`, rec.Body.String())

	rec = serve(newTestServer(newTestConfig(provider.URL+"?typed=1", "secret")), newUpload(t, []byte("jpeg"), "p"))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
