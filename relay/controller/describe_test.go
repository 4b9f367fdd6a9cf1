package controller

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
	"github.com/kingfer30/image-describe/common/ctxkey"
	"github.com/kingfer30/image-describe/relay/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newDescribeContext(t *testing.T, providerURL, apiKey string, image []byte, prompt string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	if image != nil {
		fw, err := w.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.WriteField("promptTemplate", prompt))
	require.NoError(t, w.Close())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/describe-image", body)
	c.Request.Header.Set("Content-Type", w.FormDataContentType())
	c.Set(ctxkey.BaseURL, providerURL)
	c.Set(ctxkey.APIKey, apiKey)
	return c, rec
}

func TestRelayDescribeHelperMissingKey(t *testing.T) {
	var hits int32
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer provider.Close()

	c, _ := newDescribeContext(t, provider.URL, "", []byte("img"), "p")
	resp, bizErr := RelayDescribeHelper(c)
	assert.Nil(t, resp)
	require.NotNil(t, bizErr)
	assert.Equal(t, http.StatusInternalServerError, bizErr.StatusCode)
	assert.Equal(t, "Server misconfiguration: GEMINI_API_KEY not set", bizErr.Message)
	assert.False(t, bizErr.IsPassThrough())
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestRelayDescribeHelperPayload(t *testing.T) {
	image := []byte("\x89PNG\r\n\x1a\nsome-image")
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var payload model.ProviderRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Describe it.", payload.Prompt)
		assert.Equal(t, "iVBORw0KGgpzb21lLWltYWdl", payload.ImageBase64)
		_, _ = io.WriteString(w, `{"description":"A red bicycle."}`)
	}))
	defer provider.Close()

	c, _ := newDescribeContext(t, provider.URL, "secret", image, "Describe it.")
	resp, bizErr := RelayDescribeHelper(c)
	require.Nil(t, bizErr)
	assert.Equal(t, "A red bicycle.", resp.Description)
	assert.Equal(t, "Describe it.", resp.PromptUsed)
}

func TestRelayDescribeHelperUpstreamError(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, "overloaded")
	}))
	defer provider.Close()

	c, _ := newDescribeContext(t, provider.URL, "secret", []byte("img"), "p")
	_, bizErr := RelayDescribeHelper(c)
	require.NotNil(t, bizErr)
	assert.True(t, bizErr.IsPassThrough())
	assert.Equal(t, http.StatusServiceUnavailable, bizErr.StatusCode)
	assert.Equal(t, []byte("overloaded"), bizErr.RawBody)
	assert.Equal(t, "text/plain", bizErr.ContentType)
}

func TestRelayDescribeHelperMissingImage(t *testing.T) {
	var hits int32
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer provider.Close()

	c, _ := newDescribeContext(t, provider.URL, "secret", nil, "p")
	_, bizErr := RelayDescribeHelper(c)
	require.NotNil(t, bizErr)
	assert.Equal(t, http.StatusInternalServerError, bizErr.StatusCode)
	assert.Contains(t, bizErr.Message, http.ErrMissingFile.Error())
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestRelayDescribeHelperTooLarge(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("provider must not be called")
	}))
	defer provider.Close()

	c, _ := newDescribeContext(t, provider.URL, "secret", bytes.Repeat([]byte("x"), 64), "p")
	c.Set(ctxkey.MaxImageSize, int64(16))
	_, bizErr := RelayDescribeHelper(c)
	require.NotNil(t, bizErr)
	assert.Equal(t, http.StatusInternalServerError, bizErr.StatusCode)
}

func TestRelayDescribeHelperTransportFailure(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := provider.URL
	provider.Close()

	c, _ := newDescribeContext(t, url, "secret", []byte("img"), "p")
	_, bizErr := RelayDescribeHelper(c)
	require.NotNil(t, bizErr)
	assert.Equal(t, http.StatusInternalServerError, bizErr.StatusCode)
	assert.False(t, bizErr.IsPassThrough())
	assert.NotEmpty(t, bizErr.Message)
}
