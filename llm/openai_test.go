package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicedesk/invoicedesk/types"
)

func TestGenerateReportDecodesFirstChoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"<h1>Report</h1>"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", "", time.Second, false)
	p.baseURL = srv.URL

	text, err := p.GenerateReport(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Report</h1>", text)
}

func TestGenerateReportSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", "", time.Second, false)
	p.baseURL = srv.URL

	_, err := p.GenerateReport(context.Background(), "system", "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateReportHonorsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", "", 20*time.Millisecond, false)
	p.baseURL = srv.URL

	_, err := p.GenerateReport(context.Background(), "system", "user")
	require.Error(t, err)
}

func TestNewProviderValidatesConfig(t *testing.T) {
	_, err := NewProvider(nil)
	assert.Error(t, err)

	_, err = NewProvider(&types.LLMConfig{Provider: "openai"})
	assert.Error(t, err, "missing API key must be rejected")

	p, err := NewProvider(&types.LLMConfig{Provider: "openai", APIKey: "k"})
	require.NoError(t, err)
	assert.NotNil(t, p)
}
