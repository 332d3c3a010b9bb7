package classifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{baseURL: srv.URL, httpc: srv.Client()}
}

func TestAnalyzePositive(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/analyze", r.URL.Path)

		var req struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "harika bir film", req.Text)

		json.NewEncoder(w).Encode(map[string]string{"sentiment": "Positive"})
	})

	label, err := c.Analyze(context.Background(), "harika bir film")
	require.NoError(t, err)
	assert.Equal(t, LabelPositive, label)
}

// Anything that is not the positive label collapses to negative, keeping
// the contract binary.
func TestAnalyzeNonPositiveIsNegative(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"sentiment": "Neutral"})
	})

	label, err := c.Analyze(context.Background(), "idare eder")
	require.NoError(t, err)
	assert.Equal(t, LabelNegative, label)
}

func TestAnalyzeServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Analyze(context.Background(), "x")
	assert.Error(t, err)
}

func TestCommentaryPerLabel(t *testing.T) {
	assert.NotEqual(t, Commentary(LabelPositive), Commentary(LabelNegative))
	assert.NotEmpty(t, Commentary(LabelPositive))
}
