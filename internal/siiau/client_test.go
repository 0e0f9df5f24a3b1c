package siiau

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udgtools/horarios-api/pkg/config"
	appErrors "github.com/udgtools/horarios-api/pkg/errors"
)

func TestFetchTimetablePostsOfferForm(t *testing.T) {
	var gotForm map[string]string
	var gotContentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"ciclop":   r.PostFormValue("ciclop"),
			"cup":      r.PostFormValue("cup"),
			"mostrarp": r.PostFormValue("mostrarp"),
		}
		_, _ = w.Write([]byte("<table></table>"))
	}))
	defer srv.Close()

	client := NewClient(config.SIIAUConfig{URL: srv.URL, RowLimit: 500, Timeout: 5 * time.Second}, nil)

	body, err := client.FetchTimetable(context.Background(), "202410", "D", 0)
	require.NoError(t, err)
	defer body.Close()

	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "<table></table>", string(raw))

	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "202410", gotForm["ciclop"])
	assert.Equal(t, "D", gotForm["cup"])
	// Zero limit falls back to the configured row limit.
	assert.Equal(t, "500", gotForm["mostrarp"])
}

func TestFetchTimetableExplicitLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "250", r.PostFormValue("mostrarp"))
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := NewClient(config.SIIAUConfig{URL: srv.URL, Timeout: 5 * time.Second}, nil)
	body, err := client.FetchTimetable(context.Background(), "202410", "D", 250)
	require.NoError(t, err)
	body.Close()
}

func TestFetchTimetableUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone fishing", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(config.SIIAUConfig{URL: srv.URL, Timeout: 5 * time.Second}, nil)
	_, err := client.FetchTimetable(context.Background(), "202410", "D", 10)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRemoteFetch.Code, appErrors.FromError(err).Code)
}

func TestFetchTimetableConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(config.SIIAUConfig{URL: srv.URL, Timeout: time.Second}, nil)
	_, err := client.FetchTimetable(context.Background(), "202410", "D", 10)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRemoteFetch.Code, appErrors.FromError(err).Code)
}

func TestNewClientDefaultRowLimit(t *testing.T) {
	client := NewClient(config.SIIAUConfig{URL: "http://example.invalid"}, nil)
	assert.Equal(t, 15000, client.RowLimit())
}
