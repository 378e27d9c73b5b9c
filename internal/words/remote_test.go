package words

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteProvider_FetchRandomWord(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
	}{
		{"ok", http.StatusOK, `["apple"]`, "APPLE", nil},
		{"extra entries ignored", http.StatusOK, `["tiger","honey"]`, "TIGER", nil},
		{"wrong length", http.StatusOK, `["bananas"]`, "", ErrBadWord},
		{"non alphabetic", http.StatusOK, `["ap-le"]`, "", ErrBadWord},
		{"empty array", http.StatusOK, `[]`, "", ErrBadWord},
		{"not json", http.StatusOK, `apple`, "", ErrBadWord},
		{"server error", http.StatusInternalServerError, `oops`, "", ErrUnavailable},
		{"not found", http.StatusNotFound, ``, "", ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/word", r.URL.Path)
				gotQuery = r.URL.RawQuery
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := NewRemoteProvider(srv.URL+"/", time.Second).FetchRandomWord(context.Background(), 5)
			assert.Equal(t, "length=5", gotQuery)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemoteProvider_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewRemoteProvider(url, time.Second).FetchRandomWord(context.Background(), 5)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRemoteChecker_IsValidWord(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		want    bool
		wantErr bool
	}{
		{"found", http.StatusOK, true, false},
		{"not found", http.StatusNotFound, false, false},
		{"bad request", http.StatusBadRequest, false, true},
		{"forbidden", http.StatusForbidden, false, true},
		{"rate limited", http.StatusTooManyRequests, false, true},
		{"server error", http.StatusBadGateway, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`[{"word":"apple"}]`))
			}))
			defer srv.Close()

			got, err := NewRemoteChecker(srv.URL, time.Second).IsValidWord(context.Background(), "APPLE")
			assert.Equal(t, "/api/v2/entries/en/apple", gotPath)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnavailable), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemoteChecker_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	_, err := NewRemoteChecker(srv.URL, 50*time.Millisecond).IsValidWord(context.Background(), "APPLE")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRemoteChecker_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRemoteChecker(srv.URL, time.Second).IsValidWord(ctx, "APPLE")
	assert.Error(t, err)
}
