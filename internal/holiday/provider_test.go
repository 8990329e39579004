package holiday

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestAPIProvider_FetchMonth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("d"); got != "202501" {
			t.Errorf("query d = %q, want 202501", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"202501": {"0101": {"type": 1, "typename": "New Year"}, "0102": {"type": 0}}}`))
	}))
	defer server.Close()

	logger := zap.NewNop()
	provider := NewAPIProvider(server.URL+"/?d={month}&info=1", logger)

	days, err := provider.FetchMonth("202501")
	if err != nil {
		t.Fatalf("FetchMonth() error = %v", err)
	}

	if len(days) != 2 {
		t.Errorf("days count = %d, want 2", len(days))
	}

	entry, ok := days["0101"]
	if !ok {
		t.Fatal("entry 0101 missing")
	}
	if entry.Type == nil || *entry.Type != 1 {
		t.Errorf("0101 type = %v, want 1", entry.Type)
	}
	if entry.TypeName != "New Year" {
		t.Errorf("0101 typename = %q, want New Year", entry.TypeName)
	}
}

func TestAPIProvider_FetchMonth_Failures(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantReason FailureReason
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantReason: ReasonTransport,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>not json</html>"))
			},
			wantReason: ReasonMalformed,
		},
		{
			name: "missing month key",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"202502": {"0201": {"type": 0}}}`))
			},
			wantReason: ReasonMissingMonth,
		},
	}

	logger := zap.NewNop()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			provider := NewAPIProvider(server.URL+"/?d={month}", logger)

			_, err := provider.FetchMonth("202501")
			if err == nil {
				t.Fatal("FetchMonth() expected error, got nil")
			}

			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("error type = %T, want *FetchError", err)
			}
			if fetchErr.Reason != tt.wantReason {
				t.Errorf("Reason = %v, want %v", fetchErr.Reason, tt.wantReason)
			}
		})
	}
}

func TestAPIProvider_FetchMonth_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	logger := zap.NewNop()
	provider := NewAPIProvider(server.URL+"/?d={month}", logger)

	_, err := provider.FetchMonth("202501")
	if err == nil {
		t.Fatal("FetchMonth() expected error, got nil")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error type = %T, want *FetchError", err)
	}
	if fetchErr.Reason != ReasonTransport {
		t.Errorf("Reason = %v, want %v", fetchErr.Reason, ReasonTransport)
	}
}

func TestAPIProvider_FetchMonth_Timeout(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() {
		close(block)
		server.Close()
	}()

	logger := zap.NewNop()
	provider := NewAPIProvider(server.URL+"/?d={month}", logger)
	provider.httpClient.Timeout = 50 * time.Millisecond

	_, err := provider.FetchMonth("202501")
	if err == nil {
		t.Fatal("FetchMonth() expected timeout error, got nil")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error type = %T, want *FetchError", err)
	}
	if fetchErr.Reason != ReasonTimeout {
		t.Errorf("Reason = %v, want %v", fetchErr.Reason, ReasonTimeout)
	}
}
