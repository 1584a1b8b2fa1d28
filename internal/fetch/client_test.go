package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"

	"github.com/parlwatch/pspcrawl/internal/fetch"
	"github.com/parlwatch/pspcrawl/internal/logger"
)

func newClient() *fetch.Client {
	return fetch.New(fetch.Config{RetryCount: 1}, logger.NewNoop())
}

// Legacy psp.cz pages arrive in windows-1250; GetHTML must hand parsers
// UTF-8.
func TestGetHTMLDecodesWindows1250(t *testing.T) {
	const page = "<html><body><h2>Poslanecká sněmovna</h2></body></html>"

	encoded, err := charmap.Windows1250.NewEncoder().String(page)
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=windows-1250")
		_, _ = w.Write([]byte(encoded))
	}))
	defer srv.Close()

	body, err := newClient().GetHTML(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetHTML() error = %v", err)
	}

	if !strings.Contains(string(body), "Poslanecká sněmovna") {
		t.Errorf("decoded body %q does not contain the UTF-8 heading", body)
	}
}

func TestGetHTMLNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := newClient().GetHTML(context.Background(), srv.URL)
	if !errors.Is(err, fetch.ErrUnexpectedStatus) {
		t.Errorf("GetHTML() error = %v, want ErrUnexpectedStatus", err)
	}
}

func TestGetRawKeepsBytes(t *testing.T) {
	raw := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(raw)
	}))
	defer srv.Close()

	body, err := newClient().GetRaw(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetRaw() error = %v", err)
	}
	if len(body) != len(raw) {
		t.Fatalf("GetRaw() returned %d bytes, want %d", len(body), len(raw))
	}
	for i := range raw {
		if body[i] != raw[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, body[i], raw[i])
		}
	}
}
