package transport

import (
	"net/http"
	"testing"
	"time"
)

func TestNewHTTPClientUsesTimeout(t *testing.T) {
	client := NewHTTPClient(45 * time.Second)
	if client.Timeout != 45*time.Second {
		t.Fatalf("expected timeout 45s, got %s", client.Timeout)
	}
}

func TestNewHTTPClientDefaultsTimeout(t *testing.T) {
	client := NewHTTPClient(0)
	if client.Timeout != DefaultTimeout {
		t.Fatalf("expected default timeout, got %s", client.Timeout)
	}
}

func TestNewHTTPClientClonesTransport(t *testing.T) {
	a, b := NewHTTPClient(time.Second), NewHTTPClient(time.Second)
	ta, ok := a.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", a.Transport)
	}
	if ta == b.Transport || ta == defaultTransport {
		t.Fatalf("each client should own a cloned transport")
	}
	if ta.MaxIdleConnsPerHost != defaultTransport.MaxIdleConnsPerHost {
		t.Fatalf("clone should keep pool tuning")
	}
}
