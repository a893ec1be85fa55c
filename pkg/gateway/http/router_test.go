package httpgateway

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type countingWriter struct {
	http.ResponseWriter
	headerCalls int
	lastCode    int
}

func (w *countingWriter) WriteHeader(code int) {
	w.headerCalls++
	w.lastCode = code
	w.ResponseWriter.WriteHeader(code)
}

func TestStatusWriterForwardsFirstHeaderOnly(t *testing.T) {
	underlying := &countingWriter{ResponseWriter: httptest.NewRecorder()}
	w := &statusWriter{ResponseWriter: underlying, status: http.StatusOK}

	w.WriteHeader(http.StatusNotFound)
	w.WriteHeader(http.StatusOK)

	if underlying.headerCalls != 1 {
		t.Fatalf("expected 1 forwarded WriteHeader, got %d", underlying.headerCalls)
	}
	if underlying.lastCode != http.StatusNotFound {
		t.Errorf("forwarded code = %d", underlying.lastCode)
	}
	if w.status != http.StatusNotFound {
		t.Errorf("captured status = %d", w.status)
	}
}
