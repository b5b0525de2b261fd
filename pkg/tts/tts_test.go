package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSynthesize(t *testing.T) {
	want := []byte("fake-mp3-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/synthesize" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req synthesizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Text != "hello there" || req.VoiceID != "voice-1" {
			t.Errorf("request = %+v", req)
		}
		json.NewEncoder(w).Encode(synthesizeResponse{
			AudioContent: base64.StdEncoding.EncodeToString(want),
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key")
	audio, err := c.Synthesize(context.Background(), "hello there", "voice-1")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(audio) != string(want) {
		t.Fatalf("audio = %q", audio)
	}
}

func TestSynthesizeMissingAudioContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(synthesizeResponse{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Synthesize(context.Background(), "hi", "")
	if err == nil || !strings.Contains(err.Error(), "no audio content") {
		t.Fatalf("err = %v, want no audio content", err)
	}
}

func TestSynthesizeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(synthesizeResponse{Error: "voice unavailable"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Synthesize(context.Background(), "hi", "")
	if err == nil || !strings.Contains(err.Error(), "voice unavailable") {
		t.Fatalf("err = %v", err)
	}
}

func TestSynthesizeEmptyText(t *testing.T) {
	c := NewClient("http://localhost:0", "")
	if _, err := c.Synthesize(context.Background(), "   ", ""); err == nil {
		t.Fatal("expected error for empty text")
	}
}
