package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bookhaven/internal/util"
)

type signedURLRequest struct {
	AgentID string `json:"agentId"`
}

type signedURLResponse struct {
	SignedURL string `json:"signedUrl"`
}

// handleSignedURL mints or fetches the credential URL a client connects
// the voice session with. A failure here aborts the connection attempt,
// so errors are reported as non-2xx rather than swallowed.
func (s *Server) handleSignedURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req signedURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	agentID := strings.TrimSpace(req.AgentID)
	if agentID == "" {
		agentID = s.cfg.AgentID
	}
	if agentID == "" {
		writeError(w, http.StatusBadRequest, "agentId is required")
		return
	}

	if s.cfg.RelayMode {
		signedURL, err := s.mintBridgeURL(agentID)
		if err != nil {
			util.LoggerFromContext(r.Context()).Error("bridge token mint failed", "err", err)
			writeError(w, http.StatusInternalServerError, "could not mint session token")
			return
		}
		writeJSON(w, http.StatusOK, signedURLResponse{SignedURL: signedURL})
		return
	}

	signedURL, err := s.fetchUpstreamSignedURL(r, agentID)
	if err != nil {
		util.LoggerFromContext(r.Context()).Error("signed url fetch failed", "agent_id", agentID, "err", err)
		writeError(w, http.StatusBadGateway, "could not obtain signed url")
		return
	}
	writeJSON(w, http.StatusOK, signedURLResponse{SignedURL: signedURL})
}

func (s *Server) mintBridgeURL(agentID string) (string, error) {
	if s.cfg.TokenMinter == nil {
		return "", fmt.Errorf("token minter not configured")
	}
	token, err := s.cfg.TokenMinter.Mint(agentID)
	if err != nil {
		return "", err
	}
	base := strings.TrimRight(s.cfg.PublicBaseURL, "/")
	base = strings.Replace(base, "https://", "wss://", 1)
	base = strings.Replace(base, "http://", "ws://", 1)
	return base + "/ws/voice?token=" + url.QueryEscape(token), nil
}

func (s *Server) fetchUpstreamSignedURL(r *http.Request, agentID string) (string, error) {
	base := strings.TrimRight(s.cfg.UpstreamBase, "/")
	if base == "" {
		return "", fmt.Errorf("upstream base url not configured")
	}
	endpoint := base + "/v1/convai/conversation/get-signed-url?agent_id=" + url.QueryEscape(agentID)
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("xi-api-key", s.cfg.UpstreamKey)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upstream status %s", resp.Status)
	}
	var payload struct {
		SignedURL string `json:"signed_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.SignedURL == "" {
		return "", fmt.Errorf("upstream returned no signed url")
	}
	return payload.SignedURL, nil
}

// handleVoiceSession drives the server-side session controller: start,
// end, restart, mute and volume, plus state and transcript reads.
func (s *Server) handleVoiceSession(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Voice == nil {
		writeError(w, http.StatusServiceUnavailable, "voice not configured")
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.writeVoiceState(w)
	case http.MethodPost:
		var req struct {
			Command string   `json:"command"`
			Muted   *bool    `json:"muted,omitempty"`
			Volume  *float64 `json:"volume,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		switch req.Command {
		case "start":
			if err := s.cfg.Voice.Start(r.Context()); err != nil {
				util.LoggerFromContext(r.Context()).Error("voice start failed", "err", err)
				writeError(w, http.StatusBadGateway, "could not start voice session")
				return
			}
		case "end":
			s.cfg.Voice.End()
		case "restart":
			if err := s.cfg.Voice.Restart(r.Context()); err != nil {
				util.LoggerFromContext(r.Context()).Error("voice restart failed", "err", err)
				writeError(w, http.StatusBadGateway, "could not restart voice session")
				return
			}
		case "mute":
			if req.Muted == nil {
				writeError(w, http.StatusBadRequest, "muted is required")
				return
			}
			s.cfg.Voice.SetMuted(*req.Muted)
		case "volume":
			if req.Volume == nil {
				writeError(w, http.StatusBadRequest, "volume is required")
				return
			}
			s.cfg.Voice.SetVolume(*req.Volume)
		default:
			writeError(w, http.StatusBadRequest, "unknown command")
			return
		}
		s.writeVoiceState(w)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) writeVoiceState(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{
		"state":      s.cfg.Voice.State(),
		"mode":       s.cfg.Voice.Mode(),
		"muted":      s.cfg.Voice.Muted(),
		"volume":     s.cfg.Voice.Volume(),
		"transcript": s.cfg.Voice.Transcript(),
	})
}

// tts

type ttsRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voiceId"`
}

func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if s.cfg.TTS == nil {
		writeError(w, http.StatusServiceUnavailable, "tts not configured")
		return
	}
	var req ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	voiceID := req.VoiceID
	if voiceID == "" {
		voiceID = s.cfg.TTSVoice
	}
	audio, err := s.cfg.TTS.Synthesize(r.Context(), req.Text, voiceID)
	if err != nil {
		util.LoggerFromContext(r.Context()).Error("tts synthesis failed", "err", err)
		writeError(w, http.StatusBadGateway, "speech synthesis failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"audioContent": base64.StdEncoding.EncodeToString(audio),
	})
}
