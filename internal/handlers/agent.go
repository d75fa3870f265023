package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/propuesta-web/api/internal/ai"
	"github.com/propuesta-web/api/internal/platform/httpx"
	"github.com/propuesta-web/api/internal/services"
)

const maxAgentBodySize = 64 * 1024

// AgentHandlers exposes the conversational agent endpoint.
type AgentHandlers struct {
	agent   *services.AgentService
	limiter rateLimiter
}

// NewAgentHandlers constructs the agent handlers. perMinute caps requests
// per session key; zero disables rate limiting.
func NewAgentHandlers(agent *services.AgentService, perMinute int) *AgentHandlers {
	return &AgentHandlers{
		agent:   agent,
		limiter: newSimpleRateLimiter(perMinute, time.Minute, nil),
	}
}

// Routes wires the /agent endpoints onto the provided router.
func (h *AgentHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.converse)
}

type agentRequest struct {
	Messages []ai.Message   `json:"messages"`
	State    map[string]any `json:"state"`
}

func (h *AgentHandlers) converse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.agent == nil {
		httpx.WriteError(ctx, w, httpx.NewError("agent_service_unavailable", "agent service is unavailable", http.StatusServiceUnavailable))
		return
	}

	key := sessionKey(r)
	if h.limiter != nil && !h.limiter.Allow(key) {
		httpx.WriteError(ctx, w, httpx.NewError("rate_limited", "too many requests, slow down", http.StatusTooManyRequests))
		return
	}

	body, err := readLimitedBody(r, maxAgentBodySize)
	if err != nil {
		switch {
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		case errors.Is(err, errEmptyBody):
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is required", http.StatusBadRequest))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		}
		return
	}

	var req agentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "body must be a JSON object", http.StatusBadRequest))
		return
	}

	reply, err := h.agent.Converse(ctx, key, req.Messages, req.State)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("agent_failed", "the assistant is temporarily unavailable", http.StatusBadGateway))
		return
	}
	writeJSONResponse(w, http.StatusOK, reply)
}

// sessionKey identifies the conversation: an explicit session header when
// the client sends one, otherwise the best available client address.
func sessionKey(r *http.Request) string {
	for _, header := range []string{"x-session-id", "cf-connecting-ip", "x-forwarded-for"} {
		if v := r.Header.Get(header); v != "" {
			return v
		}
	}
	return "anon"
}
