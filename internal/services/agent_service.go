package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/oklog/ulid/v2"

	"github.com/propuesta-web/api/internal/ai"
	"github.com/propuesta-web/api/internal/domain"
)

const defaultDriftCutoff = 3

// Off-topic markers. A message containing one of these is a drift strike
// unless it also carries web intent.
var bannedHints = []string{
	"guerra", "ucrania", "rusia", "putin", "zelensky",
	"eleccion", "politic", "biden", "trump",
	"israel", "palestina", "gaza", "geopol",
	"chiste", "meme", "cotilleo",
	"fútbol", "nba", "apuestas",
	"tarea", "examen", "integral", "derivada",
}

// Web-intent markers that keep a message on topic even when it brushes a
// banned subject.
var webIntent = []string{
	"web", "página", "sitio", "presupuesto", "precio",
	"hosting", "coolify", "deploy", "dominio", "dns", "ssl", "certificado",
	"correo", "email", "workspace", "cloudflare",
	"rendimiento", "vitals",
	"seo", "schema", "sitemap", "robots",
	"analytics", "ga4", "plausible",
	"accesibilidad", "cookies", "privacidad", "rgpd",
	"formulario", "reservas", "pagos", "pasarela",
	"idiomas", "traducción", "contenido", "blog", "galería", "catálogo",
	"whatsapp", "google business", "gbp",
}

const (
	replyCutoff    = "Parece que nos estamos desviando. Solo puedo ayudarte con tu web y presupuesto. Cuando quieras retomamos."
	replyRedirect  = "Entiendo, pero para ayudarte de verdad necesito centrarme en tu web. ¿Qué sector es y qué objetivo buscas (leads, reservas, ecommerce)?"
	replyNoPromise = "Puedo orientarte y presupuestar las funcionalidades que necesitas."
)

var (
	markdownLink   = regexp.MustCompile(`(?i)\[([^\]]+)\]\(https?://[^\s)]+\)`)
	bareURL        = regexp.MustCompile(`(?i)\bhttps?://[^\s)]+`)
	deployPromise  = regexp.MustCompile(`(?im)\b(voy a|vamos a|puedo|voy) (crear|hacer|publicar|subir|generar)\b.*$`)
	replySanitizer = bluemonday.StrictPolicy()
)

// ErrAgentUnavailable signals that the chat model could not produce a reply.
var ErrAgentUnavailable = errors.New("agent: chat model unavailable")

// AgentReply is the agent's answer for one conversational turn.
type AgentReply struct {
	Reply      string `json:"reply"`
	RID        string `json:"rid"`
	Cutoff     bool   `json:"cutoff,omitempty"`
	Redirected bool   `json:"redirected,omitempty"`
}

// AgentServiceDeps bundles the collaborators of AgentService.
type AgentServiceDeps struct {
	Chat        ai.Client
	Catalog     *domain.Catalog
	Drift       *DriftTracker
	Model       string
	DriftCutoff int
	Logger      func(ctx context.Context, event string, fields map[string]any)
}

// AgentService drives the guided sales conversation: it keeps the model on
// topic, counts drift per session and sanitizes replies so the assistant
// never hands out links or promises deployments.
type AgentService struct {
	chat        ai.Client
	drift       *DriftTracker
	model       string
	driftCutoff int
	system      string
	logger      func(ctx context.Context, event string, fields map[string]any)
}

func NewAgentService(deps AgentServiceDeps) (*AgentService, error) {
	if deps.Chat == nil {
		return nil, errors.New("agent service: chat client is required")
	}
	if deps.Catalog == nil {
		return nil, errors.New("agent service: catalog is required")
	}
	if deps.Drift == nil {
		return nil, errors.New("agent service: drift tracker is required")
	}
	if deps.DriftCutoff <= 0 {
		deps.DriftCutoff = defaultDriftCutoff
	}
	if deps.Logger == nil {
		deps.Logger = func(context.Context, string, map[string]any) {}
	}

	entries := make([]ai.CatalogEntry, 0, deps.Catalog.Len())
	for _, sku := range deps.Catalog.All() {
		entries = append(entries, ai.CatalogEntry{ID: sku.ID, Title: sku.Title})
	}

	return &AgentService{
		chat:        deps.Chat,
		drift:       deps.Drift,
		model:       deps.Model,
		driftCutoff: deps.DriftCutoff,
		system:      ai.AgentSystemPrompt(entries),
		logger:      deps.Logger,
	}, nil
}

// Converse produces the agent's reply for the given transcript. sessionKey
// identifies the conversation for drift accounting. The returned error is
// non-nil only when the chat model fails; drift handling never errors.
func (s *AgentService) Converse(ctx context.Context, sessionKey string, messages []ai.Message, state map[string]any) (AgentReply, error) {
	rid := ulid.Make().String()
	lastUser := lastUserContent(messages)

	if isOffTopic(lastUser) {
		strikes := s.drift.Strike(sessionKey)
		s.logger(ctx, "agent.drift", map[string]any{"rid": rid, "strikes": strikes})
		if strikes >= s.driftCutoff {
			return AgentReply{Reply: replyCutoff, RID: rid, Cutoff: true}, nil
		}
		return AgentReply{Reply: replyRedirect, RID: rid, Redirected: true}, nil
	}
	s.drift.Reset(sessionKey)

	history := make([]ai.Message, 0, len(messages)+2)
	history = append(history,
		ai.Message{Role: ai.RoleSystem, Content: s.system},
		ai.Message{Role: ai.RoleUser, Content: ai.AgentContextPrompt(state)},
	)
	history = append(history, messages...)

	raw, err := s.chat.Chat(ctx, history, ai.ChatOptions{Model: s.model})
	if err != nil {
		s.logger(ctx, "agent.chat_failed", map[string]any{"rid": rid, "error": err.Error()})
		return AgentReply{RID: rid}, fmt.Errorf("%w: %v", ErrAgentUnavailable, err)
	}

	reply := SanitizeReply(raw)
	s.logger(ctx, "agent.reply", map[string]any{"rid": rid, "size": len(reply)})
	return AgentReply{Reply: reply, RID: rid}, nil
}

// SanitizeReply strips anything the assistant must never say: HTML, markdown
// links, raw URLs and first-person deployment promises.
func SanitizeReply(text string) string {
	out := html.UnescapeString(replySanitizer.Sanitize(text))
	out = markdownLink.ReplaceAllString(out, "$1")
	out = bareURL.ReplaceAllString(out, "[enlace omitido]")
	out = deployPromise.ReplaceAllString(out, replyNoPromise)
	return out
}

func lastUserContent(messages []ai.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == ai.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

func isOffTopic(text string) bool {
	return containsAny(text, bannedHints) && !containsAny(text, webIntent)
}

func containsAny(text string, words []string) bool {
	lowered := strings.ToLower(text)
	for _, w := range words {
		if strings.Contains(lowered, w) {
			return true
		}
	}
	return false
}
