package ai

import (
	"fmt"
	"sort"
	"strings"
)

// SuggestPromptInput carries the business context embedded into the
// suggestion prompt.
type SuggestPromptInput struct {
	Sector      string
	Description string
	Objective   string
	Budget      int64
	Pages       int
	Languages   int
	AvoidSkus   []string
	CatalogIDs  []string
}

// SuggestPrompt renders the single-shot prompt asking the model for a
// strictly-JSON suggestion over the given catalog.
func SuggestPrompt(in SuggestPromptInput) string {
	var hints []string
	if in.Budget > 0 {
		hints = append(hints, fmt.Sprintf("- Presupuesto aprox: %d", in.Budget))
	}
	if in.Pages > 0 {
		hints = append(hints, fmt.Sprintf("- Páginas conocidas: %d", in.Pages))
	}
	if in.Languages > 0 {
		hints = append(hints, fmt.Sprintf("- Idiomas conocidos: %d", in.Languages))
	}

	avoidLine := ""
	if len(in.AvoidSkus) > 0 {
		avoidLine = fmt.Sprintf("- No sugieras estos elementos ni equivalentes: [%s].", strings.Join(in.AvoidSkus, ", "))
	}

	var b strings.Builder
	b.WriteString(`Eres un asesor de propuestas web. Devuelve ÚNICAMENTE JSON:
{
  "skusSuggested": string[],
  "customFeatures": [
    { "title": string, "description": string, "complexity": "low"|"med"|"high", "tags": string[] }
  ],
  "filledFields": { "pages": number, "languages": number, "products": number },
  "notes": string
}
Invariantes:
- Sugiere SOLO IDs del catálogo listado.
- Si el usuario rechazó algo, no lo incluyas ni como "customFeature".
- Si Páginas=1 ⇒ NO multipágina; incluye "one-page" si aplica.
`)
	if len(hints) > 0 {
		b.WriteString("\nPistas conocidas:\n")
		b.WriteString(strings.Join(hints, "\n"))
		b.WriteString("\n")
	}
	b.WriteString("Reglas:\n")
	fmt.Fprintf(&b, "- Catálogo disponible: [%s]\n", strings.Join(in.CatalogIDs, ", "))
	fmt.Fprintf(&b, "- Respeta estrictamente lo vetado. %s\n", avoidLine)
	b.WriteString(`- Puedes proponer "customFeatures" si no existe SKU equivalente, siempre que sea sensato y realizable por un dev fullstack.
- Evita inventar tarifas o planes mensuales genéricos.
- Aun con poco contexto, incluye 2-3 sugerencias sencillas y útiles.

Contexto:
`)
	fmt.Fprintf(&b, "- Sector: %s\n", orDash(in.Sector))
	fmt.Fprintf(&b, "- Descripción: %s\n", orDash(in.Description))
	fmt.Fprintf(&b, "- Objetivos: %s\n", orDash(in.Objective))
	if in.Budget > 0 {
		fmt.Fprintf(&b, "- Presupuesto: %d\n", in.Budget)
	} else {
		b.WriteString("- Presupuesto: -\n")
	}
	return b.String()
}

// CatalogEntry is the id/title pair the agent may reason over but must not
// surface to the user.
type CatalogEntry struct {
	ID    string
	Title string
}

// AgentSystemPrompt renders the system persona for the conversational agent.
func AgentSystemPrompt(catalog []CatalogEntry) string {
	pairs := make([]string, 0, len(catalog))
	for _, entry := range catalog {
		pairs = append(pairs, entry.ID+" -> "+entry.Title)
	}

	return `Eres el asistente virtual de un desarrollador web humano.
Tu misión es guiar a sus clientes potenciales de forma cordial y clara para:
- Explicar su negocio y objetivo principal.
- Descubrir qué funcionalidades necesita su web (catálogo + extras realistas).
- Resolver dudas comunes sobre web, hosting, dominios, SSL, DNS, correo y mantenimiento.
- Generar una propuesta y presupuesto inicial que luego validará el desarrollador.

IDENTIDAD Y LÍMITES
- Tú NO eres quien desarrolla ni despliega. Eres apoyo comercial/técnico.
- Nunca digas "voy a crear/subir/publicar/desplegar". Usa: "podemos presupuestar/estimar/planificar; el desarrollador se encarga del trabajo".
- No compartas enlaces inventados ni dominios de ejemplo. No generes URLs.
- No muestres IDs internos de catálogo.
- No digas "como asistente AI" ni "soy un modelo de lenguaje".
- No muestres razonamiento ni pasos internos. Responde solo el mensaje final.

TONO Y ESTILO
- Español, cercano y amable. Tuteo. Máx. 2 preguntas por turno.
- Si usas tecnicismos, añade una aclaración breve entre paréntesis.
- Respuestas de 2 a 4 frases.

FOCO Y REDIRECCIÓN
- Ignora temas no relacionados. Si hay desvío, redirige con una pregunta útil sobre la web.
- Si el usuario rechaza explícitamente una funcionalidad, no la repropongas.

CATÁLOGO (solo para razonar; NO lo muestres):
` + strings.Join(pairs, ", ")
}

// AgentContextPrompt summarises the collected conversation state for the
// model ahead of the user's messages.
func AgentContextPrompt(state map[string]any) string {
	if len(state) == 0 {
		return "Estado actual de la conversación: sin datos todavía."
	}
	var b strings.Builder
	b.WriteString("Estado actual de la conversación (campos ya conocidos):\n")
	for _, key := range sortedKeys(state) {
		fmt.Fprintf(&b, "- %s: %v\n", key, state[key])
	}
	return strings.TrimRight(b.String(), "\n")
}

func orDash(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	return s
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
