package handlers

import (
	"net/http"

	"server/internal/domain"
	"server/internal/providers/prompt"
)

type promptSuggestion struct {
	Prompt string   `json:"prompt"`
	Styles []string `json:"styles"`
}

// PromptSuggest hands out a sample prompt plus the style modifiers for the
// requested generation type. A "prompt" query parameter keeps the caller's
// own text as the base, and a "style" parameter appends that modifier to
// it. Styles come back title-cased for display.
func (a *App) PromptSuggest(w http.ResponseWriter, r *http.Request) {
	kind := domain.GenerationKind(r.URL.Query().Get("type"))
	switch kind {
	case "":
		kind = domain.KindTextToImage
	case domain.KindTextToImage, domain.KindTextToVideo, domain.KindImageToVideo, domain.KindVeoVideo:
	default:
		a.error(w, http.StatusUnprocessableEntity, "validation", `Unknown generation type: "`+string(kind)+`".`)
		return
	}

	base := r.URL.Query().Get("prompt")
	if base == "" {
		base = a.Prompts.Suggest(kind)
	}
	if style := r.URL.Query().Get("style"); style != "" {
		base = prompt.AppendStyle(base, style)
	}

	a.json(w, http.StatusOK, promptSuggestion{
		Prompt: base,
		Styles: a.Prompts.TitledStyles(kind),
	})
}
