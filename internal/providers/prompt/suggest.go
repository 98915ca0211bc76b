package prompt

import (
	"math/rand"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"server/internal/domain"
)

var imageSamples = []string{
	"A cinematic shot of a raccoon chief in tribal gear, navigating a futuristic forest.",
	"A photorealistic image of a glass apple reflecting a galaxy.",
	"An oil painting of a whimsical bookshop on a rainy Parisian street.",
	"A synthwave-style illustration of a robot DJing at a party on Mars.",
	"A high-fashion cat wearing a custom-tailored suit, walking down a runway.",
	"A majestic lion with a nebula-patterned mane, standing on a cliff overlooking a starlit ocean.",
	"An enchanted, glowing mushroom forest at midnight with fireflies lighting up the scene.",
}

var videoSamples = []string{
	"A time-lapse video of a fantasy city being built from scratch.",
	"An astronaut floating in space, playing a guitar with Earth in the background.",
	"A drone shot flying through a lush, tropical jungle with waterfalls.",
	"A cute robot delivering a flower to another robot in a futuristic park.",
	"A magical library where books fly off the shelves and open themselves.",
}

var imageStyles = []string{
	"3D render", "3D model", "isometric view", "cartoonish", "futuristic", "textured", "glossy overlay", "Vray render",
	"cinematic", "photorealistic", "cinematic lighting", "dramatic portrait", "moody cityscape", "wide-angle shot", "lens flare", "golden hour sunlight",
}

var videoStyles = []string{
	"cinematic", "dramatic lighting", "film noir", "rich colors", "shallow depth of field",
	"3D animation", "cartoonish", "anime style", "2D animated", "stop-motion",
	"photorealistic", "ultra-high resolution", "lifelike", "hyperrealistic", "4K video",
	"surreal", "impressionistic", "watercolor", "vintage", "cyberpunk", "vaporwave aesthetic",
}

// Suggester hands out sample prompts and style modifiers per generation kind.
type Suggester struct {
	rng *rand.Rand
}

// NewSuggester builds a Suggester. Pass a seeded rand for deterministic
// output in tests; nil falls back to the shared global source.
func NewSuggester(rng *rand.Rand) *Suggester {
	return &Suggester{rng: rng}
}

// Suggest returns one random sample prompt for the given kind.
func (s *Suggester) Suggest(kind domain.GenerationKind) string {
	pool := imageSamples
	if kind.IsVideo() {
		pool = videoSamples
	}
	return pool[s.intn(len(pool))]
}

// Styles lists the style modifiers offered for the given kind.
func (s *Suggester) Styles(kind domain.GenerationKind) []string {
	if kind.IsVideo() {
		return append([]string(nil), videoStyles...)
	}
	return append([]string(nil), imageStyles...)
}

// TitledStyles returns the style list with each entry title-cased, for
// display surfaces that want headline capitalization.
func (s *Suggester) TitledStyles(kind domain.GenerationKind) []string {
	c := cases.Title(language.Und)
	styles := s.Styles(kind)
	out := make([]string, len(styles))
	for i, style := range styles {
		out[i] = c.String(style)
	}
	return out
}

func (s *Suggester) intn(n int) int {
	if s.rng != nil {
		return s.rng.Intn(n)
	}
	return rand.Intn(n)
}

// AppendStyle attaches a style modifier to a prompt, comma-separated. An
// empty prompt takes the style verbatim.
func AppendStyle(prompt, style string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return style
	}
	return prompt + ", " + style
}
