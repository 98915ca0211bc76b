package domain

// GenerationKind identifies which generator a request targets. The values
// double as the history item type labels shown to users.
type GenerationKind string

const (
	KindTextToImage  GenerationKind = "Text to Image"
	KindTextToVideo  GenerationKind = "Text to Video"
	KindImageToVideo GenerationKind = "Image to Video"
	KindVeoVideo     GenerationKind = "Veo Video"
)

// IsVideo reports whether the kind produces video output and therefore goes
// through the asynchronous submit/poll/fetch flow.
func (k GenerationKind) IsVideo() bool {
	switch k {
	case KindTextToVideo, KindImageToVideo, KindVeoVideo:
		return true
	}
	return false
}

// RequiresPrompt reports whether a non-empty prompt is mandatory. Image to
// Video accepts an empty prompt and falls back to a default instruction.
func (k GenerationKind) RequiresPrompt() bool {
	return k != KindImageToVideo
}

// Valid reports whether k is one of the known kinds.
func (k GenerationKind) Valid() bool {
	switch k {
	case KindTextToImage, KindTextToVideo, KindImageToVideo, KindVeoVideo:
		return true
	}
	return false
}

// InputImage carries the uploaded source image for image-driven requests.
type InputImage struct {
	Data     []byte
	MimeType string
}

// GenerationRequest is the immutable description of a single generation
// attempt as collected from the user. Options that do not apply to the kind
// are ignored.
type GenerationRequest struct {
	Kind        GenerationKind
	Prompt      string
	Image       *InputImage
	AspectRatio string
	ImageCount  int
	Dialogue    string
}

// GenerationResult is the terminal success outcome of one request.
type GenerationResult struct {
	// Outputs are displayable references: inline data URLs for images,
	// locally served asset URLs for videos.
	Outputs []string
	// FinalPrompt is the prompt actually sent to the provider, which may
	// differ from the user-entered prompt (dialogue suffix, default text).
	FinalPrompt string
	// Parameters echoes the resolved option set for the history record.
	Parameters map[string]any
	// HistoryID identifies the appended history item.
	HistoryID string
}
