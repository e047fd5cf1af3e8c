package models

// DefaultSectionDuration is the estimated narration time of one slide, in seconds.
const DefaultSectionDuration = 30

// Section est une unité de contenu rendue en une slide
// @Description Section d'explication rendue en une slide
type Section struct {
	Title             string   `json:"title" example:"What is photosynthesis?"`
	Subheading        string   `json:"subheading,omitempty" example:"Plants turning light into food"`
	Content           string   `json:"content" example:"Photosynthesis is the process..."`
	KeyPoints         []string `json:"key_points"`
	VisualDescription string   `json:"visual_description,omitempty" example:"A leaf absorbing sunlight"`
	DurationEstimate  int      `json:"duration_estimate" example:"30"`
} // @name Section

// ResultData décrit le résultat d'un job terminé
// @Description Artefacts et sections d'un job terminé
type ResultData struct {
	Topic       string    `json:"topic" example:"Photosynthesis"`
	Summary     string    `json:"summary,omitempty"`
	KeyConcepts []string  `json:"key_concepts,omitempty"`
	Sections    []Section `json:"sections"`
	AudioPath   string    `json:"audio_path,omitempty" example:"outputs/550e8400-e29b-41d4-a716-446655440000/narration.wav"`
	VideoPath   string    `json:"video_path,omitempty" example:"outputs/550e8400-e29b-41d4-a716-446655440000/final_video.mp4"`
	TextPath    string    `json:"text_path,omitempty" example:"outputs/550e8400-e29b-41d4-a716-446655440000/explanation.txt"`
	VisualPaths []string  `json:"visual_paths,omitempty"`
	Duration    int       `json:"duration" example:"120"`
	VideoFormat string    `json:"video_format,omitempty" example:"mp4" enums:"mp4,png"`
} // @name ResultData

// Clone returns a deep copy of the result, nil-safe.
func (r *ResultData) Clone() *ResultData {
	if r == nil {
		return nil
	}
	cp := *r
	cp.KeyConcepts = append([]string(nil), r.KeyConcepts...)
	cp.VisualPaths = append([]string(nil), r.VisualPaths...)
	if r.Sections != nil {
		cp.Sections = make([]Section, len(r.Sections))
		for i, s := range r.Sections {
			s.KeyPoints = append([]string(nil), s.KeyPoints...)
			cp.Sections[i] = s
		}
	}
	return &cp
}

// ArtifactPath returns the storage key recorded for kind, or "" if absent.
func (r *ResultData) ArtifactPath(kind ArtifactKind) string {
	if r == nil {
		return ""
	}
	switch kind {
	case ArtifactAudio:
		return r.AudioPath
	case ArtifactVideo:
		return r.VideoPath
	case ArtifactText:
		return r.TextPath
	}
	return ""
}

// SlidePath returns the storage key of the 1-based slide n.
func (r *ResultData) SlidePath(n int) (string, bool) {
	if r == nil || n < 1 || n > len(r.VisualPaths) {
		return "", false
	}
	return r.VisualPaths[n-1], true
}
