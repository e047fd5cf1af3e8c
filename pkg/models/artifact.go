package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ArtifactKind identifies a downloadable output of a completed job.
type ArtifactKind string

const (
	ArtifactAudio ArtifactKind = "audio"
	ArtifactVideo ArtifactKind = "video"
	ArtifactText  ArtifactKind = "text"
)

// Fichiers produits dans le workspace puis publiés dans le storage
const (
	NarrationFile   = "narration.wav"
	ExplanationFile = "explanation.txt"
	VideoFile       = "final_video.mp4"
	StillVideoFile  = "final_video.png"
)

var contentTypes = map[string]string{
	".mp4": "video/mp4",
	".wav": "audio/wav",
	".txt": "text/plain",
	".png": "image/png",
}

func ParseArtifactKind(value string) (ArtifactKind, bool) {
	switch kind := ArtifactKind(value); kind {
	case ArtifactAudio, ArtifactVideo, ArtifactText:
		return kind, true
	}
	return "", false
}

// ContentTypeFor maps an artifact file name to its media type.
func ContentTypeFor(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Extension returns the file extension without the leading dot.
func Extension(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// SlideFile returns the workspace file name of the 1-based slide n.
func SlideFile(n int) string {
	return fmt.Sprintf("slide_%d.png", n)
}
