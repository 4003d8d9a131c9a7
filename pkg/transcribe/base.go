// Package transcribe defines the speech-to-text collaborator contract.
// It is consumed only by voice-capable entry points, never by the memory
// pipeline itself.
package transcribe

import "context"

// Transcriber converts recorded audio into text.
type Transcriber interface {
	// Transcribe converts the audio file at path into text. language is a
	// short hint like "en" or "fr-FR"; implementations may normalize it.
	Transcribe(ctx context.Context, path, language string) (string, error)

	// Close releases any resources held by the transcriber.
	Close() error
}
