package speech

import (
	"context"
	"sync"
)

// Transcriber turns captured audio into a transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioBase64 string) (string, error)
}

// demoPhrases are the kind of counts staff call out during inventory.
var demoPhrases = []string{
	"I count twelve bottles of Tito's on the shelf",
	"about seven cases of Corona in the walk-in",
	"three bottles of Jameson left behind the bar",
	"we have 15 cans of Miller Lite",
	"nineteen bottles of house cabernet in the cellar",
}

// DemoTranscriber cycles through canned phrases when no speech-to-text
// credential is configured.
type DemoTranscriber struct {
	mu   sync.Mutex
	next int
}

func NewDemoTranscriber() *DemoTranscriber {
	return &DemoTranscriber{}
}

func (d *DemoTranscriber) Transcribe(ctx context.Context, audioBase64 string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	phrase := demoPhrases[d.next%len(demoPhrases)]
	d.next++
	return phrase, nil
}
