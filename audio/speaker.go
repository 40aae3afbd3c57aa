package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// SpeakerPlayer mixes tones into the system audio device
type SpeakerPlayer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewSpeakerPlayer creates a player; call Initialize before sounds are heard
func NewSpeakerPlayer() *SpeakerPlayer {
	return &SpeakerPlayer{mixer: &beep.Mixer{}}
}

// Initialize opens the audio device with a 100ms buffer
func (p *SpeakerPlayer) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play queues s on the mixer; no-op until initialized
func (p *SpeakerPlayer) Play(s beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close clears pending sounds and releases the device
func (p *SpeakerPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}
