package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status message on one line until stopped or until its
// context ends.
type spinner struct {
	w      io.Writer
	ctx    context.Context
	cancel context.CancelFunc
	quit   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once

	mu      sync.Mutex
	message string
	width   int // widest line drawn so far
}

// startSpinner starts a spinner on statusOut.
func startSpinner(ctx context.Context, message string) *spinner {
	return startSpinnerOn(ctx, statusOut, message)
}

func startSpinnerOn(ctx context.Context, w io.Writer, message string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	s := &spinner{w: w, ctx: sctx, cancel: cancel, quit: make(chan struct{}), message: message}
	s.wg.Add(1)
	go s.run()
	return s
}

func (s *spinner) run() {
	defer s.wg.Done()
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.quit:
			return
		case <-s.ctx.Done():
			s.clear()
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
	s.width = max(s.width, len(s.message)+2)
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// update replaces the message shown from the next frame on.
func (s *spinner) update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// stop ends the animation and clears the line. It may be called more than once.
func (s *spinner) stop() {
	s.once.Do(func() { close(s.quit) })
	s.wg.Wait()
	s.cancel()
	s.clear()
}

// fail stops the spinner and prints message as an error line.
func (s *spinner) fail(message string) {
	s.stop()
	printError("%s", message)
}

// cancelled reports whether the parent context ended before stop.
func (s *spinner) cancelled() bool {
	select {
	case <-s.quit:
		return false
	default:
		return s.ctx.Err() != nil
	}
}
