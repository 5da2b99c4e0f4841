package formatter

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// lineSpinner uses the same frames as the TUI loading spinner.
var lineSpinner = spinner.Dot

// WithSpinner runs fn while animating message on out, then clears the line.
// With animate false, fn simply runs.
func WithSpinner[T any](out io.Writer, animate bool, message string, fn func() (T, error)) (T, error) {
	if !animate {
		return fn()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		animateLine(ctx, out, message)
	}()

	v, err := fn()
	cancel()
	<-done
	return v, err
}

func animateLine(ctx context.Context, out io.Writer, message string) {
	ticker := time.NewTicker(lineSpinner.FPS)
	defer ticker.Stop()
	for i := 0; ; i++ {
		frame := lineSpinner.Frames[i%len(lineSpinner.Frames)]
		fmt.Fprintf(out, "\r  %s %s", StylePurple.Render(frame), Dim(message))
		select {
		case <-ctx.Done():
			fmt.Fprint(out, "\r\033[K")
			return
		case <-ticker.C:
		}
	}
}
