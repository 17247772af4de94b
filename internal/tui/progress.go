/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/coffeeshop/envctl/pkg/styles"
	"github.com/rs/zerolog/log"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// RunWithSpinner executes work while displaying a spinner.
// In interactive mode: spinner on one line, updated via \r on stderr.
// In non-interactive mode: logs at start and completion.
// work returns a short summary shown on success, eg, '200 OK, 1.2 kB'.
func RunWithSpinner(label string, work func() (string, error)) error {
	start := time.Now()

	if !isInteractiveMode {
		log.Info().Msgf("%s...", label)
	}

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if !isInteractiveMode {
			<-done
			return
		}
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for frame := 0; ; frame++ {
			fmt.Fprintf(os.Stderr, "\r %s %s...", styles.RenderMuted(spinnerFrames[frame%len(spinnerFrames)]), label)
			select {
			case <-done:
				// Clear the progress line.
				fmt.Fprintf(os.Stderr, "\r\033[K")
				return
			case <-ticker.C:
			}
		}
	}()

	summary, err := work()
	close(done)
	<-stopped
	elapsed := time.Since(start)

	if err != nil {
		log.Info().Msgf(" %s %s %s", styles.RenderError("✗"), label, styles.RenderError("[failed]"))
		return err
	}

	if summary != "" {
		summary += " "
	}
	log.Info().Msgf(" %s %s %s%s", styles.RenderSuccess("✓"), label, summary,
		styles.RenderMuted(fmt.Sprintf("[%.1fs]", elapsed.Seconds())))
	return nil
}
