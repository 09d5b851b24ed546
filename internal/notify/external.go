package notify

import (
	"log/slog"
	"os/exec"
	"regexp"

	"github.com/strrl/tiking/internal/clock"
	"github.com/strrl/tiking/internal/logging"
)

var soundURL = regexp.MustCompile(`(?i)^https?://`)

// ValidSoundURL reports whether url can be handed to the external player
func ValidSoundURL(url string) bool {
	return soundURL.MatchString(url)
}

// Starter launches a player process without waiting for it
type Starter func(name string, args ...string) error

// ExecStarter starts the command and reaps it in the background
func ExecStarter(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// External plays a user supplied sound at the end of a focus phase and
// delegates every other cue, or any playback failure, to Fallback.
type External struct {
	URL      string
	Player   []string
	Fallback clock.Sink
	Start    Starter
	Logger   *slog.Logger
}

func (x External) Notify(e clock.Event) {
	if CueFor(e) == CueFocusEnd && ValidSoundURL(x.URL) && len(x.Player) > 0 {
		start := x.Start
		if start == nil {
			start = ExecStarter
		}
		args := append(append([]string(nil), x.Player[1:]...), x.URL)
		err := start(x.Player[0], args...)
		if err == nil {
			return
		}
		x.logger().Debug("external sound failed", "player", x.Player[0], "error", err)
	}
	if x.Fallback != nil {
		x.Fallback.Notify(e)
	}
}

func (x External) logger() *slog.Logger {
	if x.Logger == nil {
		return logging.Discard()
	}
	return x.Logger
}
