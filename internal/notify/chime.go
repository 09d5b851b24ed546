package notify

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/strrl/tiking/internal/clock"
	"github.com/strrl/tiking/internal/logging"
)

const bell = "\a"

// tones per cue: the start/end of focus is a two-note figure, breaks one note
var tones = map[Cue]int{
	CueFocusStart: 2,
	CueFocusEnd:   2,
	CueBreakStart: 1,
	CueBreakEnd:   1,
}

// Chime rings the terminal bell once per tone of the event's cue.
// Rings happen on a background goroutine so Notify never blocks.
type Chime struct {
	out    io.Writer
	gap    time.Duration
	logger *slog.Logger

	mu sync.Mutex // serialises writes to out
	wg sync.WaitGroup
}

// NewChime writes bells to out, spacing tones by gap
func NewChime(out io.Writer, gap time.Duration, logger *slog.Logger) *Chime {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Chime{out: out, gap: gap, logger: logger}
}

func (c *Chime) Notify(e clock.Event) {
	cue := CueFor(e)
	n := tones[cue]
	if n == 0 {
		return
	}
	c.wg.Add(1)
	go c.ring(cue, n)
}

// Wait blocks until every queued chime has been written
func (c *Chime) Wait() {
	c.wg.Wait()
}

func (c *Chime) ring(cue Cue, n int) {
	defer c.wg.Done()
	for i := 0; i < n; i++ {
		if i > 0 && c.gap > 0 {
			time.Sleep(c.gap)
		}
		c.mu.Lock()
		_, err := io.WriteString(c.out, bell)
		c.mu.Unlock()
		if err != nil {
			c.logger.Debug("chime write failed", "cue", cue, "error", err)
			return
		}
	}
}
