package region

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"

	"planets-procgen/internal/initializers"
	"planets-procgen/internal/location"
	"planets-procgen/internal/planet"
)

// Reporter observes every visited coordinate. p is nil for empty space.
type Reporter interface {
	Report(c location.Coords, p *planet.Planet)
}

type NopReporter struct{}

func (NopReporter) Report(location.Coords, *planet.Planet) {}

// Reporters fans out to each reporter in order.
type Reporters []Reporter

func (rs Reporters) Report(c location.Coords, p *planet.Planet) {
	for _, r := range rs {
		r.Report(c, p)
	}
}

// LogReporter logs one line per planet found.
type LogReporter struct {
	logger *slog.Logger
}

func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogReporter{logger: logger.With("component", "region")}
}

func (r *LogReporter) Report(c location.Coords, p *planet.Planet) {
	if p == nil {
		return
	}
	r.logger.Info("planet found",
		"x", c.X,
		"y", c.Y,
		"level", p.Level,
		"type", p.Type.String(),
		"space_type", p.SpaceType.String(),
		"noise", p.Noise,
	)
}

// ListingReporter writes each planet as a commented coordinate entry, the
// format used for seeding planet lists by hand.
type ListingReporter struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

func NewListingReporter(w io.Writer) *ListingReporter {
	return &ListingReporter{w: w}
}

func (r *ListingReporter) Report(c location.Coords, p *planet.Planet) {
	if p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, "// Level %d %s SpaceType: %s Perlin: %d\n{x: %d, y: %d},\n",
		p.Level, p.Type.String(), p.SpaceType.String(), p.Noise, c.X, c.Y)
}

// Err returns the first write error.
func (r *ListingReporter) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Stats counts what a scan found. It is safe for concurrent use.
type Stats struct {
	mu sync.Mutex

	Visited     int                               `json:"visited"`
	Planets     int                               `json:"planets"`
	ByLevel     [initializers.LevelCount]int      `json:"by_level"`
	ByType      [initializers.PlanetTypeCount]int `json:"by_type"`
	BySpaceType [initializers.SpaceTypeCount]int  `json:"by_space_type"`
}

func (s *Stats) Report(_ location.Coords, p *planet.Planet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Visited++
	if p == nil {
		return
	}
	s.Planets++
	s.ByLevel[p.Level]++
	s.ByType[p.Type]++
	s.BySpaceType[p.SpaceType]++
}

// Summary renders the counts for humans, e.g.
// "1,024 coordinates scanned, 17 planets found (1.66%)".
func (s *Stats) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	density := 0.0
	if s.Visited > 0 {
		density = 100 * float64(s.Planets) / float64(s.Visited)
	}
	return fmt.Sprintf("%s coordinates scanned, %s planets found (%s%%)",
		humanize.Comma(int64(s.Visited)),
		humanize.Comma(int64(s.Planets)),
		humanize.FtoaWithDigits(density, 2),
	)
}
