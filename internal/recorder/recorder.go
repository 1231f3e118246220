package recorder

import (
	"errors"
	"time"

	"StockLens/internal/model"
)

// ErrNoRuns is returned by LatestRun when a symbol has no recorded runs.
var ErrNoRuns = errors.New("recorder: no runs recorded")

// Run is one stored analysis: the header row plus the latest indicator readings.
type Run struct {
	ID          int64                  `json:"id"`
	Symbol      string                 `json:"symbol"`
	Period      string                 `json:"period"`
	Interval    string                 `json:"interval"`
	Source      string                 `json:"source"`
	ComputedAt  time.Time              `json:"computed_at"`
	BarCount    int                    `json:"bar_count"`
	FirstDate   string                 `json:"first_date"`
	LastDate    string                 `json:"last_date"`
	LatestClose float64                `json:"latest_close"`
	Position52w float64                `json:"position_52w"`
	Latest      map[string]model.Value `json:"latest"`
}

// Recorder persists analysis history.
type Recorder interface {
	RecordAnalysis(a *model.Analysis) (int64, error)
	LatestRun(symbol string) (*Run, error)
	Close() error
}
