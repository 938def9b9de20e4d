package scoring

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/hupe1980/msgflow/logging"
	"github.com/hupe1980/msgflow/message"
)

// Scorer assigns a numeric score to a completed exchange. Implementations
// read the messages (text, metadata paths, chain traversal) but must not
// mutate them.
type Scorer interface {
	Score(input, output *message.Message) (float64, error)
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(input, output *message.Message) (float64, error)

// Score implements Scorer.
func (f ScorerFunc) Score(input, output *message.Message) (float64, error) {
	return f(input, output)
}

// ResultEquals returns a Scorer granting 1.0 when the output's structured
// result deep-equals the expectation stored on the input under wantPath, and
// 0.0 otherwise.
func ResultEquals(wantPath string) Scorer {
	return ScorerFunc(func(input, output *message.Message) (float64, error) {
		want := input.Get(wantPath, nil)
		if want == nil {
			return 0, fmt.Errorf("scoring: input has no expectation at %q", wantPath)
		}
		if reflect.DeepEqual(output.Result(), want) {
			return 1, nil
		}
		return 0, nil
	})
}

// Record captures one audited exchange.
type Record struct {
	ID     string
	Input  *message.Message
	Output *message.Message
	Score  float64
}

// Summary aggregates the state of a scoring run.
type Summary struct {
	NumCompleted int     `json:"num_completed"`
	NumScored    int     `json:"num_scored"`
	NumFailures  int     `json:"num_failures"`
	ScoreRate    float64 `json:"score_rate"`
	FailureRate  float64 `json:"failure_rate"`
	AvgScore     float64 `json:"avg_score"`
}

// Options configures a Scoring harness.
type Options struct {
	// Logger receives per-exchange audit logs. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Scoring accumulates scored records over audited exchanges. Safe for
// concurrent audits.
type Scoring struct {
	scorer Scorer
	logger logging.Logger

	mu        sync.Mutex
	completed int
	scored    []Record
	failures  []error
}

// New creates a scoring harness around the given scorer.
func New(scorer Scorer, optFns ...func(o *Options)) *Scoring {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Scoring{scorer: scorer, logger: opts.Logger}
}

// Audit scores one completed exchange and records the outcome.
func (s *Scoring) Audit(input, output *message.Message) {
	score, err := s.scorer.Score(input, output)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed++
	if err != nil {
		s.failures = append(s.failures, err)
		s.logger.Error("scoring failed", "error", err)
		return
	}
	rec := Record{ID: uuid.NewString(), Input: input, Output: output, Score: score}
	s.scored = append(s.scored, rec)
	s.logger.Debug("exchange scored", "id", rec.ID, "score", score)
}

// Scored returns a copy of the scored records in audit order.
func (s *Scoring) Scored() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := make([]Record, len(s.scored))
	copy(recs, s.scored)
	return recs
}

// Failures returns a copy of the scorer errors in audit order.
func (s *Scoring) Failures() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	errs := make([]error, len(s.failures))
	copy(errs, s.failures)
	return errs
}

// NumScored returns the number of successfully scored exchanges.
func (s *Scoring) NumScored() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scored)
}

// AvgScore returns the mean score over scored exchanges, 0 when empty.
func (s *Scoring) AvgScore() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.avgScoreLocked()
}

func (s *Scoring) avgScoreLocked() float64 {
	if len(s.scored) == 0 {
		return 0
	}
	var sum float64
	for _, r := range s.scored {
		sum += r.Score
	}
	return sum / float64(len(s.scored))
}

// ScoreRate returns scored / completed, 0 when nothing has completed.
func (s *Scoring) ScoreRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed == 0 {
		return 0
	}
	return float64(len(s.scored)) / float64(s.completed)
}

// FailureRate returns failures / completed, 0 when nothing has completed.
func (s *Scoring) FailureRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed == 0 {
		return 0
	}
	return float64(len(s.failures)) / float64(s.completed)
}

// Summarize returns a snapshot of the run's aggregate metrics.
func (s *Scoring) Summarize() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := Summary{
		NumCompleted: s.completed,
		NumScored:    len(s.scored),
		NumFailures:  len(s.failures),
		AvgScore:     s.avgScoreLocked(),
	}
	if s.completed > 0 {
		sum.ScoreRate = float64(len(s.scored)) / float64(s.completed)
		sum.FailureRate = float64(len(s.failures)) / float64(s.completed)
	}
	return sum
}
