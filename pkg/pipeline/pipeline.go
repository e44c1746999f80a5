package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wellmate-ai/wellmate/pkg/common/logger"
	"github.com/wellmate-ai/wellmate/pkg/common/models"
	"github.com/wellmate-ai/wellmate/pkg/feature"
	"github.com/wellmate-ai/wellmate/pkg/model"
	"github.com/wellmate-ai/wellmate/pkg/recommend"
	"github.com/wellmate-ai/wellmate/pkg/risk"
	"github.com/wellmate-ai/wellmate/pkg/storage"
)

// ErrInFlight rejects a second prediction for a user whose previous one has
// not completed yet. The caller may retry after it finishes.
var ErrInFlight = errors.New("prediction already in flight for user")

const (
	baseConfidence     = 0.85
	degradedConfidence = 0.50
)

// Events is the publication boundary; kafka.Producer satisfies it.
type Events interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

// Pipeline runs one sample through build, standardize, score, adjust,
// classify, recommend and persist. All collaborators are injected; the
// pipeline owns its handles and keeps no ambient globals.
type Pipeline struct {
	spec     *feature.Spec
	builder  *feature.Builder
	adapter  *model.Adapter
	adjuster *risk.Adjuster
	engine   *recommend.Engine
	store    storage.Store
	events   Events // optional

	mu       sync.Mutex
	inflight map[string]struct{}
	states   map[string]State

	now func() time.Time
}

func New(spec *feature.Spec, adapter *model.Adapter, adjuster *risk.Adjuster, engine *recommend.Engine, store storage.Store, events Events) *Pipeline {
	return &Pipeline{
		spec:     spec,
		builder:  feature.NewBuilder(spec),
		adapter:  adapter,
		adjuster: adjuster,
		engine:   engine,
		store:    store,
		events:   events,
		inflight: make(map[string]struct{}),
		states:   make(map[string]State),
		now:      time.Now,
	}
}

// SetClock overrides the timestamp source. Tests only.
func (p *Pipeline) SetClock(now func() time.Time) {
	p.now = now
}

// StateFor returns the last published state for a user.
func (p *Pipeline) StateFor(userID string) State {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.states[userID]; ok {
		return s
	}
	return State{Kind: StateIdle}
}

// Run executes the full pipeline for one request. A second call for the same
// user while one is pending returns ErrInFlight. The computed score is
// returned even when persistence fails; the persistence failure rides along
// in the response. Work started before a caller cancellation still runs to
// completion, but no user-facing state is published after the cancel.
func (p *Pipeline) Run(ctx context.Context, req models.PredictRequest) (models.PredictResponse, error) {
	start := p.now()
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return models.PredictResponse{}, fmt.Errorf("user_id is required")
	}

	if !p.acquire(userID) {
		return models.PredictResponse{}, ErrInFlight
	}
	defer p.release(userID)
	p.publishState(ctx, userID, State{Kind: StateRunning})

	resp, err := p.run(ctx, userID, req, start)
	if err != nil {
		p.publishState(ctx, userID, State{
			Kind:    StateFailed,
			ErrKind: errorKindOf(err),
			Message: err.Error(),
		})
		return models.PredictResponse{}, err
	}

	score := resp.Score
	p.publishState(ctx, userID, State{Kind: StateOk, Score: &score})
	return resp, nil
}

func (p *Pipeline) run(ctx context.Context, userID string, req models.PredictRequest, start time.Time) (models.PredictResponse, error) {
	vector, err := p.builder.Build(req.Sample)
	if err != nil {
		return models.PredictResponse{}, fmt.Errorf("build features: %w", err)
	}

	standardized, err := feature.Standardize(vector, p.spec)
	if err != nil {
		return models.PredictResponse{}, fmt.Errorf("standardize features: %w", err)
	}

	raw, err := p.adapter.Score(ctx, standardized)
	if err != nil {
		return models.PredictResponse{}, err
	}

	// The adapter passes finite backend output through untouched; the [0,100]
	// score range is enforced here before anything downstream sees it.
	rawScore := clampScore(raw.Value)
	adjustment := p.adjuster.Adjust(rawScore, req.Sample)
	category := risk.Classify(adjustment.Adjusted)

	confidence := baseConfidence
	if raw.Degraded {
		confidence = degradedConfidence
	}

	score := models.RiskScore{
		Raw:        rawScore,
		Adjusted:   adjustment.Adjusted,
		Category:   category,
		Confidence: confidence,
		Reason:     reasonFor(adjustment, raw.Degraded),
	}

	bundle := p.engine.Recommend(req.Sample, adjustment.Adjusted, req.Goal, req.DietType, req.ActivityLevel)

	record := &models.ResultRecord{
		ID:             uuid.New(),
		UserID:         userID,
		Timestamp:      p.now().UnixMilli(),
		Score:          score,
		Recommendation: bundle,
	}

	resp := models.PredictResponse{
		UserID:         userID,
		Score:          score,
		Recommendation: bundle,
		RecordID:       record.ID,
		Latency:        p.now().Sub(start),
	}

	// Persist on a detached context so a caller walking away mid-flight does
	// not leave partial state behind.
	persistCtx := context.WithoutCancel(ctx)
	if err := p.store.Insert(persistCtx, record); err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("result persistence failed")
		resp.PersistError = err.Error()
		return resp, nil
	}
	resp.Persisted = true

	if p.events != nil {
		data := map[string]interface{}{
			"record_id": record.ID.String(),
			"user_id":   userID,
			"score":     score.Adjusted,
			"category":  string(score.Category),
		}
		if err := p.events.PublishEvent(persistCtx, "score.computed", "scoring-service", data); err != nil {
			logger.Log.WithError(err).Warn("score.computed event not published")
		}
	}

	return resp, nil
}

// Latest returns the most recent persisted record for a user.
func (p *Pipeline) Latest(ctx context.Context, userID string) (*models.ResultRecord, error) {
	return p.store.LatestFor(ctx, userID)
}

// Recent returns up to limit records for a user, newest first.
func (p *Pipeline) Recent(ctx context.Context, userID string, limit int) ([]models.ResultRecord, error) {
	return p.store.RecentFor(ctx, userID, limit)
}

func (p *Pipeline) acquire(userID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.inflight[userID]; busy {
		return false
	}
	p.inflight[userID] = struct{}{}
	return true
}

func (p *Pipeline) release(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inflight, userID)
}

// publishState records the user-facing state unless the caller has already
// abandoned the flow.
func (p *Pipeline) publishState(ctx context.Context, userID string, state State) {
	if ctx.Err() != nil {
		return
	}
	p.mu.Lock()
	p.states[userID] = state
	p.mu.Unlock()
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func reasonFor(adjustment risk.Adjustment, degraded bool) string {
	parts := []string{"model + BMI adjustment"}
	if adjustment.FloorApplied {
		parts = append(parts, "comorbidity floor")
	}
	if degraded {
		parts = append(parts, "clamped model output")
	}
	return strings.Join(parts, ", ")
}
