package alert

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pulsewatch/internal/metrics"
	"github.com/pulsewatch/internal/models"
	"github.com/pulsewatch/internal/store"
	"golang.org/x/sync/semaphore"
)

const (
	defaultMaxConcurrentEvaluations = 10
	defaultRuleTimeout              = 10 * time.Second
	defaultBatchTimeout             = 2 * time.Minute
)

// MetricSource is the evaluator's view of the metric store.
type MetricSource interface {
	Fetch(ctx context.Context, metricType string, query map[string]interface{}, window time.Duration) (metrics.Components, error)
}

// Evaluator runs the per-tick evaluation batch: eligible rules are fetched,
// each is aggregated and compared, positive results go through the
// lifecycle manager. One bad rule never aborts the batch.
type Evaluator struct {
	rules         store.Rules
	source        MetricSource
	lifecycle     *Lifecycle
	interval      time.Duration
	ruleTimeout   time.Duration
	batchTimeout  time.Duration
	maxConcurrent int64
	running       atomic.Bool // single batch at a time, overlapping ticks are skipped
	stopChan      chan struct{}
	now           func() time.Time
}

type EvaluatorOption func(*Evaluator)

func WithRuleTimeout(d time.Duration) EvaluatorOption {
	return func(e *Evaluator) { e.ruleTimeout = d }
}

func WithBatchTimeout(d time.Duration) EvaluatorOption {
	return func(e *Evaluator) { e.batchTimeout = d }
}

func WithMaxConcurrent(n int64) EvaluatorOption {
	return func(e *Evaluator) { e.maxConcurrent = n }
}

func NewEvaluator(rules store.Rules, source MetricSource, lifecycle *Lifecycle, interval time.Duration, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		rules:         rules,
		source:        source,
		lifecycle:     lifecycle,
		interval:      interval,
		ruleTimeout:   defaultRuleTimeout,
		batchTimeout:  defaultBatchTimeout,
		maxConcurrent: defaultMaxConcurrentEvaluations,
		stopChan:      make(chan struct{}),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start runs the scheduler loop until Stop is called.
func (e *Evaluator) Start() {
	ticker := time.NewTicker(e.interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := e.RunBatch(context.Background()); err != nil {
					log.Printf("Evaluation batch failed: %v", err)
				}
			case <-e.stopChan:
				return
			}
		}
	}()
}

func (e *Evaluator) Stop() {
	close(e.stopChan)
}

// RunBatch evaluates every eligible rule once. If a previous batch is still
// in flight the tick is skipped, so overlapping ticks can never evaluate
// the same rule twice concurrently.
func (e *Evaluator) RunBatch(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		log.Printf("Previous evaluation batch still running, skipping tick")
		return nil
	}
	defer e.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, e.batchTimeout)
	defer cancel()

	now := e.now()
	rules, err := e.rules.ListEligible(now)
	if err != nil {
		return err
	}

	sem := semaphore.NewWeighted(e.maxConcurrent)
	var wg sync.WaitGroup

	for i := range rules {
		rule := rules[i]
		if !Eligible(&rule, now) {
			continue
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			// Batch deadline hit; remaining rules wait for the next tick.
			log.Printf("Evaluation batch deadline exceeded, %d rules deferred", len(rules)-i)
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			e.evaluateRule(ctx, &rule)
		}()
	}

	wg.Wait()
	return nil
}

// evaluateRule runs the metric -> aggregation -> condition -> trigger
// pipeline for one rule. Failures are logged and contained; last_checked_at
// is stamped whether or not the rule triggered.
func (e *Evaluator) evaluateRule(ctx context.Context, rule *models.AlertRule) {
	defer func() {
		if err := e.rules.MarkChecked(rule.ID, e.now()); err != nil {
			log.Printf("Failed to mark rule %d checked: %v", rule.ID, err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, e.ruleTimeout)
	defer cancel()

	components, err := e.source.Fetch(ctx, rule.MetricType, rule.MetricQuery, rule.Window())
	if err != nil {
		log.Printf("%v", &EvaluationError{RuleID: rule.ID, Err: err})
		return
	}

	value := ResolveAggregation(rule.Aggregation, components)
	if !EvaluateCondition(value, rule.Condition, rule.Threshold, rule.CompareValue) {
		return
	}

	alert, err := e.lifecycle.Trigger(ctx, rule, value)
	if err != nil {
		log.Printf("Failed to create alert for rule %d: %v", rule.ID, err)
		return
	}
	log.Printf("Rule %d (%s) triggered alert %d: value %.2f, threshold %.2f",
		rule.ID, rule.Name, alert.ID, value, rule.Threshold)
}
