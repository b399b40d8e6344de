// Package runner wires the pipeline end to end: batch reading,
// normalization, scrubbing, coercion, validation, partitioning, chunk
// writes and the streaming final merge. Batch-level failures are caught
// at the batch boundary and never escalate; the run continues with the
// next batch.
package runner

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sievedata/sieve/pkg/io/csvio"
	"github.com/sievedata/sieve/pkg/io/jsonlio"
	"github.com/sievedata/sieve/pkg/io/parquetio"
	"github.com/sievedata/sieve/pkg/profile"
	"github.com/sievedata/sieve/pkg/sieve"
	"github.com/sievedata/sieve/pkg/transform/convert"
	"github.com/sievedata/sieve/pkg/transform/normalize"
	"github.com/sievedata/sieve/pkg/transform/scrub"
	"github.com/sievedata/sieve/pkg/transform/validate"
)

// Result is what a run reports back: one outcome per batch, in order,
// plus the accumulated totals.
type Result struct {
	Outcomes []sieve.BatchOutcome
	Summary  profile.Summary
}

// FailedBatches counts the batches dropped during the run.
func (r *Result) FailedBatches() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Failed() {
			n++
		}
	}
	return n
}

type Runner struct {
	cfg   sieve.Config
	log   zerolog.Logger
	prof  *profile.Collector
	extra []sieve.Transform

	norm *normalize.Mapper
	pipe *sieve.Pipeline

	cleanFinal    *csvio.StreamWriter
	garbageFinal  *csvio.StreamWriter
	cleanMirror   *parquetio.StreamWriter
	garbageMirror *parquetio.StreamWriter
	audit         *jsonlio.AuditWriter
}

type Option func(*Runner)

// WithTransform appends an extra step after the built-in pipeline.
func WithTransform(t sieve.Transform) Option {
	return func(r *Runner) { r.extra = append(r.extra, t) }
}

func New(cfg sieve.Config, log zerolog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:  cfg,
		log:  log.With().Str("run_id", uuid.NewString()).Logger(),
		prof: profile.NewCollector(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.norm = normalize.New(cfg.Rename, r.prof)
	r.pipe = sieve.NewPipeline().
		Add(scrub.New(cfg.ScrubColumns, cfg.ScrubPattern, r.prof)).
		Add(&convert.Dates{}).
		Add(validate.NewChecks(r.prof)).
		Add(validate.NewDuplicates(cfg.DuplicateScope == sieve.ScopeGlobal))
	for _, t := range r.extra {
		r.pipe.Add(t)
	}
	return r
}

// Run processes the whole input. The returned error is non-nil only for
// run-level failures (bad config, missing input); per-batch failures are
// reported through the Result.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}
	r.log.Info().Str("input", r.cfg.Input).Int("batch_size", r.cfg.BatchSize).Msg("starting data processing")

	br, err := csvio.NewBatchReader(r.cfg.Input, csvio.ReaderOptions{
		Delimiter: rune(r.cfg.Delimiter[0]),
		BatchSize: r.cfg.BatchSize,
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = br.Close() }()

	if r.cfg.Audit != "" {
		aw, err := jsonlio.NewAuditWriter(r.cfg.Audit)
		if err != nil {
			return nil, fmt.Errorf("open audit stream: %w", err)
		}
		r.audit = aw
	}
	defer r.closeSinks()

	res := &Result{}
	for {
		raw, err := br.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A read error poisons the rest of the sequence; the batch it
			// hit is dropped and the run ends.
			r.log.Error().Err(err).Msg("batch read failed, stopping")
			res.Outcomes = append(res.Outcomes, sieve.FailedBatch(len(res.Outcomes)+1, err))
			r.prof.ObserveBatch(0, 0, true)
			break
		}
		r.log.Info().Int("batch", raw.Index).Int("rows", len(raw.Rows)).Msg("processing batch")
		r.log.Debug().Strs("columns", raw.Header).Int("batch", raw.Index).Msg("source columns")

		o := r.processBatch(ctx, raw)
		if o.Failed() {
			r.log.Error().Err(o.Err).Int("batch", o.Batch).Msg("batch failed, skipping")
		}
		res.Outcomes = append(res.Outcomes, o)
		r.prof.ObserveBatch(o.Valid, o.Garbage, o.Failed())
	}

	res.Summary = r.prof.Summary()
	r.log.Info().
		Int("batches", res.Summary.Batches).
		Int("failed_batches", res.Summary.FailedBatches).
		Int("valid_rows", res.Summary.ValidRows).
		Int("garbage_rows", res.Summary.GarbageRows).
		Msg("data processing complete")
	return res, nil
}

// processBatch runs one batch through the pipeline and writes its
// outputs. Panics are recovered at this boundary so one poisoned batch
// cannot take down the run.
func (r *Runner) processBatch(ctx context.Context, raw *sieve.RawBatch) (out sieve.BatchOutcome) {
	defer func() {
		if p := recover(); p != nil {
			out = sieve.FailedBatch(raw.Index, fmt.Errorf("batch %d: panic: %v", raw.Index, p))
		}
	}()

	b := r.norm.Normalize(raw)
	b, err := r.pipe.Run(ctx, b)
	if err != nil {
		return sieve.FailedBatch(raw.Index, err)
	}
	valid, garbage := sieve.Partition(b)
	r.log.Info().Int("batch", raw.Index).Int("garbage_rows", garbage.Len()).Msg("validated batch")

	cleanPath := fmt.Sprintf("%s_chunk_%d.csv", r.cfg.CleanPrefix, raw.Index)
	if err := csvio.WriteBatch(cleanPath, valid); err != nil {
		return sieve.FailedBatch(raw.Index, fmt.Errorf("write clean chunk: %w", err))
	}
	r.log.Info().Int("batch", raw.Index).Str("file", cleanPath).Msg("saved clean chunk")

	if garbage.Len() > 0 {
		garbagePath := fmt.Sprintf("%s_chunk_%d.csv", r.cfg.GarbagePrefix, raw.Index)
		if err := csvio.WriteBatch(garbagePath, garbage); err != nil {
			return sieve.FailedBatch(raw.Index, fmt.Errorf("write garbage chunk: %w", err))
		}
		r.log.Info().Int("batch", raw.Index).Str("file", garbagePath).Msg("saved garbage chunk")
	} else {
		r.log.Debug().Int("batch", raw.Index).Msg("no garbage in batch")
	}

	if err := r.openFinals(); err != nil {
		return sieve.FailedBatch(raw.Index, fmt.Errorf("open final outputs: %w", err))
	}
	if err := r.cleanFinal.Append(valid); err != nil {
		return sieve.FailedBatch(raw.Index, fmt.Errorf("append clean final: %w", err))
	}
	if err := r.garbageFinal.Append(garbage); err != nil {
		return sieve.FailedBatch(raw.Index, fmt.Errorf("append garbage final: %w", err))
	}
	if r.cleanMirror != nil {
		if err := r.cleanMirror.Append(valid); err != nil {
			return sieve.FailedBatch(raw.Index, fmt.Errorf("append clean parquet: %w", err))
		}
		if err := r.garbageMirror.Append(garbage); err != nil {
			return sieve.FailedBatch(raw.Index, fmt.Errorf("append garbage parquet: %w", err))
		}
	}
	if r.audit != nil {
		if err := r.audit.WriteBatch(garbage); err != nil {
			return sieve.FailedBatch(raw.Index, fmt.Errorf("append audit: %w", err))
		}
	}
	for i := range garbage.Records {
		r.prof.AddFailures(garbage.Records[i].Flags.Failures())
	}
	return sieve.Succeeded(raw.Index, valid.Len(), garbage.Len())
}

// openFinals lazily creates the merged outputs on the first batch that
// gets far enough to contribute rows. A run with zero successful batches
// therefore produces no final files at all.
func (r *Runner) openFinals() error {
	if r.cleanFinal != nil {
		return nil
	}
	cw, err := csvio.NewStreamWriter(r.cfg.CleanPrefix + "_final.csv")
	if err != nil {
		return err
	}
	gw, err := csvio.NewStreamWriter(r.cfg.GarbagePrefix + "_final.csv")
	if err != nil {
		_ = cw.Close()
		return err
	}
	r.cleanFinal, r.garbageFinal = cw, gw
	if r.cfg.Parquet {
		cm, err := parquetio.NewStreamWriter(r.cfg.CleanPrefix + "_final.parquet")
		if err != nil {
			return err
		}
		gm, err := parquetio.NewStreamWriter(r.cfg.GarbagePrefix + "_final.parquet")
		if err != nil {
			_ = cm.Close()
			return err
		}
		r.cleanMirror, r.garbageMirror = cm, gm
	}
	return nil
}

func (r *Runner) closeSinks() {
	if r.cleanFinal != nil {
		if err := r.cleanFinal.Close(); err != nil {
			r.log.Warn().Err(err).Msg("closing clean final")
		}
		if err := r.garbageFinal.Close(); err != nil {
			r.log.Warn().Err(err).Msg("closing garbage final")
		}
	}
	if r.cleanMirror != nil {
		if err := r.cleanMirror.Close(); err != nil {
			r.log.Warn().Err(err).Msg("closing clean parquet mirror")
		}
		if err := r.garbageMirror.Close(); err != nil {
			r.log.Warn().Err(err).Msg("closing garbage parquet mirror")
		}
	}
	if r.audit != nil {
		if err := r.audit.Close(); err != nil {
			r.log.Warn().Err(err).Msg("closing audit stream")
		}
	}
}
