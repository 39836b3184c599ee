package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"patternstudy/adapters/excel"
	"patternstudy/adapters/qualtrics"
	"patternstudy/adapters/sqlite"
	"patternstudy/domain/core"
	"patternstudy/domain/run"
	"patternstudy/domain/survey"
	"patternstudy/internal"
	"patternstudy/internal/artifact"
	"patternstudy/internal/config"
	"patternstudy/internal/errors"
	"patternstudy/internal/report"
	"patternstudy/internal/reshape"
	"patternstudy/internal/summary"
)

// Version is stamped into run manifests.
const Version = "0.3.0"

// Pipeline wires the reshaping and summarization stages over one config.
// Stages communicate only through the persisted long-format artifact; the
// downstream summarizers are independent and run concurrently.
type Pipeline struct {
	cfg    *config.Config
	logger *internal.Logger
}

// NewPipeline creates a pipeline for the given configuration.
func NewPipeline(cfg *config.Config) *Pipeline {
	return &Pipeline{cfg: cfg, logger: internal.DefaultLogger}
}

// Reshape runs the extraction stage: read the wide export, apply the
// exclusion list, reshape to long format, persist the artifact, record the
// run in the observation store, and write the run manifest.
func (p *Pipeline) Reshape(ctx context.Context) (*run.Manifest, error) {
	table, err := qualtrics.NewSurveyReader(p.cfg.Inputs.SurveyFile).Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read survey export")
	}

	exclusions, err := qualtrics.LoadExclusions(p.cfg.Inputs.ExclusionsFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load exclusion list")
	}

	result, err := reshape.NewReshaper().Reshape(table, exclusions)
	if err != nil {
		return nil, err
	}

	manifest, err := p.buildManifest(result)
	if err != nil {
		return nil, err
	}

	store := artifact.NewStore(p.cfg.Paths.ArtifactFile)
	if err := store.Save(result.Observations); err != nil {
		return nil, err
	}

	if err := p.recordRun(ctx, manifest, result.Observations); err != nil {
		return nil, err
	}
	if err := p.writeManifest(manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}

// Summarize loads the artifact fresh, relabels conditions, and runs the
// contingency summary plus the condition comparisons.
func (p *Pipeline) Summarize(ctx context.Context) ([]summary.Comparison, []summary.ReleaseContingency, error) {
	observations, err := p.loadRelabeled()
	if err != nil {
		return nil, nil, err
	}
	return summary.CompareConditions(observations), summary.ContingencyByCondition(observations), nil
}

// Rank loads the artifact fresh and produces the interface-level aggregates
// with the ranked condition-effect ordering.
func (p *Pipeline) Rank(ctx context.Context) ([]summary.InterfaceAggregate, []summary.RankedInterface, error) {
	observations, err := p.loadRelabeled()
	if err != nil {
		return nil, nil, err
	}
	aggregates := summary.AggregateByInterface(observations)
	return aggregates, summary.RankInterfaces(aggregates), nil
}

// Run executes the full pipeline: reshape, then both summarizers
// concurrently, then the rendered outputs.
func (p *Pipeline) Run(ctx context.Context) (*report.Report, error) {
	manifest, err := p.Reshape(ctx)
	if err != nil {
		return nil, err
	}

	var (
		comparisons []summary.Comparison
		contingency []summary.ReleaseContingency
		aggregates  []summary.InterfaceAggregate
		ranked      []summary.RankedInterface
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		comparisons, contingency, err = p.Summarize(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		aggregates, ranked, err = p.Rank(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &report.Report{
		Manifest:    manifest,
		Contingency: contingency,
		Comparisons: comparisons,
		Interfaces:  aggregates,
		Ranked:      ranked,
	}
	if err := p.WriteOutputs(result); err != nil {
		return nil, err
	}
	return result, nil
}

// WriteOutputs renders the Markdown/HTML report and the Excel workbook.
func (p *Pipeline) WriteOutputs(result *report.Report) error {
	if err := report.NewWriter().Write(result, p.cfg.Paths.ReportFile); err != nil {
		return err
	}
	writer := excel.NewResultsWriter(p.cfg.Paths.ExcelFile)
	return writer.Write(result.Comparisons, result.Interfaces, result.Ranked)
}

func (p *Pipeline) loadRelabeled() ([]survey.Observation, error) {
	observations, err := artifact.NewStore(p.cfg.Paths.ArtifactFile).Load()
	if err != nil {
		return nil, err
	}
	relabeled, unknown := summary.Relabel(observations)
	if unknown > 0 {
		p.logger.Warn("%d observation(s) carry non-canonical condition labels", unknown)
	}
	return relabeled, nil
}

func (p *Pipeline) buildManifest(result *reshape.Result) (*run.Manifest, error) {
	surveyHash, err := core.HashFile(p.cfg.Inputs.SurveyFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fingerprint survey export")
	}

	var exclusionsHash core.Hash
	if p.cfg.Inputs.ExclusionsFile != "" {
		exclusionsHash, err = core.HashFile(p.cfg.Inputs.ExclusionsFile)
		if err != nil {
			return nil, errors.Wrap(err, "failed to fingerprint exclusion list")
		}
	}

	manifest := run.NewManifest(p.cfg.Inputs.SurveyFile, surveyHash, p.cfg.Inputs.ExclusionsFile, exclusionsHash, Version)
	manifest.Counts = result.Counts
	return manifest, manifest.Validate()
}

func (p *Pipeline) recordRun(ctx context.Context, manifest *run.Manifest, observations []survey.Observation) error {
	if p.cfg.Storage.Path == "" {
		return nil
	}

	repo, err := sqlite.Open(p.cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer repo.Close()
	return repo.SaveRun(ctx, manifest, observations)
}

func (p *Pipeline) writeManifest(manifest *run.Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode manifest")
	}

	path := filepath.Join(p.cfg.Paths.ResultsDir, "manifest.json")
	if err := os.MkdirAll(p.cfg.Paths.ResultsDir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create results directory")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write manifest")
	}

	p.logger.Info("Run %s recorded: %s", manifest.RunID.String(), path)
	return nil
}
