package analyzer

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"schemareport/internal/db"
	"schemareport/internal/logger"
	"schemareport/internal/report"
)

// Options configure one analysis run.
type Options struct {
	OutputDir string
	// FailFast stops at the first failing report; otherwise every report is attempted.
	FailFast bool
	Report   report.Options
}

// Analyzer runs the report generators in their fixed order over one session.
type Analyzer struct {
	opts       Options
	generators []report.Generator
}

// New returns an Analyzer running the five standard reports.
func New(opts Options) *Analyzer {
	return &Analyzer{opts: opts, generators: report.Generators()}
}

// Run holds one connection from dbConn for the whole run and writes every report into
// the output directory. The returned Summary is complete even when err is non-nil;
// a failed report yields a *RunError.
func (a *Analyzer) Run(ctx context.Context, dbConn *sql.DB) (sum Summary, err error) {
	sum.Started = time.Now()
	for _, g := range a.generators {
		sum.Outcomes = append(sum.Outcomes, Outcome{Order: g.Order, Report: g.Name, File: g.FileName, Status: StatusSkipped})
	}
	defer func() { sum.Finished = time.Now() }()

	conn, err := db.Session(ctx, dbConn)
	if err != nil {
		return sum, err
	}
	defer conn.Close()

	if err := os.MkdirAll(a.opts.OutputDir, 0o755); err != nil {
		return sum, fmt.Errorf("create output directory: %w", err)
	}

	var failed []Outcome
	for i, g := range a.generators {
		out := a.runOne(ctx, conn, g)
		sum.Outcomes[i] = out
		if out.Err == nil {
			continue
		}
		failed = append(failed, out)
		logger.Error("%s: %v", g.FileName, out.Err)
		if a.opts.FailFast {
			break
		}
	}

	if len(failed) > 0 {
		return sum, &RunError{Failed: failed}
	}
	return sum, nil
}

func (a *Analyzer) runOne(ctx context.Context, q db.Querier, g report.Generator) (out Outcome) {
	out = Outcome{Order: g.Order, Report: g.Name, File: g.FileName}
	start := time.Now()
	defer func() { out.Duration = time.Since(start) }()

	logger.Debug("running %s report", g.Name)
	doc, err := g.Build(ctx, q, a.opts.Report)
	if err != nil {
		out.Status, out.Err = StatusFailed, err
		return out
	}
	path, err := report.Write(a.opts.OutputDir, g, doc)
	if err != nil {
		out.Status, out.Err = StatusFailed, err
		return out
	}

	out.Status, out.Path, out.Rows = StatusOK, path, len(doc.Rows)
	logger.Info("wrote %s (%d rows)", path, out.Rows)
	return out
}
