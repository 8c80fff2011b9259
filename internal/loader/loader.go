// Package loader implements the schema-evolving load pipeline: flatten a
// record, reconcile the live schema additively, upsert the row by id,
// and recurse into nested fragments as child tables.
package loader

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/MichalMlada/ETL-spacex/pkg/adapter"
	"github.com/MichalMlada/ETL-spacex/pkg/core"
	"github.com/MichalMlada/ETL-spacex/pkg/record"
)

// DefaultMaxDepth bounds child-table recursion when Options does not.
const DefaultMaxDepth = 8

// Options tunes a Loader.
type Options struct {
	// MaxDepth bounds the child-table recursion. Fragments nested deeper
	// keep their JSON form in document columns on the row at the cap.
	MaxDepth int
}

// Loader drives records through the pipeline against one adapter.
type Loader struct {
	adapter  adapter.Adapter
	catalog  *Catalog
	migrator *Migrator
	upserter *Upserter
	router   *Router
	logger   *slog.Logger
	opts     Options
}

func New(adp adapter.Adapter, logger *slog.Logger, opts Options) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Loader{
		adapter:  adp,
		catalog:  NewCatalog(adp),
		migrator: NewMigrator(adp, logger),
		upserter: NewUpserter(adp, logger),
		router:   &Router{},
		logger:   logger,
		opts:     opts,
	}
}

// LoadDataset runs every record through the pipeline against the given
// root table. Record-level problems are counted on the report and do not
// stop the batch; only a lost connection aborts the run, and the report
// returned alongside the error covers the records attempted so far.
func (l *Loader) LoadDataset(ctx context.Context, table string, records []map[string]any) (*Report, error) {
	table = NormalizeIdentifier(table)
	report := NewReport(table)

	l.logger.Info("loading dataset",
		slog.String("table", table),
		slog.Int("records", len(records)))

	for _, rec := range records {
		if err := l.loadTree(ctx, report, table, nil, rec, 0); err != nil {
			report.Finish()
			l.logger.Error("aborting run",
				slog.String("table", table),
				slog.Any("error", err))
			return report, err
		}
	}

	report.Finish()
	l.logger.Info("dataset loaded",
		slog.String("table", table),
		slog.Int("processed", report.Processed),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
		slog.Duration("took", report.Duration))
	return report, nil
}

// loadTree loads one record and then its nested fragments, recording
// every outcome on the report. A failed child never rolls back its
// already committed parent. Only a fatal connection loss is returned.
func (l *Loader) loadTree(ctx context.Context, report *Report, table string, fk *core.ForeignKey, rec map[string]any, depth int) error {
	flat, err := l.loadRecord(ctx, table, fk, rec, depth)
	if err != nil {
		return l.note(report, table, err)
	}
	report.Processed++

	for _, frag := range flat.Fragments {
		exp, err := l.router.Route(table, flat.ID, frag)
		if err != nil {
			report.recordFailure(ChildTable(table, frag.Field), flat.ID, err)
			continue
		}
		for _, child := range exp.Records {
			if err := l.loadTree(ctx, report, exp.Table, exp.ForeignKey, child, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadRecord is the single-record pipeline: flatten, diff, migrate,
// upsert. The returned FlatRecord carries the fragments left to route.
func (l *Loader) loadRecord(ctx context.Context, table string, fk *core.ForeignKey, rec map[string]any, depth int) (*FlatRecord, error) {
	flat, err := Flatten(rec)
	if err != nil {
		var collision *ColumnCollisionError
		if errors.As(err, &collision) {
			id, _ := identifierText(rec["id"])
			return nil, &SchemaConflictError{Table: table, RecordID: id, Columns: []string{collision.Column}, Err: err}
		}
		return nil, err
	}

	if depth >= l.opts.MaxDepth && len(flat.Fragments) > 0 {
		l.foldFragments(table, flat, depth)
	}

	diff, err := l.catalog.Diff(ctx, table, flat.Fields)
	if err != nil {
		if fatal := l.fatal(ctx, err); fatal != nil {
			return nil, fatal
		}
		return nil, &WriteError{Table: table, RecordID: flat.ID, Err: err}
	}

	missing := diff.Missing
	if !diff.TableExists {
		spec := &core.TableSpec{Name: table, PKType: core.TypeText, ForeignKey: fk}
		if err := l.migrator.EnsureTable(ctx, spec); err != nil {
			if fatal := l.fatal(ctx, err); fatal != nil {
				return nil, fatal
			}
			return nil, &SchemaConflictError{Table: table, RecordID: flat.ID, Err: err}
		}
		if fk != nil {
			// The create statement carried the key column already.
			missing = withoutColumn(missing, fk.Column)
			diff.Live[fk.Column] = core.TypeText
		}
	}

	added, failed := l.migrator.EnsureColumns(ctx, table, missing)
	columns := diff.Live
	for _, col := range added {
		columns[col.Name] = col.Type
	}
	if len(failed) > 0 {
		if fatal := l.fatal(ctx, failed[0].Err); fatal != nil {
			return nil, fatal
		}
		names := make([]string, 0, len(failed))
		for _, f := range failed {
			names = append(names, f.Column.Name)
		}
		return nil, &SchemaConflictError{Table: table, RecordID: flat.ID, Columns: names, Err: failed[0].Err}
	}

	tx, err := l.adapter.Begin(ctx)
	if err != nil {
		if fatal := l.fatal(ctx, err); fatal != nil {
			return nil, fatal
		}
		return nil, &WriteError{Table: table, RecordID: flat.ID, Err: err}
	}

	if err := l.upserter.Upsert(ctx, tx, table, flat.ID, flat.Fields, columns); err != nil {
		_ = tx.Rollback()
		if fatal := l.fatal(ctx, err); fatal != nil {
			return nil, fatal
		}
		return nil, &WriteError{Table: table, RecordID: flat.ID, Err: err}
	}

	if err := tx.Commit(); err != nil {
		if fatal := l.fatal(ctx, err); fatal != nil {
			return nil, fatal
		}
		return nil, &WriteError{Table: table, RecordID: flat.ID, Err: err}
	}

	return flat, nil
}

// foldFragments keeps fragments beyond the depth cap as document columns
// on the current row instead of descending further.
func (l *Loader) foldFragments(table string, flat *FlatRecord, depth int) {
	for _, frag := range flat.Fragments {
		flat.Fields = append(flat.Fields, Field{Name: frag.Field, Value: record.Document(frag.Value)})
	}
	flat.Fragments = nil
	sortFields(flat.Fields)
	l.logger.Debug("folded fragments at depth cap",
		slog.String("table", table),
		slog.Int("depth", depth))
}

// note records a record-scoped error on the report and swallows it so
// the batch continues. Fatal errors pass through.
func (l *Loader) note(report *Report, table string, err error) error {
	var fatal *FatalConnectionError
	if errors.As(err, &fatal) {
		return err
	}
	if errors.Is(err, ErrMissingIdentifier) {
		report.Skipped++
		l.logger.Warn("skipping record without id", slog.String("table", table))
		return nil
	}
	id := recordIDOf(err)
	report.recordFailure(table, id, err)
	l.logger.Warn("record failed",
		slog.String("table", table),
		slog.String("id", id),
		slog.Any("error", err))
	return nil
}

// fatal probes the connection after a failed statement. A dead
// connection turns the cause into the run-aborting kind; otherwise the
// failure stays record-scoped.
func (l *Loader) fatal(ctx context.Context, cause error) error {
	if err := l.adapter.Ping(ctx); err != nil {
		return &FatalConnectionError{Err: cause}
	}
	return nil
}

func recordIDOf(err error) string {
	var conflict *SchemaConflictError
	if errors.As(err, &conflict) {
		return conflict.RecordID
	}
	var write *WriteError
	if errors.As(err, &write) {
		return write.RecordID
	}
	return ""
}

func withoutColumn(defs []core.ColumnDef, name string) []core.ColumnDef {
	out := defs[:0]
	for _, d := range defs {
		if d.Name != name {
			out = append(out, d)
		}
	}
	return out
}

func sortFields(fields []Field) {
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
}
