package loader

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/esmtools/tes3db/internal/archive"
	"github.com/esmtools/tes3db/internal/catalog"
	"github.com/esmtools/tes3db/internal/schema"
	"github.com/esmtools/tes3db/internal/store"
)

// DefaultOutputName is the artifact file name used when the output path
// is empty or names a directory.
const DefaultOutputName = "tes3.db3"

// Version is stamped into every artifact's meta table.
// Overridable at link time.
var Version = "0.4.0"

// Loader materializes archives into a relational artifact.
type Loader struct {
	cat    *catalog.Catalog
	parser archive.Parser
	logger *zap.SugaredLogger
}

// New creates a loader. The logger is required: the loader reports
// per-record failures through it instead of returning them as errors.
func New(cat *catalog.Catalog, parser archive.Parser, logger *zap.SugaredLogger) *Loader {
	return &Loader{cat: cat, parser: parser, logger: logger}
}

// Run executes one export: discovers archives under input, stages them,
// and publishes the artifact at output. The returned report is complete
// even when individual records or archives were lost; a non-nil error
// means the run itself aborted.
func (l *Loader) Run(ctx context.Context, input, output string) (*Report, error) {
	output = resolveOutput(output)

	paths, err := archive.Discover(input, l.parser.Extensions())
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		l.logger.Warnf("no archives found under %s", input)
	}

	staging := output + ".staging"
	// A staging file left by an interrupted run holds arbitrary state.
	if err := os.Remove(staging); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove stale staging store: %w", err)
	}

	st, err := store.OpenStaging(staging)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	if err := st.ApplySchema(ctx, schema.Script(l.cat)); err != nil {
		return nil, err
	}

	report := &Report{
		Output: output,
		RunID:  uuid.Must(uuid.NewV7()).String(),
	}
	if err := l.writeMeta(ctx, st, report.RunID); err != nil {
		return nil, err
	}

	stmts, err := l.prepareInserts(ctx, st)
	if err != nil {
		return nil, err
	}
	defer stmts.Close()

	l.logger.Infof("loading %d archives", len(paths))
	for i, path := range paths {
		if err := l.stageArchive(ctx, st, stmts, path, i, report); err != nil {
			return nil, err
		}
	}

	violations, err := st.CheckForeignKeys(ctx)
	if err != nil {
		return nil, err
	}
	report.Violations = violations
	if len(violations) > 0 {
		l.logger.Warnf("%d dangling references in staged data", len(violations))
	}

	l.logger.Infof("compacting into %s", output)
	if err := st.CompactTo(ctx, output); err != nil {
		return nil, err
	}
	if err := st.Close(); err != nil {
		return nil, fmt.Errorf("close staging store: %w", err)
	}
	if err := store.FinalizeForReads(output); err != nil {
		return nil, err
	}
	if err := os.Remove(staging); err != nil {
		return nil, fmt.Errorf("remove staging store: %w", err)
	}

	l.logger.Infof("export complete: %d entity rows, %d join rows from %d archives (%d failures)",
		report.TotalEntityRows(), report.TotalJoinRows(), len(report.Archives), len(report.Failures))
	return report, nil
}

// resolveOutput applies the default artifact name. A path naming an
// existing directory gets the default name joined onto it.
func resolveOutput(path string) string {
	if path == "" {
		return DefaultOutputName
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, DefaultOutputName)
	}
	return path
}

// stageArchive loads one archive: provenance row, entity pass, relation
// pass. Parse failures skip the archive without a provenance row.
func (l *Loader) stageArchive(ctx context.Context, st *store.Store, stmts *insertSet, path string, loadOrder int, report *Report) error {
	arc, err := l.parser.Parse(path)
	if err != nil {
		l.logger.Warnf("skipping archive %s: %v", filepath.Base(path), err)
		report.Skipped = append(report.Skipped, SkippedArchive{
			Name:   filepath.Base(path),
			Reason: err.Error(),
		})
		return nil
	}

	stats := &ArchiveStats{
		Name:      arc.Name,
		CRC:       fingerprint(arc.Name),
		LoadOrder: loadOrder,
		Records:   len(arc.Records),
		Dropped:   arc.Dropped,
	}

	if _, err := st.DB().ExecContext(ctx,
		"INSERT INTO plugins (name, crc, load_order) VALUES (?, ?, ?)",
		arc.Name, stats.CRC, loadOrder); err != nil {
		return fmt.Errorf("record provenance for %s: %w", arc.Name, err)
	}

	groups, unknown := l.groupByTag(arc)
	stats.Unknown = unknown
	if unknown > 0 {
		l.logger.Debugw("records with unregistered tags skipped",
			"archive", arc.Name, "count", unknown)
	}

	if err := l.entityPass(ctx, st, stmts, arc, groups, stats, report); err != nil {
		return err
	}
	if err := l.relationPass(ctx, st, stmts, arc, groups, stats, report); err != nil {
		return err
	}

	l.logger.Debugw("archive staged",
		"archive", arc.Name,
		"entity_rows", stats.EntityRows,
		"join_rows", stats.JoinRows)
	report.Archives = append(report.Archives, *stats)
	return nil
}

// groupByTag splits an archive's records by tag, preserving record order
// within each group. Records with unregistered tags are counted out.
func (l *Loader) groupByTag(arc *archive.Archive) (map[string][]*archive.Record, int) {
	groups := make(map[string][]*archive.Record)
	unknown := 0
	for _, r := range arc.Records {
		if _, ok := l.cat.Lookup(r.Tag); !ok {
			unknown++
			continue
		}
		groups[r.Tag] = append(groups[r.Tag], r)
	}
	return groups, unknown
}

// entityPass inserts every record's entity row in one transaction. The
// header tag is skipped: its table exists for shape, never for data.
func (l *Loader) entityPass(ctx context.Context, st *store.Store, stmts *insertSet, arc *archive.Archive, groups map[string][]*archive.Record, stats *ArchiveStats, report *Report) error {
	tx, err := st.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin entity pass for %s: %w", arc.Name, err)
	}
	defer tx.Rollback()

	for _, tag := range l.cat.Tags() {
		if tag == catalog.HeaderTag {
			continue
		}
		recs := groups[tag]
		if len(recs) == 0 {
			continue
		}
		typ, _ := l.cat.Lookup(tag)
		table := typ.Schema().Name
		stmt := tx.StmtContext(ctx, stmts.entity[tag])

		for _, r := range recs {
			if err := ctx.Err(); err != nil {
				return err
			}
			declared, err := typ.EntityRow(r)
			if err != nil {
				l.fail(report, stats, arc.Name, table, r.Key, err)
				continue
			}
			args := make([]any, 0, len(declared)+3)
			args = append(args, r.Key, arc.Name, int64(r.Flags))
			args = append(args, declared...)
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				l.fail(report, stats, arc.Name, table, r.Key, err)
				continue
			}
			stats.EntityRows++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit entity pass for %s: %w", arc.Name, err)
	}
	return nil
}

// relationPass inserts every record's join rows in a second transaction,
// after the entity pass committed: member rows never race their parents.
func (l *Loader) relationPass(ctx context.Context, st *store.Store, stmts *insertSet, arc *archive.Archive, groups map[string][]*archive.Record, stats *ArchiveStats, report *Report) error {
	tx, err := st.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin relation pass for %s: %w", arc.Name, err)
	}
	defer tx.Rollback()

	joinStmts := make(map[string]*sql.Stmt, len(stmts.join))
	for name, stmt := range stmts.join {
		joinStmts[name] = tx.StmtContext(ctx, stmt)
	}

	for _, tag := range l.cat.Tags() {
		recs := groups[tag]
		if len(recs) == 0 {
			continue
		}
		typ, _ := l.cat.Lookup(tag)
		if len(typ.JoinSchemas()) == 0 {
			continue
		}

		for _, r := range recs {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := typ.JoinRows(r)
			if err != nil {
				l.fail(report, stats, arc.Name, typ.Schema().Name, r.Key, err)
				continue
			}
			for _, row := range rows {
				args := make([]any, 0, len(row.Values)+1)
				args = append(args, arc.Name)
				args = append(args, row.Values...)
				if _, err := joinStmts[row.Table].ExecContext(ctx, args...); err != nil {
					l.fail(report, stats, arc.Name, row.Table, r.Key, err)
					continue
				}
				stats.JoinRows++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit relation pass for %s: %w", arc.Name, err)
	}
	return nil
}

// fail records one record-level failure: the record is lost, the load
// goes on.
func (l *Loader) fail(report *Report, stats *ArchiveStats, archiveName, table, key string, err error) {
	l.logger.Errorw("record load failed",
		"archive", archiveName,
		"table", table,
		"key", key,
		"error", err,
	)
	report.Failures = append(report.Failures, Failure{
		Archive: archiveName,
		Table:   table,
		Key:     key,
		Reason:  err.Error(),
	})
	stats.Failures++
}

func (l *Loader) writeMeta(ctx context.Context, st *store.Store, runID string) error {
	rows := [][2]string{
		{"run_id", runID},
		{"created", time.Now().UTC().Format(time.RFC3339)},
		{"version", Version},
	}
	for _, kv := range rows {
		if _, err := st.DB().ExecContext(ctx,
			"INSERT INTO meta (key, value) VALUES (?, ?)", kv[0], kv[1]); err != nil {
			return fmt.Errorf("write meta %s: %w", kv[0], err)
		}
	}
	return nil
}

// insertSet holds the prepared INSERT statements, one per table, built
// once per run and bound to each pass's transaction.
type insertSet struct {
	entity map[string]*sql.Stmt // by tag
	join   map[string]*sql.Stmt // by join table name
}

func (l *Loader) prepareInserts(ctx context.Context, st *store.Store) (*insertSet, error) {
	set := &insertSet{
		entity: make(map[string]*sql.Stmt),
		join:   make(map[string]*sql.Stmt),
	}
	for _, tag := range l.cat.Tags() {
		typ, _ := l.cat.Lookup(tag)
		entity := typ.Schema()

		stmt, err := st.DB().PrepareContext(ctx, schema.Insert(entity.Name, schema.EntityColumns(typ)))
		if err != nil {
			set.Close()
			return nil, fmt.Errorf("prepare %s insert: %w", entity.Name, err)
		}
		set.entity[tag] = stmt

		for _, join := range typ.JoinSchemas() {
			stmt, err := st.DB().PrepareContext(ctx, schema.Insert(join.Name, schema.JoinColumns(join)))
			if err != nil {
				set.Close()
				return nil, fmt.Errorf("prepare %s insert: %w", join.Name, err)
			}
			set.join[join.Name] = stmt
		}
	}
	return set, nil
}

func (s *insertSet) Close() {
	for _, stmt := range s.entity {
		stmt.Close()
	}
	for _, stmt := range s.join {
		stmt.Close()
	}
}

// fingerprint derives the provenance crc: FNV-1a over the archive name.
// Stable across runs and cheap; this is not a content hash.
func fingerprint(name string) string {
	h := fnv.New64a()
	h.Write([]byte(name))
	return fmt.Sprintf("%016x", h.Sum64())
}
