// Package plan implements the incremental planner (spec.md §4.E): given a
// local transfer plan, it pipelines STAT requests for every destination and
// marks entries that are already up to date on the remote side so the
// transfer engine can skip them.
package plan

import (
	"io"
	"log/slog"

	"github.com/halcyonsync/filesync/internal/proto"
	"github.com/halcyonsync/filesync/internal/walk"
)

// InterleaveThreshold is the plan size above which STAT requests are
// written and drained in batches rather than all at once. A single
// unbounded burst risks the deadlock the reference design is vulnerable to:
// both sides can end up blocked on a full socket write buffer if the peer
// is itself waiting to write its own backlog of responses.
const InterleaveThreshold = 1024

// Annotate decorates records in place with skip flags, pipelining STAT
// requests for every record's Dst. Records are mutated through the
// returned slice; the input slice's order is preserved.
func Annotate(rw io.ReadWriter, records []walk.Record) ([]walk.Record, error) {
	slog.Debug("annotating plan", "records", len(records), "threshold", InterleaveThreshold)
	for start := 0; start < len(records); start += InterleaveThreshold {
		end := start + InterleaveThreshold
		if end > len(records) {
			end = len(records)
		}
		slog.Debug("interleaving stat batch", "start", start, "end", end)
		if err := annotateBatch(rw, records[start:end]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// annotateBatch pipelines STAT for one batch: every request is written
// before any response is read, then responses are drained strictly in
// request order (spec.md invariant 1's pipelining exception).
func annotateBatch(rw io.ReadWriter, batch []walk.Record) error {
	for _, rec := range batch {
		if err := proto.WriteRequest(rw, proto.TagSTAT, []byte(rec.Dst)); err != nil {
			return err
		}
	}

	for i := range batch {
		result, err := proto.ReadStat(rw)
		if err != nil {
			return err
		}
		batch[i].Skip = shouldSkip(batch[i], result)
	}
	return nil
}

// shouldSkip implements spec.md §4.E.3: a cheap size-first reject, then a
// mode-asymmetric timestamp comparison — regular files require an exact
// mtime match, symlinks only require the remote to be at least as new
// (symlink mtime cannot be explicitly set on many targets).
//
// The type check is done on rec.Mode & remote.Mode, not rec.Mode alone,
// matching the reference client's S_ISLNK(ci.mode & mode): ANDing the two
// sides' format bits together means a type mismatch (e.g. local regular,
// remote symlink) never reads as a symlink, so a mismatch always falls
// through to the stricter exact-mtime comparison below.
func shouldSkip(rec walk.Record, remote proto.StatResult) bool {
	if remote.Mode == 0 {
		return false
	}
	if uint32(rec.Size) != remote.Size { //nolint:gosec // G115: record sizes are bounded file sizes
		return false
	}
	combinedMode := rec.Mode & remote.Mode
	if proto.IsSymlink(combinedMode) {
		return remote.Mtime >= uint32(rec.Mtime) //nolint:gosec // G115: mtimes are small positive unix timestamps
	}
	return remote.Mtime == uint32(rec.Mtime) //nolint:gosec // G115: mtimes are small positive unix timestamps
}
