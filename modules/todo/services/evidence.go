package services

import (
	"context"
	"slices"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/office-ops/modules/todo/domain/aggregates/todo"
	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/storage"
	"github.com/jacksonlee411/office-ops/pkg/upload"
)

// evidenceStore writes submissions and retires replaced or orphaned files.
type evidenceStore struct {
	store storage.Store
}

// maxSeqAttempts bounds how far free walks past the counted sequence.
const maxSeqAttempts = 100

// free returns the first sequence from seq whose paths, under any name a
// retired file could carry, are not taken yet.
func (e evidenceStore) free(ctx context.Context, userID int64, seq int, at time.Time, exts []string) (int, []string, error) {
	for i := 0; i < maxSeqAttempts; i, seq = i+1, seq+1 {
		paths := todo.EvidencePaths(userID, seq, at, exts)
		taken, err := e.anyExists(ctx, paths)
		if err != nil {
			return 0, nil, err
		}
		if !taken {
			return seq, paths, nil
		}
	}
	return 0, nil, errors.Errorf("no free evidence sequence after %d attempts", maxSeqAttempts)
}

func (e evidenceStore) anyExists(ctx context.Context, paths []string) (bool, error) {
	for _, p := range paths {
		for _, candidate := range []string{p, storage.DeletedName(p)} {
			ok, err := e.store.Exists(ctx, candidate)
			if err != nil || ok {
				return ok, err
			}
		}
	}
	return false, nil
}

// write stores docs at paths. On failure every file written so far is
// removed again.
func (e evidenceStore) write(ctx context.Context, paths []string, docs []upload.Document) error {
	for i, doc := range docs {
		if err := e.store.Write(ctx, paths[i], doc.Data); err != nil {
			e.discard(ctx, paths[:i])
			return err
		}
	}
	return nil
}

// discard erases files that never became referenced by a committed row.
func (e evidenceStore) discard(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := e.store.Delete(ctx, p); err != nil {
			composables.UseLogger(ctx).WithError(err).WithField("path", p).Warn("failed to discard unreferenced evidence")
		}
	}
}

// renamed is one evidence file moved to its deleted name.
type renamed struct {
	from, to string
}

func renamedPaths(rs []renamed) []string {
	if len(rs) == 0 {
		return nil
	}
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.to
	}
	return out
}

// retire renames every path not in keep with the deleted marker. Failures
// are logged and skipped.
func (e evidenceStore) retire(ctx context.Context, todoID int64, paths, keep []string) []renamed {
	var out []renamed
	for _, p := range paths {
		if p == "" || slices.Contains(keep, p) {
			continue
		}
		moved, err := storage.MarkDeleted(ctx, e.store, p)
		if err != nil {
			composables.UseLogger(ctx).WithError(err).WithFields(logrus.Fields{
				"todo_id": todoID,
				"path":    p,
			}).Warn("failed to mark evidence deleted")
			continue
		}
		out = append(out, renamed{from: p, to: moved})
	}
	return out
}

// restore undoes retire for a delete whose transaction rolled back, so the
// surviving row keeps pointing at its files.
func (e evidenceStore) restore(ctx context.Context, rs []renamed) {
	for _, r := range rs {
		if err := e.store.Move(ctx, r.to, r.from); err != nil {
			composables.UseLogger(ctx).WithError(err).WithFields(logrus.Fields{
				"from": r.to,
				"to":   r.from,
			}).Error("failed to restore evidence after rollback")
		}
	}
}
