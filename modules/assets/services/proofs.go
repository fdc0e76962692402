package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/storage"
)

// proofStore manages receipt and condition photos on the blob store.
type proofStore struct {
	store storage.Store
}

func (p proofStore) write(ctx context.Context, path string, data []byte) error {
	return p.store.Write(ctx, path, data)
}

// discard erases a proof whose row update never committed.
func (p proofStore) discard(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := p.store.Delete(ctx, path); err != nil {
		composables.UseLogger(ctx).WithError(err).WithField("path", path).Warn("failed to discard unreferenced proof")
	}
}

// retire marks every path deleted. Failures are logged and skipped.
func (p proofStore) retire(ctx context.Context, assetID int64, paths ...string) []string {
	var out []string
	for _, path := range paths {
		if path == "" {
			continue
		}
		moved, err := storage.MarkDeleted(ctx, p.store, path)
		if err != nil {
			composables.UseLogger(ctx).WithError(err).WithFields(logrus.Fields{
				"asset_id": assetID,
				"path":     path,
			}).Warn("failed to mark proof deleted")
			continue
		}
		out = append(out, moved)
	}
	return out
}
