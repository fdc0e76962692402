package services

import (
	"context"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/asset"
	"github.com/jacksonlee411/office-ops/modules/assets/domain/assetcode"
	"github.com/jacksonlee411/office-ops/pkg/clock"
)

const maxCodeProbes = 50

// CodeAllocator hands out asset codes of the form PREFIX-MMDDYYYY-NNNNNN.
type CodeAllocator struct {
	repo  asset.Repository
	clock clock.Clock
}

func NewCodeAllocator(repo asset.Repository, clk clock.Clock) *CodeAllocator {
	return &CodeAllocator{repo: repo, clock: clk}
}

// Allocate must run inside the transaction that inserts the asset. The
// advisory lock and the row locks on matching codes are held until commit,
// so concurrent approvals for the same prefix and day queue up here.
func (c *CodeAllocator) Allocate(ctx context.Context, category string) (string, error) {
	prefix := assetcode.Prefix(category)
	day := c.clock.Now()
	base := assetcode.Base(prefix, day)
	if err := c.repo.LockCodeBase(ctx, base); err != nil {
		return "", err
	}
	codes, err := c.repo.CodesWithBase(ctx, base, true)
	if err != nil {
		return "", err
	}
	seq := assetcode.Next(codes, base)
	for range maxCodeProbes {
		code := assetcode.Format(prefix, day, seq)
		exists, err := c.repo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		seq++
	}
	return "", asset.ErrCodeExhausted.WithMeta(map[string]string{"base": base})
}

// Preview computes the next code without locking. The code actually
// assigned later may differ.
func (c *CodeAllocator) Preview(ctx context.Context, category string) (string, error) {
	prefix := assetcode.Prefix(category)
	day := c.clock.Now()
	base := assetcode.Base(prefix, day)
	codes, err := c.repo.CodesWithBase(ctx, base, false)
	if err != nil {
		return "", err
	}
	return assetcode.Format(prefix, day, assetcode.Next(codes, base)), nil
}
