package asset

import (
	"fmt"
	"path"
	"time"
)

// ProofPath places a proof file under proofs/YYYY-MM-DD/asset_N.
func ProofPath(assetID int64, kind Proof, at time.Time, ext string) string {
	name := fmt.Sprintf("%s_%s%s", kind, at.Format("20060102_150405"), ext)
	return path.Join("proofs", at.Format("2006-01-02"), fmt.Sprintf("asset_%d", assetID), name)
}
