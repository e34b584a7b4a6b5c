package extract

import (
	"github.com/vnaddress/parser/internal/model"
	"github.com/vnaddress/parser/internal/referencestore"
)

// CollisionLookup is the Reference Store accessor used to detect
// province/district name collisions.
type CollisionLookup interface {
	ProvinceDistrictCollision(nameNorm string) (referencestore.Collision, bool)
}

// ApplyCollisions handles the case where a province potential's name also
// exists as a district (a name/name collision such as "Bến Tre"), the same
// n-gram is additionally emitted as a district potential so the candidate
// combination step can consider both interpretations.
func ApplyCollisions(pot *Potentials, lookup CollisionLookup) {
	seen := map[string]bool{}
	var additions []model.PotentialMatch
	for _, p := range pot.Province {
		if seen[p.NameNormalized] {
			continue
		}
		seen[p.NameNormalized] = true
		col, ok := lookup.ProvinceDistrictCollision(p.NameNormalized)
		if ok && col.IsDistrict {
			additions = append(additions, model.PotentialMatch{
				NameNormalized: p.NameNormalized, Score: p.Score, Range: p.Range,
			})
		}
	}
	pot.District = append(pot.District, additions...)
}
