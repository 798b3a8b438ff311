package types

import (
	"fmt"

	"github.com/bundledraw/bundledraw-backend/pkg/enums"
)

// BundleSizes lists every bundle size the marketplace sells.
var BundleSizes = []int{1, 2, 3, 4}

// PackSet is the set of packs an inventory item may be drawn into.
// Stored as a jsonb array via the GORM json serializer.
type PackSet []enums.Pack

// AllPacks returns a PackSet covering every known pack.
func AllPacks() PackSet {
	return PackSet(enums.Packs())
}

// Contains reports membership.
func (s PackSet) Contains(pack enums.Pack) bool {
	for _, candidate := range s {
		if candidate == pack {
			return true
		}
	}
	return false
}

// Validate rejects empty sets and unknown packs.
func (s PackSet) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("eligible packs must not be empty")
	}
	for _, pack := range s {
		if !pack.IsValid() {
			return fmt.Errorf("invalid pack %q", pack)
		}
	}
	return nil
}

// SizeSet is the set of bundle sizes an inventory item can satisfy.
// Stored as a jsonb array via the GORM json serializer.
type SizeSet []int

// AllSizes returns a SizeSet covering every bundle size.
func AllSizes() SizeSet {
	return SizeSet(append([]int(nil), BundleSizes...))
}

// Contains reports membership.
func (s SizeSet) Contains(size int) bool {
	for _, candidate := range s {
		if candidate == size {
			return true
		}
	}
	return false
}

// ExactlyMatches reports whether the set holds only the given size.
func (s SizeSet) ExactlyMatches(size int) bool {
	return len(s) == 1 && s[0] == size
}

// Validate rejects empty sets and sizes outside {1,2,3,4}.
func (s SizeSet) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("eligible bundle sizes must not be empty")
	}
	for _, size := range s {
		if size < 1 || size > 4 {
			return fmt.Errorf("invalid bundle size %d", size)
		}
	}
	return nil
}
