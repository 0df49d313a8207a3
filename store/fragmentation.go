package store

import "fmt"

// FragmentationStats mirrors the original's FragmentationStats struct
// (spec §6, §9 "Supplemented Features"): total_free_pages,
// largest_free_block, num_free_blocks and the derived
// fragmentation_ratio = 1 - largest/total.
type FragmentationStats struct {
	TotalFree     int
	LargestFree   int
	NumFreeBlocks int
	Ratio         float64
}

// String renders the stats the way printFragmentationStats in the
// original would, for ad hoc debugging output.
func (s FragmentationStats) String() string {
	return fmt.Sprintf(
		"total_free=%d largest_free=%d num_free_blocks=%d ratio=%.4f",
		s.TotalFree, s.LargestFree, s.NumFreeBlocks, s.Ratio,
	)
}
