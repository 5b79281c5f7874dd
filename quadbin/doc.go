// Package quadbin encodes quadtree tiles as 64-bit cells and navigates between them.
//
// Layout of a cell, from the most significant bit:
//
//	63     reserved, always 0
//	62     header, always 1
//	59-61  mode, 1 for cells
//	57-58  mode dependent, 0 for cells
//	52-56  resolution (0-26)
//	0-51   Z-order interleaved column/row bits, 2 bits per resolution level,
//	       the unused trailing bits are all set to 1
//
// All functions are pure; cells and tiles are plain values.
package quadbin
