package storage

import "math"

// ValueID is the position of a value within a single column's dictionary.
// IDs from different columns index different dictionaries and must never be
// compared with each other.
type ValueID uint32

// NotFoundValueID is returned by dictionary lookups for values that are not
// present in the dictionary.
const NotFoundValueID = ValueID(math.MaxUint32)
