package domain

// Record is one decoded dataset entry. Values are whatever the JSON decoder
// produced: strings, float64 or int64 numbers, bools, nil, nested maps and
// slices.
type Record = map[string]any
