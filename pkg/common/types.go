package common

import "fmt"

// KeyType is the fixed-width integer key shared by every index.
type KeyType int64

// Record pairs a key with a caller-owned payload.
type Record[V any] struct {
	Key   KeyType
	Value V
}

func (r Record[V]) String() string {
	return fmt.Sprintf("Record{Key: %d, Value: %v}", r.Key, r.Value)
}
