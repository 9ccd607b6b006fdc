package domain

import "time"

// Keys is the composite identity shared by every stored entity. Uniqueness
// holds per (PartitionKey, RowKey) pair, not globally.
type Keys struct {
	PartitionKey string    `json:"partition_key" dynamodbav:"PartitionKey"`
	RowKey       string    `json:"row_key" dynamodbav:"RowKey"`
	Timestamp    time.Time `json:"timestamp,omitempty" dynamodbav:"Timestamp,omitempty"`
}

// EntityKeys returns the composite key of the entity.
func (k Keys) EntityKeys() Keys {
	return k
}

// Entity is implemented by every record persisted in the table store.
type Entity interface {
	EntityKeys() Keys
}
