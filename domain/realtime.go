package domain

import (
	"context"
	"encoding/json"
	"fmt"
)

const CollectionMessages = "messages"

// Filter is an equality match on one column of an inserted record.
// The zero Filter matches everything.
type Filter struct {
	Column string
	Value  string
}

// Match reports whether the JSON encoded record satisfies the filter
func (f Filter) Match(payload []byte) bool {
	if f.Column == "" {
		return true
	}
	var record map[string]any
	if err := json.Unmarshal(payload, &record); err != nil {
		return false
	}
	v, ok := record[f.Column]
	if !ok || v == nil {
		return false
	}
	return fmt.Sprint(v) == f.Value
}

// Subscription is a live handle. Close is idempotent.
type Subscription interface {
	Close() error
}

// Realtime delivers inserted records of a collection to subscribers
type Realtime interface {
	// Subscribe calls handler with the JSON payload of every matching insert
	// until the subscription is closed.
	Subscribe(ctx context.Context, collection string, filter Filter, handler func(payload []byte)) (Subscription, error)

	Publish(ctx context.Context, collection string, record any) error
}
