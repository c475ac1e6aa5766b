package storage

// Sink receives journal records, e.g. session transitions and quote snapshots.
type Sink interface {
	Put(records ...interface{}) error
}

// Discard is a Sink that drops everything.
type Discard struct{}

func (Discard) Put(...interface{}) error { return nil }
