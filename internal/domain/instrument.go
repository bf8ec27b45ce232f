package domain

import "github.com/google/uuid"

// Instrument is what a book trades: a share, an option, a future.
type Instrument struct {
	ID   string
	Name string
}

func NewInstrument(name string) Instrument {
	return Instrument{ID: uuid.NewString(), Name: name}
}
