package domain

import "time"

// BookSnapshot is the read model of a whole book: what the cache stores
// and what the HTTP layer renders. Orders and executions are copies in
// insertion order.
type BookSnapshot struct {
	BookID     int         `json:"book_id"`
	Instrument Instrument  `json:"instrument"`
	Open       bool        `json:"open"`
	OpenedOnce bool        `json:"opened_once"`
	Processed  bool        `json:"processed"`
	Orders     []Order     `json:"orders"`
	Executions []Execution `json:"executions"`
	Timestamp  time.Time   `json:"timestamp"`
}
