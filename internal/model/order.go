package model

import "time"

// Order is the venue's view of an order. Average is the mean execution
// price; zero means the venue has not reported one yet.
type Order struct {
	ID        string
	Symbol    string
	Status    string
	Price     float64
	Amount    float64
	Filled    float64
	Remaining float64
	Average   float64
	Timestamp int64
}

// Fill is a single partial execution of an order.
type Fill struct {
	OrderID   string
	Symbol    string
	Price     float64
	Filled    float64
	Timestamp int64
}

// OrderEvent is a live order-status update read off the venue stream.
type OrderEvent struct {
	OrderID  string
	Symbol   string
	Status   string
	Received time.Time
}
