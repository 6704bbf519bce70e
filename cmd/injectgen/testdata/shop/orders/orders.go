package orders

import (
	"context"
)

// Notifier is marked by mistake.
//
//inject:injectable
type Notifier interface {
	Notify(id string)
}

// Reporter reads orders for reports.
//
//inject:injectable implements=example.com/shop/store.Reader
type Reporter struct{}

func (Reporter) Load(id string) (string, error) { return "", nil }

// Service places orders.
//
//inject:injectable resolveIfc=false
type Service struct {
	started bool
}

func NewService(ctx context.Context) (*Service, error) {
	return &Service{started: ctx != nil}, nil
}

// Clock is constructed by value.
//
//inject:injectable
type Clock struct{}

func NewClock() Clock { return Clock{} }

// unmarkedHelper carries no directive.
type unmarkedHelper struct{}
