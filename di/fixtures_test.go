package di

import (
	"context"
	stderrors "errors"
)

type Animal interface {
	Sound() string
}

type Named interface {
	Name() string
}

type Dog struct{ barks int }

func (d *Dog) Sound() string { d.barks++; return "woof" }
func (d *Dog) Name() string  { return "dog" }

type Cat struct{}

func (*Cat) Sound() string { return "meow" }

type Rock struct{}

type Widget struct{ name string }

func NewWidget(name string) *Widget { return &Widget{name: name} }

type Clock struct{ started bool }

func NewClock() (*Clock, error) { return &Clock{started: true}, nil }

type Session struct{ ctx context.Context }

func NewSession(ctx context.Context) *Session { return &Session{ctx: ctx} }

var errBroken = stderrors.New("database unreachable")

type Broken struct{}

func NewBroken() (*Broken, error) { return nil, errBroken }

type Settings struct{ Port int }
