package greeter

import (
	"context"
	"strings"
)

// Greeter greets people.
type Greeter interface {
	Greet(name string) string
}

// English greets in English.
//
//inject:injectable
type English struct {
	ready bool
}

func NewEnglish(ctx context.Context) (*English, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &English{ready: true}, nil
}

func (e *English) Greet(name string) string { return "hello, " + name }

// Shouter is only resolved by its concrete type.
//
//inject:injectable resolveIfc=false
type Shouter struct{}

func (Shouter) Greet(name string) string { return "HEY " + strings.ToUpper(name) }

// Cache remembers greetings.
//
//inject:injectable implements=example.com/app/store.Store
type Cache struct {
	items map[string]string
}

func NewCache() *Cache {
	return &Cache{items: map[string]string{}}
}

func (c *Cache) Put(key, value string) { c.items[key] = value }

func (c *Cache) Get(key string) (string, bool) {
	v, ok := c.items[key]
	return v, ok
}
