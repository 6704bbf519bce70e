// Package wiring holds the generated injectable catalog.
package wiring

//go:generate go run github.com/kbukum/inject/cmd/injectgen -root example.com/app
