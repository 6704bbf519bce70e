// Package version reports the build version of inject binaries and of
// applications built on it.
//
// Values come from -ldflags when set:
//
//	go build -ldflags "-X github.com/kbukum/inject/version.Version=v1.2.0"
//
// and otherwise from the module and VCS information the Go toolchain
// embeds, so `go install github.com/kbukum/inject/cmd/injectgen@v1.2.0`
// reports v1.2.0 without extra flags.
package version
