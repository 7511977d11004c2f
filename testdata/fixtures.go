// Package testdata holds recorded tracking service messages used by tests.
package testdata

import (
	"embed"
	"fmt"
)

//go:embed frames/*
var framesFS embed.FS

// LoadMessage loads a recorded service message by file name.
func LoadMessage(name string) ([]byte, error) {
	data, err := framesFS.ReadFile("frames/" + name)
	if err != nil {
		return nil, fmt.Errorf("load message %s: %w", name, err)
	}
	return data, nil
}

// MustLoadMessage is LoadMessage for tests; it panics on a missing fixture.
func MustLoadMessage(name string) []byte {
	data, err := LoadMessage(name)
	if err != nil {
		panic(err)
	}
	return data
}
