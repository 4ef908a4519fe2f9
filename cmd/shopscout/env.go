package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// loadDotEnv loads each .env file that exists. Variables that are already
// set in the environment are not overwritten, and earlier files win.
func loadDotEnv(names ...string) (loaded []string, err error) {
	for _, name := range names {
		if err = godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("failed to load %s: %w", name, err)
		}
		loaded = append(loaded, name)
	}
	return loaded, nil
}
