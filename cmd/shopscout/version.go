package main

import (
	"context"
	"fmt"

	"github.com/a-h/shopscout"
)

type VersionCommand struct {
}

func (c VersionCommand) Run(ctx context.Context) (err error) {
	fmt.Println(shopscout.Version)
	return nil
}
