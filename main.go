// Package main is the entry point for subgate.
package main

import (
	"github.com/samber/lo"
	"github.com/subgate-cli/subgate/cmd"
	"github.com/subgate-cli/subgate/config"
	"github.com/subgate-cli/subgate/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
