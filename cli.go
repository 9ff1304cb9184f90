//go:build cli
// +build cli

package main

import (
	_ "github.com/skandal1st/loungepos/custom"

	"github.com/skandal1st/loungepos/cmd"
	"github.com/skandal1st/loungepos/config"
)

func main() {
	config.LoadEnv()
	config.LoadAppConfig()
	cmd.Execute()
}
