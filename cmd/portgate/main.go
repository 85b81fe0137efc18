package main

import (
	"github.com/cristalhq/acmd"
)

// cli: https://github.com/cristalhq/acmd
func main() {
	cmds := []acmd.Command{
		{
			Name:        "run",
			Description: "Run the accept server",
			ExecFunc:    runServer,
		},
		{
			Name:        "verify",
			Description: "Load and verify a config file",
			ExecFunc:    runConfigVerify,
		},
		{
			Name:        "config-gen",
			Description: "Generate a default config file",
			ExecFunc:    runConfigGenerate,
		},
	}
	r := acmd.RunnerOf(cmds, acmd.Config{
		AppName: "portgate",
		Version: "2024.1",
	})
	if err := r.Run(); err != nil {
		r.Exit(err)
	}
}
