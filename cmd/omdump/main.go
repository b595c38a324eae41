// Package main provides omdump, a command-line viewer for DaVinci OM model files.
package main

import (
	"context"

	"github.com/spf13/cobra"
)

func main() {
	cobra.CheckErr(NewCLI().ExecuteContext(context.Background()))
}
