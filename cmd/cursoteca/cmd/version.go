package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/CursosTech/cursoteca/internal/service"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cursoteca %s (%s/%s)\n", service.Version, runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
