package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kanbaru/pkg/kanbaru"
)

const modulePath = "github.com/mesh-intelligence/kanbaru"

type versionJSON struct {
	Version string `json:"version"`
	Module  string `json:"module"`
}

func newVersionCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the kanbaru version",
		Args:  argsError(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.jsonMode {
				return printJSON(cmd, versionJSON{Version: kanbaru.Version, Module: modulePath})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "kanbaru v%s\nmodule: %s\n", kanbaru.Version, modulePath)
			return nil
		},
	}
}
