package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored recordings with their best times",
		Run:   runList,
	}

	cmd.Flags().Bool("keys-only", false, "Only output ids")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	keysOnly, _ := cmd.Flags().GetBool("keys-only")

	g, s, _ := openGate()
	defer s.Close()

	entries, err := g.Best(cmd.Context())
	if err != nil {
		exitErr("list", err)
	}

	out := cmd.OutOrStdout()
	if keysOnly {
		for _, e := range entries {
			fmt.Fprintln(out, e.Key)
		}
		return
	}

	if formatFlag == "text" {
		for _, e := range entries {
			if e.Corrupt {
				fmt.Fprintf(out, "%s\tcorrupt\n", e.Key)
			} else {
				fmt.Fprintf(out, "%s\t%v\n", e.Key, e.Time)
			}
		}
		return
	}

	b, _ := json.MarshalIndent(entries, "", "  ")
	fmt.Fprintln(out, string(b))
}
