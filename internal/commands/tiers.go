package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/emredev/devai/internal/config"
	"github.com/emredev/devai/internal/models"
	"github.com/emredev/devai/internal/router"
)

// tiersCmd lists the specialist tiers and their personas
var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "List specialist tiers and their personas",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			cfg = config.DefaultConfig()
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "TIER\tPERSONA\tMODEL\tCODE OUTPUT")
		_, _ = fmt.Fprintln(w, "----\t-------\t-----\t-----------")

		for _, tier := range models.AllTiers() {
			persona := router.PersonaFor(tier)
			code := "no"
			if tier.ProducesCode() {
				code = "yes"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				tier, persona.Label, cfg.ModelForTier(tier), code)
		}

		return w.Flush()
	},
}
