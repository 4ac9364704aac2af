package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cqa/internal/rules"
	"cqa/internal/ruleset"
)

var rulesPacks []string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the detection rules in the catalog",
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().StringArrayVar(&rulesPacks, "rules-pack", nil, "YAML rule pack to include (repeatable)")
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	cat := rules.DefaultCatalog()
	for _, pack := range rulesPacks {
		if _, err := ruleset.LoadAndRegister(pack, cat); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tSEVERITY\tSUMMARY")
	for _, r := range cat.List() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Category, r.Severity, r.Summary)
	}
	return w.Flush()
}
