package revscan

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/revscan/revscan/internal/policy"
)

func init() {
	policiesCmd := &cobra.Command{
		Use:   "policies",
		Short: "List the active security policies",
		RunE:  runPoliciesList,
	}
	rootCmd.AddCommand(policiesCmd)

	policiesCmd.AddCommand(&cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate policy files without running a scan",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runPoliciesValidate,
	})

	policiesCmd.AddCommand(&cobra.Command{
		Use:   "show <policy-id>",
		Short: "Show one policy's rules",
		Args:  cobra.ExactArgs(1),
		RunE:  runPoliciesShow,
	})
}

func loadStoreWithFiles(files []string) (*policy.Store, error) {
	store := policy.NewStore(log)
	for _, f := range files {
		if err := store.LoadFile(f); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func runPoliciesList(cmd *cobra.Command, _ []string) error {
	store, err := loadStoreWithFiles(flagPolicyFiles)
	if err != nil {
		return err
	}

	tbl := tablewriter.NewTable(os.Stdout)
	tbl.Header("ID", "Name", "Severity", "Enabled", "Rules")
	for _, p := range store.Policies() {
		tbl.Append([]string{
			p.ID,
			p.Name,
			string(p.Severity),
			strconv.FormatBool(p.Enabled),
			strconv.Itoa(len(p.Rules)),
		})
	}
	tbl.Render()

	sum := store.Summarize()
	fmt.Printf("%d policies (%d enabled, %d disabled)\n", sum.Total, sum.Enabled, sum.Disabled)
	return nil
}

func runPoliciesValidate(_ *cobra.Command, args []string) error {
	failed := 0
	for _, f := range args {
		store := policy.NewStore(log)
		if err := store.LoadFile(f); err != nil {
			fmt.Printf("%s: INVALID: %v\n", f, err)
			failed++
			continue
		}
		fmt.Printf("%s: ok\n", f)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files invalid", failed, len(args))
	}
	return nil
}

func runPoliciesShow(_ *cobra.Command, args []string) error {
	store, err := loadStoreWithFiles(flagPolicyFiles)
	if err != nil {
		return err
	}
	p, ok := store.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown policy: %s", args[0])
	}

	fmt.Printf("%s (%s)\n", p.Name, p.ID)
	fmt.Printf("  severity:    %s\n", p.Severity)
	fmt.Printf("  enabled:     %v\n", p.Enabled)
	fmt.Printf("  version:     %s\n", p.Version)
	if p.Description != "" {
		fmt.Printf("  description: %s\n", p.Description)
	}
	if len(p.Metadata.FileTypes) > 0 {
		fmt.Printf("  file types:  %s\n", strings.Join(p.Metadata.FileTypes, ", "))
	}
	if len(p.Metadata.ExcludedPaths) > 0 {
		fmt.Printf("  excluded:    %s\n", strings.Join(p.Metadata.ExcludedPaths, ", "))
	}
	fmt.Println("  rules:")
	for _, r := range p.Rules {
		fmt.Printf("    - %s\n", r.Type)
	}
	return nil
}
