package revscan

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/revscan/revscan/internal/patterns"
	"github.com/revscan/revscan/internal/policy"
)

// gendocs regenerates the detection coverage section in README.md between
// the markers <!-- BEGIN:COVERAGE --> and <!-- END:COVERAGE -->.
func init() {
	cmd := &cobra.Command{
		Use:   "gendocs",
		Short: "Regenerate README detection coverage",
		RunE: func(_ *cobra.Command, _ []string) error {
			path := "README.md"
			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			start := []byte("<!-- BEGIN:COVERAGE -->")
			end := []byte("<!-- END:COVERAGE -->")
			i := bytes.Index(b, start)
			j := bytes.Index(b, end)
			if i < 0 || j < 0 || j <= i {
				return fmt.Errorf("markers not found in README.md")
			}

			var out strings.Builder
			out.WriteString("\nVulnerability classes:\n\n")
			lib := patterns.Default()
			for _, class := range lib.Classes() {
				out.WriteString(fmt.Sprintf("- `%s` (%d patterns)\n", class, len(lib.Patterns(class))))
			}
			out.WriteString("\nBuilt-in policies:\n\n")
			for _, p := range policy.NewStore(nil).Policies() {
				out.WriteString(fmt.Sprintf("- `%s` %s (%s, %d rules)\n", p.ID, p.Name, p.Severity, len(p.Rules)))
			}

			var nb bytes.Buffer
			nb.Write(b[:i])
			nb.Write(start)
			nb.WriteString("\n")
			nb.WriteString(out.String())
			nb.Write(end)
			nb.Write(b[j+len(end):])
			return os.WriteFile(path, nb.Bytes(), 0o644)
		},
	}
	rootCmd.AddCommand(cmd)
}
