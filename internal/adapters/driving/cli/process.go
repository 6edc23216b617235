package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
	"github.com/float-ritual-stack/floatd/internal/core/ports/driving"
	"github.com/float-ritual-stack/floatd/internal/core/services"
)

var processClassifyOnly bool

var processCmd = &cobra.Command{
	Use:   "process <file>...",
	Short: "Process one or more files through the pipeline",
	Long: `Runs the full ingestion pipeline on the given files without starting
the watcher. With --classify-only, prints the routing decision without
storing anything.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().BoolVar(&processClassifyOnly, "classify-only", false,
		"classify and print the decision without routing or recording")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	svc, cleanup, err := buildService(settings, false)
	if err != nil {
		return err
	}
	defer cleanup()

	var failures int
	for _, path := range args {
		if processClassifyOnly {
			if err := classifyOnly(cmd, svc, path); err != nil {
				cmd.PrintErrf("%s: %v\n", path, err)
				failures++
			}
			continue
		}

		result, err := svc.ProcessFile(cmd.Context(), path)
		if err != nil {
			cmd.PrintErrf("%s: %v\n", path, err)
			failures++
			continue
		}
		printResult(cmd, path, result)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d files failed", failures, len(args))
	}
	return nil
}

func printResult(cmd *cobra.Command, path string, result *driving.ProcessResult) {
	if result.Skipped {
		cmd.Printf("%s: skipped (%s), float id %s\n", path, result.SkipReason, result.FloatID)
		return
	}
	cmd.Printf("%s: %s -> %s (%d entries)\n",
		path, result.FloatID, describeRoutes(result.Decision), len(result.Entries))
}

// classifyOnly reads the file directly and prints the decision without
// touching the dedup gate or any store.
func classifyOnly(cmd *cobra.Command, svc *services.IngestService, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	item := &domain.ContentItem{
		SourcePath: path,
		Text:       string(data),
		Size:       info.Size(),
		ModTime:    info.ModTime(),
	}

	decision, profile, err := svc.Classify(cmd.Context(), item)
	if err != nil {
		return err
	}

	cmd.Printf("%s:\n", path)
	cmd.Printf("  routes:     %s\n", describeRoutes(decision))
	if len(decision.SpecialCollections) > 0 {
		cmd.Printf("  special:    %s\n", strings.Join(decision.SpecialCollections, ", "))
	}
	cmd.Printf("  complexity: %s (%d patterns, density %.4f)\n",
		profile.Complexity, profile.TotalCount, profile.SignalDensity)
	cmd.Printf("  reasoning:  %s\n", decision.Reasoning)
	return nil
}

func describeRoutes(decision *domain.RoutingDecision) string {
	if decision.Ambiguous {
		return "general (ambiguous)"
	}
	routes := decision.Routes()
	parts := make([]string, len(routes))
	for i, d := range routes {
		parts[i] = d.String()
	}
	s := strings.Join(parts, ", ")
	if decision.AllDomains {
		s += " (all-domain override)"
	}
	return s
}
