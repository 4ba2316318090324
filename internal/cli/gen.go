package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sciencedex/scorecard-audit/internal/adapters/dataset"
	"github.com/sciencedex/scorecard-audit/internal/demodata"
)

var (
	genCount    int
	genSeed     int64
	genPartyGap float64
	genOutput   string
)

// genCmd writes a synthetic corpus file.
var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a synthetic statement corpus",
	Long: `Generate a deterministic synthetic corpus in the JSON format the
audit and serve commands accept. --party-gap plants a score gap between
the major parties so a subsequent audit has bias to find.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gen := demodata.New(
			demodata.WithCount(genCount),
			demodata.WithSeed(genSeed),
			demodata.WithPartyGap(genPartyGap),
		)

		corpus := dataset.File{
			Statements: gen.Statements(),
			Candidates: gen.Candidates(),
		}
		out, err := json.MarshalIndent(corpus, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal corpus: %w", err)
		}
		out = append(out, '\n')
		return writeOutput(genOutput, out)
	},
}

func init() {
	genCmd.Flags().IntVarP(&genCount, "count", "n", 60, "number of statements")
	genCmd.Flags().Int64Var(&genSeed, "seed", 7, "generation seed")
	genCmd.Flags().Float64Var(&genPartyGap, "party-gap", 0, "score gap planted between the major parties")
	genCmd.Flags().StringVarP(&genOutput, "output", "o", "", "output file (default: stdout)")
}
