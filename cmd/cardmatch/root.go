package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tcgwallet/backend/internal/domain"
	"github.com/tcgwallet/backend/internal/infrastructure/catalog"
	"github.com/tcgwallet/backend/internal/usecase"
)

func newRootCommand() *cobra.Command {
	var (
		cardsDir    string
		cardJSON    string
		cardFile    string
		weightsJSON string
		weightsFile string
		top         int
		minScore    float64
	)

	cmd := &cobra.Command{
		Use:           "cardmatch",
		Short:         "Match extracted card attributes against a local card catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := loadQuery(cardJSON, cardFile)
			if err != nil {
				return err
			}

			overrides, err := loadWeights(weightsJSON, weightsFile)
			if err != nil {
				return err
			}

			weights, err := usecase.ResolveWeights(overrides)
			if err != nil {
				return err
			}

			store := catalog.NewStore(cardsDir)
			if err := store.Load(); err != nil {
				return fmt.Errorf("loading catalog: %w", err)
			}

			results, err := usecase.FindBestMatches(cmd.Context(), query, store.Snapshot(), weights, top)
			if err != nil {
				return err
			}

			kept := results[:0]
			for _, result := range results {
				if result.Score >= minScore {
					kept = append(kept, result)
				}
			}

			if len(kept) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matches above the score threshold.")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderMatchTable(kept))
			return nil
		},
	}

	cmd.Flags().StringVar(&cardsDir, "cards-dir", "data/cards_by_pack", "Directory containing cards_*.json pack files")
	cmd.Flags().StringVar(&cardJSON, "card-json", "", "Query card attributes as a JSON string")
	cmd.Flags().StringVar(&cardFile, "card-file", "", "Path to a JSON file with query card attributes")
	cmd.Flags().StringVar(&weightsJSON, "weights-json", "", "Weight overrides as a JSON string")
	cmd.Flags().StringVar(&weightsFile, "weights-file", "", "Path to a JSON file with weight overrides")
	cmd.Flags().IntVar(&top, "top", 5, "Maximum number of matches to show")
	cmd.Flags().Float64Var(&minScore, "min-score", 0.3, "Minimum similarity score to show")

	return cmd
}

// loadQuery reads the query card from an inline JSON string or a file
func loadQuery(cardJSON, cardFile string) (*domain.QueryCard, error) {
	var data []byte
	switch {
	case cardJSON != "":
		data = []byte(cardJSON)
	case cardFile != "":
		raw, err := os.ReadFile(cardFile)
		if err != nil {
			return nil, fmt.Errorf("reading card file: %w", err)
		}
		data = raw
	default:
		return nil, fmt.Errorf("one of --card-json or --card-file is required")
	}

	var query domain.QueryCard
	if err := json.Unmarshal(data, &query); err != nil {
		return nil, fmt.Errorf("decoding query card: %w", err)
	}
	return &query, nil
}

// loadWeights reads optional weight overrides from an inline JSON string or a
// file
func loadWeights(weightsJSON, weightsFile string) (map[string]float64, error) {
	var data []byte
	switch {
	case weightsJSON != "":
		data = []byte(weightsJSON)
	case weightsFile != "":
		raw, err := os.ReadFile(weightsFile)
		if err != nil {
			return nil, fmt.Errorf("reading weights file: %w", err)
		}
		data = raw
	default:
		return nil, nil
	}

	var overrides map[string]float64
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("decoding weight overrides: %w", err)
	}
	return overrides, nil
}
