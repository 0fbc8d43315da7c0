package main

import (
	"github.com/spf13/cobra"

	"charterline/internal/recommendation"
)

func recommendCmd(c *cli) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Score exploration answers against the association structure",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := readInput(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			answers, err := decodeAnswers(data)
			if err != nil {
				return err
			}
			engine := recommendation.New(recommendation.WithSupportedJurisdictions(c.cfg.Jurisdictions...))
			result := engine.Recommend(answers)
			c.log.Debug("recommendation computed", "outcome", string(result.Recommendation), "score", result.Score)
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "answers file, - for stdin")
	return cmd
}
