package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"charterline/internal/compliance/detector"
	"charterline/internal/compliance/guidance"
	compliance "charterline/internal/compliance/models"
	"charterline/internal/compliance/risk"
)

type evaluation struct {
	Flags    []compliance.ComplianceFlag `json:"flags"`
	Risk     compliance.RiskAssessment   `json:"risk"`
	Guidance string                      `json:"guidance"`
}

func evaluateCmd(c *cli) *cobra.Command {
	var (
		file   string
		format string
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Detect compliance flags for an intake record",
		Long: `Reads an intake record (YAML or JSON) and prints the detected flags,
the risk assessment and the guidance text. Nothing is stored.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := readInput(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			record, err := decodeIntake(data)
			if err != nil {
				return err
			}

			flags := detector.Detect(record)
			assessment := risk.Assess(flags)
			c.log.Debug("intake evaluated",
				"organization", record.OrganizationName,
				"flag_count", len(flags),
				"tier", string(assessment.Tier),
			)

			switch format {
			case "json":
				return writeJSON(cmd.OutOrStdout(), evaluation{
					Flags:    flags,
					Risk:     assessment,
					Guidance: guidance.Format(flags),
				})
			case "text":
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Risk: %s (score %d)\n\n%s\n",
					assessment.Tier, assessment.Score, guidance.Format(flags))
				return err
			default:
				return fmt.Errorf("unknown format %q (json, text)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "intake file, - for stdin")
	cmd.Flags().StringVar(&format, "format", "json", "output format (json, text)")
	return cmd
}
