package inspect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-openapi/strfmt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/intent-wallet/internal/wallet/txbuilder"
)

const fileFlag = "file"

type summary struct {
	Format                string `json:"format"`
	Instructions          int    `json:"instructions"`
	RequiredSignatures    int    `json:"requiredSignatures"`
	FeePayer              string `json:"feePayer"`
	RecentBlockhash       string `json:"recentBlockhash"`
	AddressTableLookups   int    `json:"addressTableLookups"`
	LocalPartialSigners   int    `json:"localPartialSigners"`
	ExternallyConstructed bool   `json:"externallyConstructed"`
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [base64]",
		Short: "Classifies and summarizes a serialized transaction",
		Long: `Decodes a base64 transaction blob as returned by the intent service
and prints its format, fee payer and instruction count as JSON.
Use --file to read the blob from a file instead.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path, err := cmd.Flags().GetString(fileFlag)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to parse args")
			}

			if err := runInspect(args, path); err != nil {
				log.Fatal().Err(err).Msg("Failed to inspect transaction")
			}
		},
	}

	cmd.Flags().StringP(fileFlag, "f", "", "Read the base64 blob from this file.")

	return cmd
}

func runInspect(args []string, path string) error {
	var encoded []byte

	switch {
	case path != "":
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		encoded = b
	case len(args) == 1:
		encoded = []byte(args[0])
	default:
		return fmt.Errorf("either a base64 argument or --%s is required", fileFlag)
	}

	var blob strfmt.Base64
	if err := blob.UnmarshalText(bytes.TrimSpace(encoded)); err != nil {
		return fmt.Errorf("failed to decode base64: %w", err)
	}

	s, err := txbuilder.Inspect(blob)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(summary{
		Format:                s.Format.String(),
		Instructions:          s.Instructions,
		RequiredSignatures:    s.RequiredSignatures,
		FeePayer:              s.FeePayer.String(),
		RecentBlockhash:       s.RecentBlockhash.String(),
		AddressTableLookups:   s.AddressTableLookups,
		LocalPartialSigners:   s.LocalPartialSigners,
		ExternallyConstructed: s.ExternallyConstructed,
	}, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))

	return nil
}
