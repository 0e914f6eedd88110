package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/zoobzio/linkz"
)

var (
	describeJSON bool

	describeCmd = &cobra.Command{
		Use:   "describe",
		Short: "Print the structure of the sample chain",
		Long:  "Print every node of the sample chain with its input and output types.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chain, err := newSampleChain(io.Discard, 1)
			if err != nil {
				return err
			}
			defer chain.Close()
			return writeSchema(cmd.OutOrStdout(), linkz.Describe(chain.head), describeJSON)
		},
	}
)

func init() {
	describeCmd.Flags().BoolVar(&describeJSON, "json", false, "Print the schema as JSON")
}

func writeSchema(w io.Writer, schema linkz.Schema, asJSON bool) error {
	if !asJSON {
		_, err := fmt.Fprintln(w, schema)
		return err
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
