package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zoobzio/linkz"
)

var (
	runFactor   int
	runContinue bool

	runCmd = &cobra.Command{
		Use:   "run [value...]",
		Short: "Drive the sample chain with each value",
		Long: `Drive the sample chain (parse -> scale -> label -> print) once per
argument. Values that fail to parse stop at the parse node and the
failing path is reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChain(cmd.Context(), cmd, args)
		},
	}
)

func init() {
	runCmd.Flags().IntVar(&runFactor, "factor", 2, "Multiplier applied by the scale node")
	runCmd.Flags().BoolVar(&runContinue, "keep-going", false, "Continue with the next value after a failure")
}

func runChain(ctx context.Context, cmd *cobra.Command, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	chain, err := newSampleChain(cmd.OutOrStdout(), runFactor)
	if err != nil {
		return err
	}
	defer chain.Close()

	var failed int
	for _, arg := range args {
		err := chain.head.Consume(ctx, arg)
		if err == nil {
			continue
		}
		failed++

		var nodeErr *linkz.Error
		if errors.As(err, &nodeErr) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%q failed at %s: %v\n", arg, strings.Join(nodeErr.Path, " -> "), nodeErr.Err)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "%q failed: %v\n", arg, err)
		}
		if !runContinue {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d values failed", failed, len(args))
	}
	return nil
}
