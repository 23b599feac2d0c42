package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/choldown/chol"
	"github.com/katalvlaran/choldown/internal/problem"
)

var errFactorNeedsA = errors.New("factor: problem file must give the SPD matrix under a")

func (a *app) downdateCmd() *cobra.Command {
	var (
		file        string
		output      string
		verify      bool
		strictUpper float64
	)
	cmd := &cobra.Command{
		Use:   "downdate",
		Short: "Downdate a Cholesky factor by a rank-1 term",
		Long: `Load a problem file, replace its factor R of A by the factor of A − xxᵗ
and print the result as YAML. Exits with status 2 when A − xxᵗ is not
positive definite; the input factor is then reported unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := problem.LoadFile(file)
			if err != nil {
				return err
			}
			a.log.Info().Str("file", file).Int("n", p.N()).Msg("problem loaded")

			opts := []chol.Option{chol.WithTrace(func(stage chol.Stage, value float64) {
				a.log.Debug().Str("stage", stage.String()).Float64("value", value).Msg("downdate")
			})}
			if cmd.Flags().Changed("strict-upper") {
				if strictUpper < 0 {
					return fmt.Errorf("--strict-upper must be non-negative, got %g", strictUpper)
				}
				opts = append(opts, chol.WithStrictUpper(strictUpper))
			}

			res, err := problem.Run(p, verify, opts...)
			if err != nil {
				return err
			}

			ev := a.log.Info().Str("status", res.Status).Int("code", res.Code)
			if res.Residual != nil {
				ev = ev.Float64("residual", *res.Residual)
			}
			ev.Msg("downdate finished")

			if err = a.writeResult(output, res); err != nil {
				return err
			}
			if res.Code == chol.NotPositiveDefinite.Code() {
				return &exitCodeError{code: exitRejected, err: chol.ErrNotPositiveDefinite}
			}

			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Problem file (YAML or JSON)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result here instead of stdout")
	cmd.Flags().BoolVar(&verify, "verify", false, "Report the relative reconstruction error of the new factor")
	cmd.Flags().Float64Var(&strictUpper, "strict-upper", 0, "Reject factors with |R(i,j)| > EPS below the diagonal")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (a *app) factorCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "factor",
		Short: "Cholesky-factor the SPD matrix of a problem file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			p, err := problem.LoadFile(file)
			if err != nil {
				return err
			}
			if p.A == nil {
				return errFactorNeedsA
			}
			r, err := p.Factor()
			if err != nil {
				return err
			}
			a.log.Info().Int("n", p.N()).Msg("factored")

			return problem.Encode(a.out, problem.Result{
				Status: chol.Success.String(),
				Code:   chol.Success.Code(),
				N:      p.N(),
				R:      r.ToRows(),
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Problem file with an a: matrix")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (a *app) normCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "norm V...",
		Short: "Print the overflow-safe Euclidean norm of the arguments",
		Args:  cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			v := make([]float64, len(args))
			for i, s := range args {
				f, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return fmt.Errorf("norm: argument %d: %w", i+1, err)
				}
				v[i] = f
			}
			_, err := fmt.Fprintln(a.out, strconv.FormatFloat(chol.Nrm2(v), 'g', -1, 64))

			return err
		},
	}
}

// writeResult encodes res to path, or to stdout when path is empty.
// A failed close of the output file is reported like a failed write.
func (a *app) writeResult(path string, res problem.Result) (err error) {
	if path == "" {
		return problem.Encode(a.out, res)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()

	return problem.Encode(f, res)
}
