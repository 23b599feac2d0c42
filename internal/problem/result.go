package problem

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/choldown/chol"
)

// Rows is a matrix in natural row order. It encodes each row as a flow
// sequence ("- [1, 2]") so factors stay readable.
type Rows [][]float64

// MarshalYAML implements yaml.Marshaler.
func (r Rows) MarshalYAML() (interface{}, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range r {
		line := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, v := range row {
			line.Content = append(line.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: formatFloat(v)})
		}
		seq.Content = append(seq.Content, line)
	}

	return seq, nil
}

// formatFloat renders v in the shortest form that reads back to the same bits,
// using the YAML spellings for the non-finite values.
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ".nan"
	case math.IsInf(v, 1):
		return ".inf"
	case math.IsInf(v, -1):
		return "-.inf"
	}

	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Result is the outcome of Run as written by Encode.
type Result struct {
	Status   string   `json:"status" yaml:"status"`
	Code     int      `json:"code" yaml:"code"`
	N        int      `json:"order" yaml:"order"`
	R        Rows     `json:"r,omitempty" yaml:"r,omitempty"`
	Residual *float64 `json:"residual,omitempty" yaml:"residual,omitempty"`
}

// Run factors p, downdates the factor by p.X and reports the outcome.
// R holds the new factor on success and the unchanged input factor on
// rejection. With verify set, a successful result also carries the relative
// reconstruction error from chol.Residual.
//
// A NotPositiveDefinite outcome is a Result, not an error. Errors are
// returned for problems that cannot be factored and for downdate
// precondition failures; the Result then carries Status "invalid".
func Run(p *Problem, verify bool, opts ...chol.Option) (Result, error) {
	res := Result{Status: chol.Invalid.String(), Code: chol.Invalid.Code(), N: p.N()}

	r, err := p.Factor()
	if err != nil {
		return res, err
	}
	orig := r.Copy()

	status, err := chol.Downdate(r, p.X, opts...)
	res.Status, res.Code = status.String(), status.Code()
	if err != nil {
		return res, fmt.Errorf("downdate: %w", err)
	}
	res.R = r.ToRows()
	if status != chol.Success {
		return res, nil
	}
	if verify {
		resid, err := chol.Residual(orig, r, p.X)
		if err != nil {
			return res, fmt.Errorf("verify: %w", err)
		}
		res.Residual = &resid
	}

	return res, nil
}

// Encode writes v as a YAML document with two-space indentation.
func Encode(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	return enc.Close()
}
