package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/passkeep/passkeep-go/internal/crypto"
	"github.com/passkeep/passkeep-go/internal/model"
)

// GenerateOptions holds the flags of the generate command.
type GenerateOptions struct {
	Length     int
	Letters    bool
	LetterCase string
	Digits     bool
	Symbols    bool
	Charset    string
	Count      int
	Remote     bool
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print random passwords",
		Long: `Print random passwords built from the selected character sets.

Every selected set contributes at least one character. A custom charset is
added as one more set. With --remote the password comes from the API.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), rootOpts, opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.Length, "length", "n", crypto.DefaultLength, "password length (4-128)")
	f.BoolVar(&opts.Letters, "letters", true, "include letters")
	f.StringVar(&opts.LetterCase, "case", string(crypto.CaseLower), "letter case (lower|upper|random)")
	f.BoolVar(&opts.Digits, "digits", true, "include digits")
	f.BoolVar(&opts.Symbols, "symbols", true, "include symbols")
	f.StringVar(&opts.Charset, "charset", "", "extra characters to draw from")
	f.IntVarP(&opts.Count, "count", "c", 1, "number of passwords")
	f.BoolVar(&opts.Remote, "remote", false, "generate on the server")

	return cmd
}

func runGenerate(ctx context.Context, rootOpts *RootOptions, opts *GenerateOptions, w io.Writer) error {
	if opts.Count < 1 {
		return fmt.Errorf("invalid count %d: must be at least 1", opts.Count)
	}

	gen, err := generatorFor(rootOpts, opts)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	for range opts.Count {
		password, err := gen(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, password)
	}
	return nil
}

func generatorFor(rootOpts *RootOptions, opts *GenerateOptions) (func(context.Context) (string, error), error) {
	c := crypto.LetterCase(opts.LetterCase)
	switch c {
	case crypto.CaseLower, crypto.CaseUpper, crypto.CaseRandom:
	default:
		return nil, fmt.Errorf("invalid case %q: must be one of lower, upper, random", opts.LetterCase)
	}

	if opts.Remote {
		api, err := rootOpts.client()
		if err != nil {
			return nil, err
		}
		req := model.GenerateRequest{
			Length:        opts.Length,
			Letters:       &opts.Letters,
			LetterCase:    opts.LetterCase,
			Digits:        &opts.Digits,
			Symbols:       &opts.Symbols,
			CustomCharset: opts.Charset,
		}
		return func(ctx context.Context) (string, error) {
			resp, err := api.Generate(ctx, req)
			return resp.Password, err
		}, nil
	}

	po := crypto.PasswordOptions{
		Length:        crypto.ClampLength(opts.Length),
		Digits:        opts.Digits,
		Symbols:       opts.Symbols,
		CustomCharset: opts.Charset,
	}
	po.ApplyLetterCase(opts.Letters, c)
	return func(context.Context) (string, error) {
		return crypto.Generate(po)
	}, nil
}
