// Command rdfcanon canonicalizes RDF datasets.
//
// Usage:
//
//	rdfcanon canon [file|-]      write the canonical N-Quads document
//	rdfcanon hash [file|-]       print the canonical digest and CID
//	rdfcanon verify a b          check two datasets for isomorphism
//	rdfcanon version
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdfc-go/internal/config"
	"github.com/geoknoesis/rdfc-go/internal/metrics"
	"github.com/geoknoesis/rdfc-go/rdf"
	"github.com/geoknoesis/rdfc-go/rdfc"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Exit codes.
const (
	exitOK            = 0
	exitFailure       = 1
	exitUsage         = 2
	exitInvalidInput  = 3
	exitTooComplex    = 4
	exitAmbiguous     = 5
	exitNotIsomorphic = 6
)

var errNotIsomorphic = errors.New("datasets are not isomorphic")

// cli carries the state shared by all subcommands of one invocation.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	cfg        *config.Config
	logger     *slog.Logger
	recorder   *metrics.Recorder

	// flag values, applied over the config file when set
	algorithm         string
	format            string
	workers           int
	maxWorkFactor     int
	maxDeepIterations int
	logLevel          string
	metricsOut        string
	strictIRIs        bool
	noVerifyTies      bool
	baseIRI           string

	printMap bool
	output   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr, recorder: metrics.New()}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if werr := c.writeMetrics(); werr != nil {
		fmt.Fprintf(stderr, "rdfcanon: %v\n", werr)
		if err == nil {
			err = werr
		}
	}
	if err != nil {
		if !errors.Is(err, errNotIsomorphic) {
			fmt.Fprintf(stderr, "rdfcanon: %v\n", err)
		}
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	var usage *usageError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &usage):
		return exitUsage
	case errors.Is(err, errNotIsomorphic):
		return exitNotIsomorphic
	}
	switch rdfc.Code(err) {
	case rdfc.ErrCodeMalformedTerm, rdfc.ErrCodeUnsupportedAlgorithm:
		return exitInvalidInput
	case rdfc.ErrCodeTooComplex:
		return exitTooComplex
	case rdfc.ErrCodeAmbiguous:
		return exitAmbiguous
	}
	var parseErr *rdf.ParseError
	if errors.As(err, &parseErr) || errors.Is(err, rdf.ErrLineTooLong) || errors.Is(err, rdf.ErrQuadLimitExceeded) {
		return exitInvalidInput
	}
	return exitFailure
}

// usageError marks command line mistakes.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rdfcanon",
		Short:         "Canonicalize RDF datasets with URDNA2015 / RDFC-1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVarP(&c.algorithm, "algorithm", "a", string(rdfc.DefaultAlgorithm), "algorithm: URDNA2015, RDFC-1.0 or RDFC-1.0-SHA384")
	flags.StringVarP(&c.format, "format", "f", "", "input format: nquads, ntriples or jsonld (default: from file extension)")
	flags.IntVar(&c.workers, "workers", 1, "hashing goroutines")
	flags.IntVar(&c.maxWorkFactor, "max-work-factor", rdfc.DefaultMaxWorkFactor, "deep iteration exponent, -1 for unlimited")
	flags.IntVar(&c.maxDeepIterations, "max-deep-iterations", 0, "explicit per-node deep iteration limit")
	flags.StringVar(&c.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.StringVar(&c.metricsOut, "metrics-out", "", "write Prometheus metrics to this file, - for stderr")
	flags.BoolVar(&c.strictIRIs, "strict-iris", false, "reject relative or unescaped IRIs")
	flags.BoolVar(&c.noVerifyTies, "no-verify-ties", false, "skip the reversed-order check for tied hashes")
	flags.StringVar(&c.baseIRI, "base", "", "base IRI for JSON-LD input")

	root.AddCommand(c.canonCmd(), c.hashCmd(), c.verifyCmd(), c.versionCmd())
	return root
}

// setup loads the configuration and applies explicitly set flags over it.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return &usageError{err: err}
	}
	flags := cmd.Flags()
	if flags.Changed("algorithm") {
		cfg.Canon.Algorithm = c.algorithm
	}
	if flags.Changed("format") {
		cfg.Input.Format = c.format
	}
	if flags.Changed("workers") {
		cfg.Canon.Workers = c.workers
	}
	if flags.Changed("max-work-factor") {
		cfg.Canon.MaxWorkFactor = c.maxWorkFactor
	}
	if flags.Changed("max-deep-iterations") {
		cfg.Canon.MaxDeepIterations = c.maxDeepIterations
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = c.logLevel
	}
	if flags.Changed("metrics-out") {
		cfg.Metrics.Output = c.metricsOut
	}
	if flags.Changed("strict-iris") {
		cfg.Canon.StrictIRIs = c.strictIRIs
	}
	if flags.Changed("no-verify-ties") {
		cfg.Canon.VerifyTies = !c.noVerifyTies
	}
	if flags.Changed("base") {
		cfg.Input.BaseIRI = c.baseIRI
	}
	if err := cfg.Validate(); err != nil {
		return &usageError{err: err}
	}
	c.cfg = cfg
	c.logger = slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	c.logger.Debug("configuration loaded", "config", c.configPath, "algorithm", cfg.Canon.Algorithm, "workers", cfg.Canon.Workers)
	return nil
}

func (c *cli) canonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canon [file|-]",
		Short: "Write the canonical N-Quads form of a dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.canonicalizeArg(cmd.Context(), inputArg(args))
			if err != nil {
				return err
			}
			if err := c.writeOutput(res.NQuads); err != nil {
				return err
			}
			if c.printMap {
				writeMapping(c.stderr, res.IssuedIdentifiers)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&c.printMap, "map", false, "print the issued blank node identifiers to stderr")
	cmd.Flags().StringVarP(&c.output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// writeOutput writes doc to the -o file, or stdout when none is set.
func (c *cli) writeOutput(doc string) error {
	if c.output == "" || c.output == "-" {
		_, err := io.WriteString(c.stdout, doc)
		return err
	}
	f, err := os.Create(c.output)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f, doc); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (c *cli) hashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash [file|-]",
		Short: "Print the digest and CIDv1 of the canonical form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.canonicalizeArg(cmd.Context(), inputArg(args))
			if err != nil {
				return err
			}
			id, err := rdfc.CID(res.NQuads)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "%s %s\n", res.Algorithm, rdfc.Digest(res.NQuads, res.Algorithm))
			fmt.Fprintf(c.stdout, "cid %s\n", id)
			return nil
		},
	}
}

func (c *cli) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <a> <b>",
		Short: "Exit 0 when two datasets canonicalize to the same document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "-" && args[1] == "-" {
				return &usageError{err: errors.New("stdin can only be read once")}
			}
			a, err := c.canonicalizeArg(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			b, err := c.canonicalizeArg(cmd.Context(), args[1])
			if err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}
			if a.NQuads != b.NQuads {
				fmt.Fprintln(c.stdout, "not isomorphic")
				return errNotIsomorphic
			}
			fmt.Fprintln(c.stdout, "isomorphic")
			return nil
		},
	}
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			algs := make([]string, 0, 3)
			for _, alg := range rdfc.Algorithms() {
				algs = append(algs, string(alg))
			}
			fmt.Fprintf(c.stdout, "rdfcanon %s (%s)\n", version, strings.Join(algs, ", "))
			return nil
		},
	}
}

func inputArg(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

// canonicalizeArg reads the dataset named by arg ("-" for stdin) and
// canonicalizes it with the configured options.
func (c *cli) canonicalizeArg(ctx context.Context, arg string) (*rdfc.Result, error) {
	ds, err := c.readDataset(ctx, arg)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	res, err := rdfc.Canonicalize(ctx, ds, c.cfg.CanonOptions(c.logger)...)
	alg, _ := rdfc.ParseAlgorithm(c.cfg.Canon.Algorithm)
	c.recorder.Observe(alg, res, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	c.logger.Info("canonicalized",
		"input", arg,
		"quads", res.Stats.Quads,
		"blank_nodes", res.Stats.BlankNodes,
		"ndegree_rounds", res.Stats.NDegreeRounds,
		"ties", res.Stats.Ties,
		"duration", res.Stats.Duration,
	)
	return res, nil
}

func (c *cli) readDataset(ctx context.Context, arg string) (*rdf.Dataset, error) {
	if arg == "-" {
		r := bufio.NewReader(c.stdin)
		return rdf.ParseDataset(ctx, r, c.stdinFormat(r), c.cfg.InputOptions()...)
	}
	format, err := c.fileFormat(arg)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(arg)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return rdf.ParseDataset(ctx, f, format, c.cfg.InputOptions()...)
}

// stdinFormat returns the configured format, else sniffs r, else N-Quads.
func (c *cli) stdinFormat(r *bufio.Reader) rdf.Format {
	if format, ok := rdf.ParseFormat(c.cfg.Input.Format); ok {
		return format
	}
	if format, ok := rdf.DetectFormat(r); ok {
		c.logger.Debug("detected input format", "format", format)
		return format
	}
	return rdf.FormatNQuads
}

func (c *cli) fileFormat(path string) (rdf.Format, error) {
	if format, ok := rdf.ParseFormat(c.cfg.Input.Format); ok {
		return format, nil
	}
	format, err := rdf.ResolveFormatFromPath(path)
	if err != nil {
		return "", &usageError{err: fmt.Errorf("%w (use --format)", err)}
	}
	return format, nil
}

func writeMapping(w io.Writer, mapping map[string]string) {
	ids := make([]string, 0, len(mapping))
	for id := range mapping {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return mapping[ids[i]] < mapping[ids[j]] })
	for _, id := range ids {
		fmt.Fprintf(w, "_:%s -> _:%s\n", id, mapping[id])
	}
}

func (c *cli) writeMetrics() error {
	if c.cfg == nil || c.cfg.Metrics.Output == "" {
		return nil
	}
	if c.cfg.Metrics.Output == "-" {
		return c.recorder.WriteText(c.stderr)
	}
	return c.recorder.WriteFile(c.cfg.Metrics.Output)
}
