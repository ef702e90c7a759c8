package cli

import (
	"context"
	"fmt"
	"net/url"

	"github.com/architeacher/specargs/internal/adapters/repos"
	"github.com/architeacher/specargs/internal/domain/model"
	"github.com/architeacher/specargs/internal/resolver"
	"github.com/architeacher/specargs/pkg/logger"
	"github.com/architeacher/specargs/pkg/metrics/noop"
	"github.com/spf13/cobra"
	otelNoop "go.opentelemetry.io/otel/trace/noop"
)

type (
	resolveOptions struct {
		query string
		page  uint64
		size  uint64
	}

	resolveResult struct {
		Endpoint      string `json:"endpoint"`
		Specification string `json:"specification"`
		Fingerprint   string `json:"fingerprint"`
		SQL           string `json:"sql"`
		Args          []any  `json:"args"`
	}
)

func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve <endpoint>",
		Short: "Resolve a query string against an endpoint and print the SQL",
		Example: `  specctl resolve customers --query 'name=al&orderStatus=paid&orderStatus=shipped'
  specctl resolve orders --query 'since=2024-01-01' --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "URL encoded query string")
	cmd.Flags().Uint64Var(&opts.page, "page", 1, "page number")
	cmd.Flags().Uint64Var(&opts.size, "size", 20, "page size, 0 disables paging")

	return cmd
}

func runResolve(cmd *cobra.Command, rootOpts *RootOptions, opts *resolveOptions, name string) error {
	endpoint, ok := rootOpts.catalog.Endpoint(name)
	if !ok {
		return fmt.Errorf("unknown endpoint %q", name)
	}

	values, err := url.ParseQuery(opts.query)
	if err != nil {
		return fmt.Errorf("parsing query: %w", err)
	}

	log := logger.NewTestLogger()
	if rootOpts.Verbose {
		log = logger.NewWithWriter("debug", "console", cmd.ErrOrStderr())
	}

	handler := resolver.NewResolveSpecificationHandler(
		resolver.NewEngine(nil, rootOpts.catalog.Definitions),
		log,
		noop.NewMetricsClient(),
		otelNoop.NewTracerProvider(),
	)

	spec, err := handler.Execute(context.Background(), resolver.ResolveSpecification{
		Parameter: endpoint.Parameter,
		Values:    model.MapValues(values),
	})
	if err != nil {
		return err
	}

	repo := repos.NewSpecificationRepository(nil, nil, repos.NewCriteriaTranslator(&log), nil, log)

	sql, sqlArgs, err := repo.Preview(endpoint.Entity, spec, repos.Page{Number: opts.page, Size: opts.size})
	if err != nil {
		return err
	}

	result := resolveResult{
		Endpoint:      endpoint.Name,
		Specification: model.Describe(spec),
		Fingerprint:   fmt.Sprintf("%016x", model.Fingerprint(spec)),
		SQL:           sql,
		Args:          sqlArgs,
	}

	if rootOpts.Format == FormatJSON {
		if result.Args == nil {
			result.Args = []any{}
		}

		return writeJSON(cmd.OutOrStdout(), result)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "specification: %s\n", result.Specification)
	fmt.Fprintf(out, "fingerprint:   %s\n", result.Fingerprint)
	fmt.Fprintf(out, "sql:           %s\n", result.SQL)
	fmt.Fprintf(out, "args:          %v\n", result.Args)

	return nil
}
