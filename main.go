package httpbench

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"

	"github.com/nojima/httpbench-go/bench"
	"github.com/nojima/httpbench-go/flags"
	"github.com/nojima/httpbench-go/generator"
	"github.com/nojima/httpbench-go/input"
	"github.com/nojima/httpbench-go/output"
	"github.com/nojima/httpbench-go/version"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func Main() error {
	// Parse flags
	args, usage, optionSet, err := flags.Parse(os.Args)
	if err != nil {
		if usage != nil {
			usage.PrintUsage(os.Stderr)
		}
		return err
	}
	if optionSet.PrintVersion {
		fmt.Printf("httpbench-go %s\n", version.Current())
		return nil
	}
	if optionSet.PrintLicenses {
		version.PrintLicenses(os.Stdout)
		return nil
	}

	logger := logrus.New()
	logger.SetLevel(optionSet.LogLevel)

	// Parse positional arguments
	baseURL, g, err := parsePositionalArgs(args, os.Stdin, optionSet)
	if _, ok := errors.Cause(err).(*input.UsageError); ok {
		usage.PrintUsage(os.Stderr)
		return err
	}
	if err != nil {
		return err
	}

	generatorOptions, err := loadGeneratorOptions(optionSet)
	if err != nil {
		return err
	}
	benchOptions := optionSet.BenchOptions
	benchOptions.GeneratorOptions = generatorOptions

	b, err := bench.New(bench.Config{
		Generator:       g,
		BaseURL:         baseURL,
		ExchangeOptions: optionSet.ExchangeOptions,
		Options:         benchOptions,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(os.Stdout)
	defer writer.Flush()
	printer := output.NewPrettyPrinter(output.PrettyPrinterConfig{
		Writer:      writer,
		EnableColor: optionSet.OutputOptions.EnableColor,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if optionSet.DryRun {
		return printFirstRequest(ctx, b, printer, &optionSet.OutputOptions)
	}

	result, runErr := b.Run(ctx)
	if err := printer.PrintResult(result); err != nil {
		return err
	}
	return runErr
}

// parsePositionalArgs registers the sample generator when only BASE_URL is
// given, or a static generator built from the rest of the arguments.
func parsePositionalArgs(args []string, stdin io.Reader, optionSet *flags.OptionSet) (*url.URL, generator.Generator, error) {
	if len(args) == 0 {
		return nil, nil, errors.WithStack(usageError("BASE_URL is required"))
	}
	baseURL, err := input.ParseBaseURL(args[0])
	if err != nil {
		return nil, nil, err
	}
	if len(args) == 1 {
		return baseURL, generator.Sample{}, nil
	}

	in, err := input.ParseArgs(args[1:], stdin, &optionSet.InputOptions)
	if err != nil {
		return nil, nil, err
	}
	d, err := in.Descriptor()
	if err != nil {
		return nil, nil, err
	}
	return baseURL, generator.NewStatic(d), nil
}

func usageError(message string) *input.UsageError {
	u := input.UsageError(message)
	return &u
}

func loadGeneratorOptions(optionSet *flags.OptionSet) (generator.Options, error) {
	options := generator.Options{}
	if optionSet.OptionsFile != "" {
		fromFile, err := generator.LoadOptions(optionSet.OptionsFile)
		if err != nil {
			return nil, err
		}
		options = fromFile
	}
	return options.Merge(optionSet.BenchOptions.GeneratorOptions), nil
}

func printFirstRequest(ctx context.Context, b *bench.Benchmarker, printer output.Printer, options *output.Options) error {
	r, err := b.Next(ctx)
	if err != nil {
		return err
	}
	if err := printer.PrintRequestLine(r); err != nil {
		return err
	}
	if options.PrintRequestHeader {
		if err := printer.PrintHeader(r.Header); err != nil {
			return err
		}
	}
	if options.PrintRequestBody {
		if err := printer.PrintBody(r.Body, r.Header.Get("Content-Type")); err != nil {
			return err
		}
	}
	return nil
}
