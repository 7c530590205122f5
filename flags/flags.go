package flags

import (
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/nojima/httpbench-go/bench"
	"github.com/nojima/httpbench-go/exchange"
	"github.com/nojima/httpbench-go/generator"
	"github.com/nojima/httpbench-go/input"
	"github.com/nojima/httpbench-go/output"
	"github.com/pborman/getopt"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var reNumber = regexp.MustCompile(`^[0-9.]+$`)

type Usage interface {
	PrintUsage(w io.Writer)
}

type OptionSet struct {
	InputOptions    input.Options
	ExchangeOptions exchange.Options
	BenchOptions    bench.Options
	OutputOptions   output.Options

	// OptionsFile is a YAML file of generator options. Options given with
	// --option override the ones from the file.
	OptionsFile string
	LogLevel    logrus.Level
	DryRun      bool

	PrintVersion  bool
	PrintLicenses bool
}

type terminalInfo struct {
	stdinIsTerminal  bool
	stdoutIsTerminal bool
}

func Parse(args []string) ([]string, Usage, *OptionSet, error) {
	return parse(args, terminalInfo{
		stdinIsTerminal:  isatty.IsTerminal(os.Stdin.Fd()),
		stdoutIsTerminal: isatty.IsTerminal(os.Stdout.Fd()),
	})
}

func parse(args []string, terminalInfo terminalInfo) ([]string, Usage, *OptionSet, error) {
	inputOptions := input.Options{}
	exchangeOptions := exchange.Options{}
	benchOptions := bench.Options{
		Requests:    200,
		Concurrency: 10,
	}
	outputOptions := output.Options{}
	optionSet := &OptionSet{}
	var ignoreStdin bool
	var optionPairs []string
	var verboseFlag bool
	verifyFlag := "yes"
	timeout := "30s"
	authFlag := ""
	logLevel := "warn"

	flagSet := getopt.New()
	flagSet.SetParameters("BASE_URL [[METHOD] URI [REQUEST_ITEM [REQUEST_ITEM ...]]]")
	flagSet.IntVarLong(&benchOptions.Requests, "requests", 'n', "number of requests to perform")
	flagSet.IntVarLong(&benchOptions.Concurrency, "concurrency", 'c', "number of requests to run at the same time")
	flagSet.BoolVarLong(&inputOptions.Form, "form", 'f', "serialize body in application/x-www-form-urlencoded (default)")
	flagSet.BoolVarLong(&inputOptions.JSON, "json", 'j', "serialize body in JSON")
	flagSet.BoolVarLong(&ignoreStdin, "ignore-stdin", 0, "do not attempt to read stdin")
	flagSet.ListVarLong(&optionPairs, "option", 'o', "option passed to the request generator", "key=value")
	flagSet.StringVarLong(&optionSet.OptionsFile, "options-file", 0, "YAML file of options passed to the request generator", "FILE")
	flagSet.StringVarLong(&authFlag, "auth", 'a', "colon-separated username and password for basic authentication", "USER[:PASS]")
	flagSet.StringVarLong(&timeout, "timeout", 0, "timeout of each request (seconds or duration)")
	flagSet.BoolVarLong(&exchangeOptions.FollowRedirects, "follow", 'F', "follow 30x Location redirects")
	flagSet.StringVarLong(&verifyFlag, "verify", 0, "verify the host's TLS certificate (yes|no)")
	flagSet.BoolVarLong(&exchangeOptions.ForceHTTP1, "http1", 0, "force HTTP/1.1 protocol")
	flagSet.BoolVarLong(&benchOptions.RequestID, "request-id", 0, "send a unique X-Request-Id header with every request")
	flagSet.BoolVarLong(&optionSet.DryRun, "dry-run", 0, "print the first generated request instead of running the benchmark")
	flagSet.BoolVarLong(&verboseFlag, "verbose", 'v', "print headers and body of the request with --dry-run")
	flagSet.StringVarLong(&logLevel, "log-level", 0, "logging level (debug|info|warn|error)")
	flagSet.BoolVarLong(&optionSet.PrintVersion, "version", 0, "print version and exit")
	flagSet.BoolVarLong(&optionSet.PrintLicenses, "licenses", 0, "print license information and exit")
	if err := flagSet.Getopt(args, nil); err != nil {
		return nil, flagSet, nil, errors.Wrap(err, "parsing command line")
	}

	// Check stdin
	if !ignoreStdin && !terminalInfo.stdinIsTerminal {
		inputOptions.ReadStdin = true
	}

	// Parse --option
	generatorOptions, err := generator.ParseOptionPairs(optionPairs)
	if err != nil {
		return nil, flagSet, nil, err
	}
	if len(generatorOptions) > 0 {
		benchOptions.GeneratorOptions = generatorOptions
	}

	// Parse --timeout
	d, err := parseDurationOrSeconds(timeout)
	if err != nil {
		return nil, flagSet, nil, err
	}
	exchangeOptions.Timeout = d

	// Parse --verify
	switch strings.ToLower(verifyFlag) {
	case "no", "false":
		exchangeOptions.SkipVerify = true
	case "yes", "true":
		exchangeOptions.SkipVerify = false
	default:
		return nil, flagSet, nil, errors.Errorf("Value of --verify must be yes or no: %s", verifyFlag)
	}

	// Parse --auth
	if authFlag != "" {
		authOptions, err := parseAuth(authFlag)
		if err != nil {
			return nil, flagSet, nil, err
		}
		exchangeOptions.Auth = *authOptions
	}

	// Validate counts
	if benchOptions.Requests < 1 {
		return nil, flagSet, nil, errors.Errorf("Value of --requests must be positive: %d", benchOptions.Requests)
	}
	if benchOptions.Concurrency < 1 {
		return nil, flagSet, nil, errors.Errorf("Value of --concurrency must be positive: %d", benchOptions.Concurrency)
	}

	// Parse --log-level
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return nil, flagSet, nil, errors.Wrap(err, "parsing --log-level")
	}
	optionSet.LogLevel = level

	// Output
	outputOptions.EnableColor = terminalInfo.stdoutIsTerminal
	outputOptions.PrintRequestHeader = verboseFlag
	outputOptions.PrintRequestBody = verboseFlag

	optionSet.InputOptions = inputOptions
	optionSet.ExchangeOptions = exchangeOptions
	optionSet.BenchOptions = benchOptions
	optionSet.OutputOptions = outputOptions
	return flagSet.Args(), flagSet, optionSet, nil
}

func parseDurationOrSeconds(timeout string) (time.Duration, error) {
	if reNumber.MatchString(timeout) {
		timeout += "s"
	}
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return time.Duration(0), errors.Errorf("Value of --timeout must be a number or duration string: %v", timeout)
	}
	return d, nil
}

func parseAuth(authFlag string) (*exchange.AuthOptions, error) {
	// Password is specified
	colonIndex := strings.Index(authFlag, ":")
	if colonIndex != -1 {
		return &exchange.AuthOptions{
			Enabled:  true,
			UserName: authFlag[:colonIndex],
			Password: authFlag[colonIndex+1:],
		}, nil
	}

	// Password is not specified
	password, err := askPassword()
	if err != nil {
		return nil, err
	}
	return &exchange.AuthOptions{
		Enabled:  true,
		UserName: authFlag,
		Password: password,
	}, nil
}
