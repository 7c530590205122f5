package flags

import (
	"reflect"
	"testing"
	"time"

	"github.com/nojima/httpbench-go/bench"
	"github.com/nojima/httpbench-go/exchange"
	"github.com/nojima/httpbench-go/generator"
	"github.com/nojima/httpbench-go/input"
	"github.com/nojima/httpbench-go/output"
	"github.com/sirupsen/logrus"
)

func TestParse(t *testing.T) {
	args, _, optionSet, err := parse([]string{}, terminalInfo{
		stdinIsTerminal:  true,
		stdoutIsTerminal: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	var expectedArgs []string
	if !reflect.DeepEqual(expectedArgs, args) {
		t.Errorf("unexpected returned args: expected=%v, actual=%v", expectedArgs, args)
	}
	expectedOptionSet := &OptionSet{
		ExchangeOptions: exchange.Options{
			Timeout: 30 * time.Second,
		},
		BenchOptions: bench.Options{
			Requests:    200,
			Concurrency: 10,
		},
		OutputOptions: output.Options{
			EnableColor: true,
		},
		LogLevel: logrus.WarnLevel,
	}
	if !reflect.DeepEqual(expectedOptionSet, optionSet) {
		t.Errorf("unexpected option set: expected=\n%+v\nactual=\n%+v", expectedOptionSet, optionSet)
	}
}

func TestParse_AllOptions(t *testing.T) {
	// Setup
	commandLine := []string{
		"hb",
		"-n", "1000",
		"-c", "50",
		"--json",
		"--option", "user=alice",
		"-o", "limit=10",
		"--options-file", "generator.yaml",
		"--auth", "alice:open sesame",
		"--timeout", "2.5",
		"--follow",
		"--verify", "no",
		"--http1",
		"--request-id",
		"--dry-run",
		"-v",
		"--log-level", "debug",
		"localhost:8080",
		"POST", "/foo/bar", "foo=bar",
	}

	// Exercise
	args, _, optionSet, err := parse(commandLine, terminalInfo{
		stdinIsTerminal:  false,
		stdoutIsTerminal: false,
	})
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	// Verify
	expectedArgs := []string{"localhost:8080", "POST", "/foo/bar", "foo=bar"}
	if !reflect.DeepEqual(expectedArgs, args) {
		t.Errorf("unexpected returned args: expected=%v, actual=%v", expectedArgs, args)
	}
	expectedOptionSet := &OptionSet{
		InputOptions: input.Options{
			JSON:      true,
			ReadStdin: true,
		},
		ExchangeOptions: exchange.Options{
			Timeout:         2500 * time.Millisecond,
			FollowRedirects: true,
			SkipVerify:      true,
			ForceHTTP1:      true,
			Auth: exchange.AuthOptions{
				Enabled:  true,
				UserName: "alice",
				Password: "open sesame",
			},
		},
		BenchOptions: bench.Options{
			Requests:         1000,
			Concurrency:      50,
			GeneratorOptions: generator.Options{"user": "alice", "limit": "10"},
			RequestID:        true,
		},
		OutputOptions: output.Options{
			PrintRequestHeader: true,
			PrintRequestBody:   true,
		},
		OptionsFile: "generator.yaml",
		LogLevel:    logrus.DebugLevel,
		DryRun:      true,
	}
	if !reflect.DeepEqual(expectedOptionSet, optionSet) {
		t.Errorf("unexpected option set: expected=\n%+v\nactual=\n%+v", expectedOptionSet, optionSet)
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		title string
		args  []string
	}{
		{title: "Unknown flag", args: []string{"hb", "--no-such-flag"}},
		{title: "Zero requests", args: []string{"hb", "-n", "0"}},
		{title: "Negative concurrency", args: []string{"hb", "-c", "-1"}},
		{title: "Invalid timeout", args: []string{"hb", "--timeout", "soon"}},
		{title: "Invalid verify", args: []string{"hb", "--verify", "maybe"}},
		{title: "Invalid option", args: []string{"hb", "-o", "novalue"}},
		{title: "Invalid log level", args: []string{"hb", "--log-level", "loud"}},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			_, _, _, err := parse(tt.args, terminalInfo{stdinIsTerminal: true})
			if err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestParseDurationOrSeconds(t *testing.T) {
	testCases := []struct {
		input    string
		expected time.Duration
	}{
		{input: "30", expected: 30 * time.Second},
		{input: "0.5", expected: 500 * time.Millisecond},
		{input: "1m", expected: time.Minute},
		{input: "150ms", expected: 150 * time.Millisecond},
	}
	for _, tt := range testCases {
		t.Run(tt.input, func(t *testing.T) {
			d, err := parseDurationOrSeconds(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: err=%v", err)
			}
			if d != tt.expected {
				t.Errorf("unexpected duration: expected=%v, actual=%v", tt.expected, d)
			}
		})
	}
}
