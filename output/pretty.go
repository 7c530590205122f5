package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"sort"
	"strings"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"github.com/logrusorgru/aurora"
	"github.com/nojima/httpbench-go/bench"
	"github.com/pkg/errors"
)

type PrettyPrinter struct {
	writer        io.Writer
	aurora        aurora.Aurora
	headerPalette *HeaderPalette
	resultPalette *ResultPalette
}

type PrettyPrinterConfig struct {
	Writer      io.Writer
	EnableColor bool
}

type HeaderPalette struct {
	Method         aurora.Color
	URL            aurora.Color
	Proto          aurora.Color
	FieldName      aurora.Color
	FieldValue     aurora.Color
	FieldSeparator aurora.Color
}

var defaultHeaderPalette = HeaderPalette{
	Method:         aurora.GreenFg | aurora.BoldFm,
	URL:            aurora.CyanFg | aurora.BoldFm,
	Proto:          aurora.BlueFg,
	FieldName:      aurora.BrightFg | aurora.BlackFg,
	FieldValue:     aurora.CyanFg,
	FieldSeparator: aurora.BrightFg | aurora.BlackFg,
}

type ResultPalette struct {
	Label      aurora.Color
	Value      aurora.Color
	Success    aurora.Color
	Redirect   aurora.Color
	ClientErr  aurora.Color
	ServerErr  aurora.Color
	Failure    aurora.Color
	Unexpected aurora.Color
}

var defaultResultPalette = ResultPalette{
	Label:      aurora.BrightFg | aurora.BlackFg,
	Value:      aurora.BoldFm,
	Success:    aurora.GreenFg,
	Redirect:   aurora.CyanFg,
	ClientErr:  aurora.YellowFg,
	ServerErr:  aurora.RedFg,
	Failure:    aurora.RedFg | aurora.BoldFm,
	Unexpected: aurora.MagentaFg,
}

func NewPrettyPrinter(config PrettyPrinterConfig) Printer {
	return &PrettyPrinter{
		writer:        config.Writer,
		aurora:        aurora.NewAurora(config.EnableColor),
		headerPalette: &defaultHeaderPalette,
		resultPalette: &defaultResultPalette,
	}
}

func (p *PrettyPrinter) PrintRequestLine(req *http.Request) error {
	proto := req.Proto
	if proto == "" {
		proto = "HTTP/1.1"
	}
	fmt.Fprintf(p.writer, "%s %s %s\n",
		p.aurora.Colorize(req.Method, p.headerPalette.Method),
		p.aurora.Colorize(req.URL.String(), p.headerPalette.URL),
		p.aurora.Colorize(proto, p.headerPalette.Proto))
	return nil
}

func (p *PrettyPrinter) PrintHeader(header http.Header) error {
	var names []string
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		values := header[name]
		for _, value := range values {
			fmt.Fprintf(p.writer, "%s%s %s\n",
				p.aurora.Colorize(name, p.headerPalette.FieldName),
				p.aurora.Colorize(":", p.headerPalette.FieldSeparator),
				p.aurora.Colorize(value, p.headerPalette.FieldValue))
		}
	}

	fmt.Fprintln(p.writer)
	return nil
}

func isJSON(contentType string) bool {
	contentType = strings.TrimSpace(contentType)

	semicolon := strings.Index(contentType, ";")
	if semicolon != -1 {
		contentType = contentType[:semicolon]
	}

	return contentType == "application/json" || strings.HasSuffix(contentType, "+json")
}

func (p *PrettyPrinter) PrintBody(body io.Reader, contentType string) error {
	data, err := ioutil.ReadAll(body)
	if err != nil {
		return errors.Wrap(err, "reading request body")
	}
	if len(data) == 0 {
		return nil
	}

	if isJSON(contentType) {
		var buf bytes.Buffer
		// Print as is when the body is not valid JSON
		if err := json.Indent(&buf, data, "", "    "); err == nil {
			data = buf.Bytes()
		}
	}

	if _, err := p.writer.Write(data); err != nil {
		return errors.Wrap(err, "printing request body")
	}
	fmt.Fprintln(p.writer)
	return nil
}

func (p *PrettyPrinter) PrintResult(result *bench.Result) error {
	failed := p.aurora.Colorize(fmt.Sprintf("%d failed", result.Failed), p.resultPalette.Value)
	if result.Failed > 0 {
		failed = p.aurora.Colorize(fmt.Sprintf("%d failed", result.Failed), p.resultPalette.Failure)
	}
	p.printField("Requests", fmt.Sprintf("%d (%s, %s)",
		result.Completed(),
		p.aurora.Colorize(fmt.Sprintf("%d succeeded", result.Succeeded), p.resultPalette.Value),
		failed))
	p.printField("Elapsed", p.colorizeValue(result.Elapsed.Round(time.Millisecond).String()))
	p.printField("Throughput", p.colorizeValue(fmt.Sprintf("%.2f req/s", result.RequestsPerSecond())))
	p.printField("Transferred", p.colorizeValue(bytefmt.ByteSize(result.BytesReceived)))
	if result.Succeeded > 0 {
		p.printField("Latency", fmt.Sprintf("min %s, mean %s, max %s",
			p.colorizeValue(formatLatency(result.MinLatency)),
			p.colorizeValue(formatLatency(result.MeanLatency)),
			p.colorizeValue(formatLatency(result.MaxLatency))))
	}

	if len(result.StatusCodes) == 0 {
		return nil
	}
	fmt.Fprintf(p.writer, "%s\n", p.aurora.Colorize("Status codes:", p.resultPalette.Label))
	var codes []int
	for code := range result.StatusCodes {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		fmt.Fprintf(p.writer, "  %s %d\n",
			p.aurora.Colorize(fmt.Sprintf("%d:", code), p.statusColor(code)),
			result.StatusCodes[code])
	}
	return nil
}

func (p *PrettyPrinter) printField(label string, value interface{}) {
	fmt.Fprintf(p.writer, "%s %s\n",
		p.aurora.Colorize(fmt.Sprintf("%-12s", label+":"), p.resultPalette.Label),
		value)
}

func (p *PrettyPrinter) colorizeValue(s string) aurora.Value {
	return p.aurora.Colorize(s, p.resultPalette.Value)
}

func (p *PrettyPrinter) statusColor(code int) aurora.Color {
	switch {
	case code >= 200 && code < 300:
		return p.resultPalette.Success
	case code >= 300 && code < 400:
		return p.resultPalette.Redirect
	case code >= 400 && code < 500:
		return p.resultPalette.ClientErr
	case code >= 500 && code < 600:
		return p.resultPalette.ServerErr
	default:
		return p.resultPalette.Unexpected
	}
}

func formatLatency(d time.Duration) string {
	if d < time.Millisecond {
		return d.Round(time.Microsecond).String()
	}
	return d.Round(10 * time.Microsecond).String()
}
