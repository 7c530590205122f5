package output

import (
	"io"
	"net/http"

	"github.com/nojima/httpbench-go/bench"
)

type Printer interface {
	PrintRequestLine(request *http.Request) error
	PrintHeader(header http.Header) error
	PrintBody(body io.Reader, contentType string) error
	PrintResult(result *bench.Result) error
}
