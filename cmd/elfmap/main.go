package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/common/version"
	"github.com/spf13/afero"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/grafana/elfmap/pkg/logctx"
	"github.com/grafana/elfmap/pkg/report"
)

var cfg struct {
	input string
}

var (
	consoleOutput = os.Stderr
	logger        = log.NewLogfmtLogger(consoleOutput)
)

func main() {
	app := kingpin.New(filepath.Base(os.Args[0]), "Write the function and data symbol layout of an ELF object file to "+report.DefaultFileName+".").UsageWriter(os.Stdout)
	app.Version(version.Print("elfmap"))
	app.HelpFlag.Short('h')
	app.Arg("object-file", "Path to the ELF object file.").Required().ExistingFileVar(&cfg.input)

	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger = level.NewFilter(log.With(logger, "ts", log.DefaultTimestampUTC), level.AllowInfo())
	ctx := logctx.WithLogger(context.Background(), logger)

	os.Exit(checkError(run(ctx, afero.NewOsFs(), cfg.input, report.DefaultFileName)))
}

func checkError(err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	return 1
}
