package main

import (
	"bytes"
	"context"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/grafana/elfmap/pkg/layout"
	"github.com/grafana/elfmap/pkg/logctx"
	"github.com/grafana/elfmap/pkg/objfile"
	"github.com/grafana/elfmap/pkg/report"
	"github.com/grafana/elfmap/pkg/symbols"
)

// run builds the whole report in memory and only then writes it, so a
// failure never touches output.
func run(ctx context.Context, fs afero.Fs, input, output string) error {
	ctx = logctx.WithInput(ctx, input)
	logger := logctx.Logger(ctx)

	data, err := report.ReadFile(fs, input)
	if err != nil {
		return err
	}
	f, err := objfile.OpenBytes(data)
	if err != nil {
		return errors.Wrap(err, input)
	}
	res, err := symbols.Collect(f, symbols.WithLogger(logger))
	if err != nil {
		return errors.Wrap(err, input)
	}

	var buf bytes.Buffer
	if err := layout.Report(&buf, res.Functions, res.Data); err != nil {
		return errors.Wrap(err, "render report")
	}
	if err := report.WriteFile(fs, output, buf.Bytes()); err != nil {
		return errors.Wrap(err, "write report")
	}

	level.Info(logger).Log(
		"msg", "wrote symbol layout",
		"output", output,
		"tables", strings.Join(lo.Map(res.Tables, func(t symbols.TableRef, _ int) string { return t.Symtab.Name }), ","),
		"functions", res.Functions.Len(),
		"text_size", humanize.IBytes(res.Functions.TotalSize()),
		"objects", res.Data.Len(),
		"data_size", humanize.IBytes(res.Data.TotalSize()),
	)
	return nil
}
