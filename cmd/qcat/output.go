package main

import (
	"fmt"
	"io"

	"github.com/brinkdata/qengine/output"
)

func formatterFor(format string, w io.Writer) (output.Formatter, error) {
	switch format {
	case "csv":
		return output.NewCSVFormatter(w), nil
	case "json":
		return output.NewJSONFormatter(w), nil
	case "table":
		return output.NewTableFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
