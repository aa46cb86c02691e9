// Package report renders analysis results as text, JSON or SARIF.
package report

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/tinyrange/safecpp/internal/config"
	"github.com/tinyrange/safecpp/internal/diag"
)

// CleanMessage is printed when no diagnostic was produced.
const CleanMessage = "No memory issues detected."

// Report is the outcome of analyzing one file.
type Report struct {
	File        string
	Diagnostics diag.List
}

// Writer renders a report.
type Writer interface {
	Write(w io.Writer, r Report) error
}

// Settings tune the writers; they are ignored where they do not apply.
type Settings struct {
	All   bool // text: print every diagnostic, not just the first
	Color bool // text: highlight the error prefix
}

// For returns the writer for format.
func For(format config.Format, s Settings) (Writer, error) {
	switch format {
	case config.FormatText, "":
		return Text{All: s.All, Color: s.Color}, nil
	case config.FormatJSON:
		return JSON{}, nil
	case config.FormatSARIF:
		return SARIF{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownFormat, format)
	}
}

// Text prints "Error: <message>" lines, or [CleanMessage].
type Text struct {
	All   bool
	Color bool
}

func (t Text) Write(w io.Writer, r Report) error {
	if r.Diagnostics.OK() {
		_, err := fmt.Fprintln(w, CleanMessage)
		return err
	}
	prefix := "Error:"
	if t.Color {
		prefix = "\x1b[1;31mError:\x1b[0m"
	}
	list := r.Diagnostics
	if !t.All {
		list = list[:1]
	}
	for _, d := range list {
		if _, err := fmt.Fprintln(w, prefix, d.Message); err != nil {
			return err
		}
	}
	return nil
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type jsonReport struct {
	File        string            `json:"file"`
	OK          bool              `json:"ok"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
}

// JSON writes the report as one indented JSON object.
type JSON struct{}

func (JSON) Write(w io.Writer, r Report) error {
	out := jsonReport{File: r.File, OK: r.Diagnostics.OK(), Diagnostics: r.Diagnostics}
	if out.Diagnostics == nil {
		out.Diagnostics = diag.List{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
