package config

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl2/gohcl"
	"github.com/hashicorp/hcl2/hcl"
	"github.com/hashicorp/hcl2/hclpack"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/crypto/ssh/terminal"
)

type file struct {
	name  string
	bytes []byte
	body  *hclpack.Body
}

func (f *file) empty() bool {
	return len(f.body.ChildBlocks) == 0 && len(f.body.Attributes) == 0
}

// A Loader loads playbooks from .hcl files on disk.
//
// The zero value is ready to load files.
type Loader struct {
	files map[string]*file
}

// WriteDiagnostics writes diagnostics as a human readable string to w. It
// should only be used for diagnostics that originate from files loaded by
// Loader.
//
// If a TTY is attached, the output will be colorized and wrap at the terminal
// width. Otherwise, wrap will occur at 78 characters and output won't contain
// ANSI escape characters.
func (l *Loader) WriteDiagnostics(w io.Writer, diags hcl.Diagnostics) {
	files := make(map[string]*hcl.File, len(l.files))
	for name, f := range l.files {
		files[name] = &hcl.File{
			Bytes: f.bytes,
			Body:  f.body,
		}
	}
	cols, _, err := terminal.GetSize(0)
	if err != nil {
		cols = 78
	}
	color := terminal.IsTerminal(0)
	wr := hcl.NewDiagnosticTextWriter(w, files, uint(cols), color)
	if err := wr.WriteDiagnostics(diags); err != nil {
		fmt.Fprintln(w, err)
	}
}

// Load loads a playbook from the given path. If path is a directory, all .hcl
// files in it are loaded, traversing into sub directories, and merged into a
// single playbook.
//
// Defaults are set on the returned playbook and it is validated. Empty .hcl
// files are skipped.
func (l *Loader) Load(path string) (*Playbook, hcl.Diagnostics) {
	var bodies []*hclpack.Body
	err := filepath.Walk(path, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return errors.WithStack(err)
		}
		if info.IsDir() {
			return nil
		}
		if !isConfigFile(path) {
			return nil
		}

		f, diags := l.loadFile(path)
		if diags.HasErrors() {
			return diags
		}

		if f.empty() {
			return nil
		}

		bodies = append(bodies, f.body)
		return nil
	})
	if err != nil {
		if d, ok := err.(hcl.Diagnostics); ok {
			return nil, d
		}
		return nil, diagErr(err)
	}
	if len(bodies) == 0 {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "No playbook found",
			Detail:   fmt.Sprintf("No .hcl files with content were found in %s.", path),
		}}
	}

	var pb Playbook
	if diags := gohcl.DecodeBody(mergeBodies(bodies), nil, &pb); diags.HasErrors() {
		return nil, diags
	}
	pb.SetDefaults()
	if err := pb.Validate(); err != nil {
		var diags hcl.Diagnostics
		for _, e := range multierr.Errors(err) {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid configuration",
				Detail:   e.Error(),
			})
		}
		return nil, diags
	}
	return &pb, nil
}

// Files returns the names of the loaded files, sorted.
func (l *Loader) Files() []string {
	names := make([]string, 0, len(l.files))
	for name := range l.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isConfigFile(filename string) bool {
	return filepath.Ext(filename) == ".hcl"
}

func (l *Loader) loadFile(filename string) (*file, hcl.Diagnostics) {
	if l.files == nil {
		l.files = make(map[string]*file)
	}
	if f, ok := l.files[filename]; ok {
		return f, nil
	}

	src, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, diagErr(err)
	}

	// Add placeholder file, so diagnostics can match the source if packing the
	// file fails.
	l.files[filename] = &file{bytes: src}

	body, diags := hclpack.PackNativeFile(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, diags
	}

	f := &file{
		name:  filename,
		bytes: src,
		body:  body,
	}
	l.files[filename] = f

	return f, nil
}

// mergeBodies merges the contents of the given bodies.
//
// It behaves in a similar way to hcl.MergeBodies, except the *hclpack.Body
// struct type is returned instead of the hcl.Body interface.
//
// The missing range is arbitrarily set to the first file.
func mergeBodies(bodies []*hclpack.Body) *hclpack.Body {
	ret := &hclpack.Body{}
	for _, b := range bodies {
		for name, attr := range b.Attributes {
			if ret.Attributes == nil {
				ret.Attributes = make(map[string]hclpack.Attribute)
			}
			ret.Attributes[name] = attr
		}
		ret.ChildBlocks = append(ret.ChildBlocks, b.ChildBlocks...)
	}
	ret.MissingItemRange_ = bodies[0].MissingItemRange_
	return ret
}

// diagErr converts a native error to diagnostics
func diagErr(err error) hcl.Diagnostics {
	return hcl.Diagnostics{{Severity: hcl.DiagError, Summary: err.Error()}}
}
