// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refdb

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/biogo/external"
)

// BuildIndex describes an optional external preprocessing step that
// indexes a FASTA file before it is used as a reference database,
// mirroring the teacher's `blast.MakeDB` struct-tag-driven command
// builder: a search engine ahead of this one typically wants its own
// on-disk index (e.g. `makeblastdb`-style) built once up front rather
// than re-derived by every worker.
type BuildIndex struct {
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}makeblastdb{{end}}"`

	In     string `buildarg:"{{with .}}-in{{split}}{{.}}{{end}}"`
	Out    string `buildarg:"{{with .}}-out{{split}}{{.}}{{end}}"`
	DBType string `buildarg:"{{with .}}-dbtype{{split}}{{.}}{{end}}"`
	Title  string `buildarg:"{{with .}}-title{{split}}{{.}}{{end}}"`

	// ExtraFlags is passed through verbatim as additional flags.
	ExtraFlags string
}

// BuildCommand assembles the *exec.Cmd for this index build, validating
// the required fields the way blast.MakeDB.BuildCommand does.
func (b BuildIndex) BuildCommand() (*exec.Cmd, error) {
	if b.DBType == "" {
		return nil, errors.New("refdb: missing dbtype")
	}
	if b.Out == "" {
		return nil, errors.New("refdb: missing out filename")
	}
	var extra []string
	if b.ExtraFlags != "" {
		extra = strings.Split(b.ExtraFlags, " ")
	}
	cl := external.Must(external.Build(b))
	return exec.Command(cl[0], append(cl[1:], extra...)...), nil
}
