package cleanup

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"epc/config"
	"epc/epub"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	Title      string
	Authors    []string
	Language   string
	Date       string
	BookID     string
	SourceFile string
}

func expandTemplate(meta epub.Metadata, name config.TemplateFieldName, field, srcName string) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		Title:      meta.Title,
		Authors:    meta.Creators,
		Language:   meta.Language,
		Date:       meta.Date,
		BookID:     meta.Identifier,
		SourceFile: strings.TrimSuffix(filepath.Base(srcName), filepath.Ext(srcName)),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
