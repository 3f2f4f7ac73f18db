package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"pap/config"
	"pap/content"
	"pap/story"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	Title      string
	Author     string
	Language   string
	Format     string
	SourceFile string
	DocID      string
}

func expandTemplate(c *content.Content, name config.TemplateFieldName, field string, format config.OutputFmt) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		Title:      c.Story().Meta[story.MetaTitle],
		Author:     c.Story().Meta[story.MetaAuthor],
		Language:   c.Story().Language(""),
		Format:     format.String(),
		SourceFile: strings.TrimSuffix(filepath.Base(c.SourceName()), filepath.Ext(c.SourceName())),
		DocID:      c.DocID(),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
