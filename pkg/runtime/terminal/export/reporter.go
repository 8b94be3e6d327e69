package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/contriview/pkg/models/domain"
)

type TableConfig struct {
	LabelWidth int
	ValueWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		LabelWidth: 20,
		ValueWidth: 10,
	}
}

// Reporter prints a report as a bordered table
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(report *domain.Report) error {
	funcMap := template.FuncMap{
		"formatRow": func(label string, value interface{}) string {
			return fmt.Sprintf("| %-*s | %*v |",
				c.config.LabelWidth, label,
				c.config.ValueWidth, value)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+",
				strings.Repeat("-", c.config.LabelWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2))
		},
	}

	tmpl := `Contributions of {{.Username}} as of {{.ReferenceDate.Format "2006-01-02"}}
{{separator}}
{{formatRow "label" "value"}}
{{separator}}
{{range .View.Fields}}{{formatRow .Label .Value}}
{{end}}{{separator}}
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
