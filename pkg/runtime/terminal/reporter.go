package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/contriview/pkg/models/domain"
)

const viewTemplate = `{{range .View.Fields}}{{.Label}}: {{.Value}}
{{end}}`

const dayTemplate = `{{.Date.Format "2006-01-02"}}: {{.Count}}
`

// Reporter outputs reports to the console as label: value lines
type Reporter struct {
	writer io.Writer
	view   *template.Template
	day    *template.Template
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		view:   template.Must(template.New("view").Parse(viewTemplate)),
		day:    template.Must(template.New("day").Parse(dayTemplate)),
	}
}

func (c *Reporter) Handle(report *domain.Report) error {
	if err := c.view.Execute(c.writer, report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func (c *Reporter) HandleDay(report *domain.DayReport) error {
	if err := c.day.Execute(c.writer, report); err != nil {
		return fmt.Errorf("failed to render day report: %w", err)
	}
	return nil
}
