package contributions

import (
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/contriview/pkg/models/domain"
	"golang.org/x/net/html"
)

const (
	DefaultElement   = "rect"
	DefaultDateAttr  = "data-date"
	DefaultCountAttr = "data-count"

	// AnyElement makes the parser consider every element carrying the date attribute.
	AnyElement = "*"

	DateLayout = "2006-01-02"
)

type ParserOptions struct {
	Element   string
	DateAttr  string
	CountAttr string
}

func DefaultParserOptions() ParserOptions {
	return ParserOptions{
		Element:   DefaultElement,
		DateAttr:  DefaultDateAttr,
		CountAttr: DefaultCountAttr,
	}
}

// Parser locates per-day nodes in a contributions document.
type Parser struct {
	opts ParserOptions
}

func NewParser(opts ParserOptions) *Parser {
	defaults := DefaultParserOptions()
	if opts.Element == "" {
		opts.Element = defaults.Element
	}
	if opts.DateAttr == "" {
		opts.DateAttr = defaults.DateAttr
	}
	if opts.CountAttr == "" {
		opts.CountAttr = defaults.CountAttr
	}

	// the tokenizer lower-cases tag and attribute names
	return &Parser{opts: ParserOptions{
		Element:   strings.ToLower(opts.Element),
		DateAttr:  strings.ToLower(opts.DateAttr),
		CountAttr: strings.ToLower(opts.CountAttr),
	}}
}

type dayNode struct {
	date     string
	count    string
	hasCount bool
}

// Extract returns every per-day record of the document in document order.
// Unparsable counts become 0. Nodes whose date is not YYYY-MM-DD are skipped,
// so their counts are not part of any window, all_time included.
func (p *Parser) Extract(document string) (domain.DailySeries, error) {
	series := domain.DailySeries{}

	err := p.walk(document, func(n dayNode) (bool, error) {
		if !n.hasCount {
			return false, &MissingFieldError{Field: p.opts.CountAttr, Date: n.date}
		}

		date, err := time.Parse(DateLayout, n.date)
		if err != nil {
			return true, nil
		}

		series = append(series, domain.DailyRecord{Date: date, Count: parseCount(n.count)})
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return series, nil
}

// ExtractOne returns the count of the first node dated on the given day.
// found is false when the document has no such node.
func (p *Parser) ExtractOne(document string, date time.Time) (count int, found bool, err error) {
	want := date.Format(DateLayout)

	err = p.walk(document, func(n dayNode) (bool, error) {
		if n.date != want {
			return true, nil
		}
		if !n.hasCount {
			return false, &MissingFieldError{Field: p.opts.CountAttr, Date: n.date}
		}

		count = parseCount(n.count)
		found = true
		return false, nil
	})
	if err != nil {
		return 0, false, err
	}

	return count, found, nil
}

// walk feeds every per-day node to visit until visit returns false or an error.
func (p *Parser) walk(document string, visit func(dayNode) (bool, error)) error {
	z := html.NewTokenizer(strings.NewReader(document))

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF, or a truncated document: either way there is nothing left to read
			return nil
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if !hasAttr || !p.matchesElement(string(name)) {
				continue
			}

			n, ok := p.readNode(z)
			if !ok {
				continue
			}

			more, err := visit(n)
			if err != nil {
				return err
			}
			if !more {
				return nil
			}
		}
	}
}

func (p *Parser) matchesElement(name string) bool {
	return p.opts.Element == AnyElement || p.opts.Element == name
}

func (p *Parser) readNode(z *html.Tokenizer) (dayNode, bool) {
	var (
		n       dayNode
		hasDate bool
	)

	for {
		key, val, more := z.TagAttr()
		// a repeated attribute keeps its first value
		switch string(key) {
		case p.opts.DateAttr:
			if !hasDate {
				n.date = string(val)
				hasDate = true
			}
		case p.opts.CountAttr:
			if !n.hasCount {
				n.count = string(val)
				n.hasCount = true
			}
		}
		if !more {
			break
		}
	}

	return n, hasDate
}

func parseCount(raw string) int {
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return int(v)
}

var defaultParser = NewParser(DefaultParserOptions())

// Extract runs the default parser over document.
func Extract(document string) (domain.DailySeries, error) {
	return defaultParser.Extract(document)
}

// ExtractOne runs the default parser's single-day lookup over document.
func ExtractOne(document string, date time.Time) (int, bool, error) {
	return defaultParser.ExtractOne(document, date)
}
