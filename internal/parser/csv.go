package parser

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/htmlsplit/internal/dom"
	"golang.org/x/net/html"
)

// CSVParser handles CSV files. Rows are grouped into batches, each under its
// own <h1> so the default selector splits one batch per part.
type CSVParser struct {
	Encoding string
}

const csvBatchSize = 20

func (p *CSVParser) Parse(r io.Reader, filename string) (*html.Node, error) {
	r, err := decode(r, p.Encoding)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse csv: %w", ErrParse, err)
	}

	doc, body := newDocument(titleFromFilename(filename, ".csv"))
	if len(records) == 0 {
		return doc, nil
	}

	// First row is headers.
	headers := records[0]
	dataRows := records[1:]

	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(dataRows))

		// 1-indexed, skip header
		first, last := i+2, end+1
		appendHeading(body, 1, fmt.Sprintf("rows-%d-%d", first, last), fmt.Sprintf("Rows %d-%d", first, last))

		table := dom.AppendElement(body, "table")
		tr := dom.AppendElement(dom.AppendElement(table, "thead"), "tr")
		for _, h := range headers {
			dom.AppendElement(tr, "th").AppendChild(dom.Text(h))
		}
		tbody := dom.AppendElement(table, "tbody")
		for _, row := range dataRows[i:end] {
			tr := dom.AppendElement(tbody, "tr")
			for _, cell := range row {
				dom.AppendElement(tr, "td").AppendChild(dom.Text(cell))
			}
		}
	}

	return doc, nil
}
