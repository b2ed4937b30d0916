// Package document lays out settlement requests and renders them as PDF
// artifacts.
package document

import (
	"fmt"
	"time"

	"github.com/cuongbtq/settlement-pipeline/internal/domain"
)

const (
	DefaultTitle        = "SETTLEMENT REQUEST"
	DefaultNumberPrefix = "WOZ"
	DefaultCurrency     = "PLN"
)

// Section headings
const (
	SectionBasic   = "Basic information"
	SectionPremium = "Premium period"
	SectionHours   = "Working hours"
	SectionComment = "Comment"
)

// Row is one label/value line of a table section
type Row struct {
	Label string
	Value string
}

// Section is either a table (Rows) or a paragraph (Text)
type Section struct {
	Heading string
	Rows    []Row
	Text    string
}

// Document is the render-ready view of a record
type Document struct {
	Title       string
	Number      string
	Sections    []Section
	GeneratedAt time.Time
	Generated   string
	Status      string
}

// Section returns the section with the given heading
func (d Document) Section(heading string) (Section, bool) {
	for _, s := range d.Sections {
		if s.Heading == heading {
			return s, true
		}
	}
	return Section{}, false
}

// Options tune the layout and rendering
type Options struct {
	Currency     string
	NumberPrefix string
	Now          func() time.Time
}

// DefaultOptions returns PLN amounts, WOZ numbers and the wall clock
func DefaultOptions() Options {
	return Options{
		Currency:     DefaultCurrency,
		NumberPrefix: DefaultNumberPrefix,
		Now:          time.Now,
	}
}

func (o Options) withDefaults() Options {
	if o.Currency == "" {
		o.Currency = DefaultCurrency
	}
	if o.NumberPrefix == "" {
		o.NumberPrefix = DefaultNumberPrefix
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Layout builds the document for rec with the default options
func Layout(rec *domain.Record, generatedAt time.Time) Document {
	return DefaultOptions().Layout(rec, generatedAt)
}

// Layout builds the document for rec. It has no side effects; two calls for
// the same record differ only in the generation time.
func (o Options) Layout(rec *domain.Record, generatedAt time.Time) Document {
	o = o.withDefaults()

	doc := Document{
		Title:       DefaultTitle,
		Number:      fmt.Sprintf("%s/%d/%d", o.NumberPrefix, rec.ID, generatedAt.Year()),
		GeneratedAt: generatedAt,
		Generated:   generatedAt.Format(generatedLayout),
		Status:      orPlaceholder(rec.Status.String()),
	}

	created := Placeholder
	if !rec.CreatedAt.IsZero() {
		created = rec.CreatedAt.Format(createdLayout)
	}

	doc.Sections = append(doc.Sections, Section{
		Heading: SectionBasic,
		Rows: []Row{
			{Label: "Title", Value: orPlaceholder(rec.Title)},
			{Label: "Responsible person", Value: orPlaceholder(rec.Person)},
			{Label: "Company / counterparty", Value: orPlaceholder(rec.Company)},
			{Label: "Category", Value: orPlaceholder(rec.Category)},
			{Label: "Settlement amount", Value: FormatAmount(rec.Amount, o.Currency)},
			{Label: "Billing month", Value: formatDate(rec.BillingMonth, monthLayout)},
			{Label: "Created", Value: created},
		},
	})

	if rec.HasPremiumPeriod() {
		doc.Sections = append(doc.Sections, Section{
			Heading: SectionPremium,
			Rows: []Row{
				{Label: "Start date", Value: formatDate(rec.PremiumStart, dateLayout)},
				{Label: "End date", Value: formatDate(rec.PremiumEnd, dateLayout)},
			},
		})
	}

	if len(rec.Hours) > 0 {
		rows := make([]Row, 0, len(rec.Hours))
		for _, k := range rec.Hours.Keys() {
			rows = append(rows, Row{Label: k, Value: FormatHours(rec.Hours[k])})
		}
		doc.Sections = append(doc.Sections, Section{Heading: SectionHours, Rows: rows})
	}

	if rec.Comment != "" {
		doc.Sections = append(doc.Sections, Section{Heading: SectionComment, Text: rec.Comment})
	}

	return doc
}
