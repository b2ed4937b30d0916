package document

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongbtq/settlement-pipeline/internal/domain"
)

func sampleRecord() *domain.Record {
	return &domain.Record{
		ID:           42,
		Title:        "Fleet settlement",
		Person:       "A. Nowak",
		Company:      "Transkom",
		Category:     "truck",
		Amount:       12345.678,
		CreatedAt:    time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC),
		Owner:        "user-1",
		BillingMonth: mo.Some(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)),
		Hours:        domain.Hours{"tue": 7.5, "mon": 8},
		Comment:      "Paid in two parts",
		Status:       domain.StatusProcessing,
	}
}

func rowValue(t *testing.T, s Section, label string) string {
	t.Helper()
	for _, r := range s.Rows {
		if r.Label == label {
			return r.Value
		}
	}
	t.Fatalf("row %q not found in section %q", label, s.Heading)
	return ""
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		currency string
		want     string
	}{
		{name: "thousands", amount: 12345.678, currency: "PLN", want: "12,345.68 PLN"},
		{name: "millions", amount: 1234567.5, currency: "PLN", want: "1,234,567.50 PLN"},
		{name: "zero", amount: 0, currency: "PLN", want: "0.00 PLN"},
		{name: "small", amount: 9.5, currency: "EUR", want: "9.50 EUR"},
		{name: "no currency", amount: 1000, want: "1,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.amount, tt.currency))
		})
	}
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "8", FormatHours(8))
	assert.Equal(t, "7.5", FormatHours(7.5))
	assert.Equal(t, "0.25", FormatHours(0.25))
}

func TestLayout_Header(t *testing.T) {
	at := time.Date(2025, 1, 3, 14, 5, 6, 0, time.UTC)
	doc := Layout(sampleRecord(), at)

	assert.Equal(t, DefaultTitle, doc.Title)
	assert.Equal(t, "WOZ/42/2025", doc.Number)
	assert.Equal(t, "2025-01-03 14:05:06", doc.Generated)
	assert.Equal(t, "Processing", doc.Status)
}

func TestLayout_BasicInformation(t *testing.T) {
	rec := sampleRecord()
	rec.Company = ""
	rec.BillingMonth = mo.None[time.Time]()

	doc := Layout(rec, time.Now())
	basic, ok := doc.Section(SectionBasic)
	require.True(t, ok)

	assert.Equal(t, "Fleet settlement", rowValue(t, basic, "Title"))
	assert.Equal(t, Placeholder, rowValue(t, basic, "Company / counterparty"))
	assert.Equal(t, "12,345.68 PLN", rowValue(t, basic, "Settlement amount"))
	assert.Equal(t, Placeholder, rowValue(t, basic, "Billing month"))
	assert.Equal(t, "2024-05-02 08:30", rowValue(t, basic, "Created"))
}

func TestLayout_ZeroAmount(t *testing.T) {
	rec := sampleRecord()
	rec.Amount = 0

	basic, ok := Layout(rec, time.Now()).Section(SectionBasic)
	require.True(t, ok)

	// zero is printed as an amount on purpose, never as the placeholder
	assert.Equal(t, "0.00 PLN", rowValue(t, basic, "Settlement amount"))
}

func TestLayout_PremiumPeriod(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		start     mo.Option[time.Time]
		end       mo.Option[time.Time]
		present   bool
		wantStart string
		wantEnd   string
	}{
		{name: "both absent", start: mo.None[time.Time](), end: mo.None[time.Time]()},
		{name: "both present", start: mo.Some(start), end: mo.Some(end), present: true, wantStart: "2024-03-01", wantEnd: "2024-03-31"},
		{name: "start only", start: mo.Some(start), end: mo.None[time.Time](), present: true, wantStart: "2024-03-01", wantEnd: Placeholder},
		{name: "end only", start: mo.None[time.Time](), end: mo.Some(end), present: true, wantStart: Placeholder, wantEnd: "2024-03-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := sampleRecord()
			rec.PremiumStart = tt.start
			rec.PremiumEnd = tt.end

			section, ok := Layout(rec, time.Now()).Section(SectionPremium)
			require.Equal(t, tt.present, ok)
			if !tt.present {
				return
			}
			assert.Equal(t, tt.wantStart, rowValue(t, section, "Start date"))
			assert.Equal(t, tt.wantEnd, rowValue(t, section, "End date"))
		})
	}
}

func TestLayout_Hours(t *testing.T) {
	t.Run("sorted rows", func(t *testing.T) {
		section, ok := Layout(sampleRecord(), time.Now()).Section(SectionHours)
		require.True(t, ok)
		assert.Equal(t, []Row{{Label: "mon", Value: "8"}, {Label: "tue", Value: "7.5"}}, section.Rows)
	})

	t.Run("empty mapping omits section", func(t *testing.T) {
		rec := sampleRecord()
		rec.Hours = domain.Hours{}
		_, ok := Layout(rec, time.Now()).Section(SectionHours)
		assert.False(t, ok)
	})

	t.Run("nil mapping omits section", func(t *testing.T) {
		rec := sampleRecord()
		rec.Hours = nil
		_, ok := Layout(rec, time.Now()).Section(SectionHours)
		assert.False(t, ok)
	})
}

func TestLayout_Comment(t *testing.T) {
	section, ok := Layout(sampleRecord(), time.Now()).Section(SectionComment)
	require.True(t, ok)
	assert.Equal(t, "Paid in two parts", section.Text)

	rec := sampleRecord()
	rec.Comment = ""
	_, ok = Layout(rec, time.Now()).Section(SectionComment)
	assert.False(t, ok)
}

func TestLayout_OnlyTimestampDiffers(t *testing.T) {
	rec := sampleRecord()
	first := Layout(rec, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	second := Layout(rec, time.Date(2024, 6, 1, 10, 0, 1, 0, time.UTC))

	assert.Equal(t, first.Sections, second.Sections)
	assert.Equal(t, first.Number, second.Number)
	assert.NotEqual(t, first.Generated, second.Generated)
}

func TestOptions_Layout(t *testing.T) {
	opts := Options{Currency: "EUR", NumberPrefix: "SR"}
	doc := opts.Layout(sampleRecord(), time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "SR/42/2023", doc.Number)
	basic, _ := doc.Section(SectionBasic)
	assert.Equal(t, "12,345.68 EUR", rowValue(t, basic, "Settlement amount"))
}
