package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-pdf/fpdf"

	"github.com/cuongbtq/settlement-pipeline/internal/artifact"
	"github.com/cuongbtq/settlement-pipeline/internal/domain"
)

const (
	labelWidth = 50.0
	rowHeight  = 8.0
	margin     = 20.0
)

// Renderer turns records into PDF artifacts. It never changes record status.
type Renderer struct {
	store  artifact.Store
	opts   Options
	logger *slog.Logger
}

// NewRenderer creates a renderer writing through store
func NewRenderer(store artifact.Store, opts Options, logger *slog.Logger) *Renderer {
	return &Renderer{
		store:  store,
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

// Render lays out rec, draws the PDF and stores it. It returns the artifact
// location.
func (r *Renderer) Render(ctx context.Context, rec *domain.Record) (string, error) {
	if rec == nil {
		return "", errors.New("render: nil record")
	}
	if rec.ID <= 0 {
		return "", fmt.Errorf("render: invalid record id %d", rec.ID)
	}

	now := r.opts.Now()
	doc := r.opts.Layout(rec, now)

	data, err := Draw(doc)
	if err != nil {
		return "", fmt.Errorf("failed to draw document for record %d: %w", rec.ID, err)
	}

	location, err := r.store.Put(ctx, artifact.FileName(rec.ID, now), data)
	if err != nil {
		return "", fmt.Errorf("failed to store document for record %d: %w", rec.ID, err)
	}

	r.logger.Info("Document rendered",
		slog.Int64("record_id", rec.ID),
		slog.String("location", location),
		slog.Int("size", len(data)),
	)

	return location, nil
}

// Draw writes doc as an A4 PDF
func Draw(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("settlement-pipeline", true)
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.SetModificationDate(doc.GeneratedAt)

	addFonts(pdf)

	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 18)
	pdf.CellFormat(0, 10, doc.Title, "", 1, "C", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.CellFormat(0, 6, "No: "+doc.Number, "", 1, "L", false, 0, "")
	pdf.Ln(8)

	for _, section := range doc.Sections {
		pdf.SetFont(fontFamily, "B", 14)
		pdf.SetTextColor(37, 99, 235)
		pdf.CellFormat(0, 10, section.Heading, "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)

		if section.Text != "" {
			pdf.SetFont(fontFamily, "", 10)
			pdf.MultiCell(0, 5, section.Text, "", "L", false)
		}

		pdf.SetDrawColor(229, 231, 235)
		pdf.SetFillColor(243, 244, 246)
		for _, row := range section.Rows {
			pdf.SetFont(fontFamily, "B", 10)
			pdf.CellFormat(labelWidth, rowHeight, row.Label, "1", 0, "L", true, 0, "")
			pdf.SetFont(fontFamily, "", 10)
			pdf.CellFormat(0, rowHeight, row.Value, "1", 1, "L", false, 0, "")
		}
		pdf.Ln(6)
	}

	pdf.Ln(10)
	pdf.SetFont(fontFamily, "", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 4, "Generated automatically: "+doc.Generated, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 4, "Status: "+doc.Status, "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
