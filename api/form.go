package api

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/warp/leave-ledger/timeoff"
)

var catalanMonths = [...]string{
	"", "Gener", "Febrer", "Març", "Abril", "Maig", "Juny",
	"Juliol", "Agost", "Setembre", "Octubre", "Novembre", "Desembre",
}

// writeRequestFormPDF renders the printable leave request.
func writeRequestFormPDF(w io.Writer, form timeoff.RequestForm, issued time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(fmt.Sprintf("Sol·licitud %s %d", form.Title, form.Year)), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "AJUNTAMENT DE TOSSA DE MAR", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "GIRONA", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(229, 231, 235)
	pdf.CellFormat(0, 9, tr(fmt.Sprintf("SOL·LICITUD %s (%d)", form.Title, form.Year)), "1", 1, "C", true, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(45, 8, "EN/NA:", "1", 0, "", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 8, tr(form.Employee.Name), "1", 1, "", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(45, 8, tr("AMB NÚM. DNI:"), "1", 0, "", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(50, 8, tr(form.Employee.LegalID), "1", 0, "", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(20, 8, "DEPT.", "1", 0, "", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 8, tr(form.Employee.Department), "1", 1, "", false, 0, "")
	pdf.Ln(6)

	pdf.MultiCell(0, 6, tr(fmt.Sprintf(
		"Per la present sol·licito al DEPARTAMENT DE RECURSOS HUMANS l'aprovació dels següents períodes de %s, que sumen un total de %d dies:",
		strings.ToLower(form.Title), form.TotalDays,
	)), "", "", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 7, tr("Distribució mensual:"), "", 1, "", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, m := range form.Months {
		line := fmt.Sprintf("- %s: %d dies (%s)", catalanMonths[m.Month], len(m.Dates), m.Summary())
		pdf.MultiCell(0, 6, tr(line), "", "", false)
	}
	pdf.Ln(10)

	y := pdf.GetY()
	pdf.Rect(10, y, 92, 30, "D")
	pdf.Rect(108, y, 92, 30, "D")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Text(12, y+5, "SIGNATURA INTERESSAT")
	pdf.Text(110, y+5, "SIGNATURA RESPONSABLE")
	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(110, y+27, tr("Data d'acceptació:"))
	pdf.Text(12, y+27, tr("Data: "+issued.Format("02/01/2006")))

	return pdf.Output(w)
}
