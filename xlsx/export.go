package xlsx

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/pvsarolkar/partner-survey/store"
)

const (
	summarySheet  = "Summary"
	detailedSheet = "Detailed Responses"

	timestampFormat = "2006-01-02 15:04:05"
)

var summaryHeader = []any{
	"Submission UUID", "Submission Date", "Customer ID", "Customer Company",
	"Partner Name", "Partner Company", "Survey Name", "Is Update", "Response Count",
}

var detailedHeader = []any{
	"Submission UUID", "Submission Date", "Customer ID", "Customer Company",
	"Partner Name", "Partner Company", "Survey Name", "Section",
	"Question ID", "Question Text", "Response Value", "Response Type",
}

// WriteExport renders the submissions export workbook: a Summary sheet with
// one row per submission and its response count, and a Detailed Responses
// sheet with one row per response. Rows must arrive grouped by submission,
// as the store's export query produces them.
func WriteExport(w io.Writer, rows []store.ExportRow) error {
	book := excelize.NewFile()
	defer book.Close()

	book.SetSheetName(book.GetSheetName(0), summarySheet)
	if _, err := book.NewSheet(detailedSheet); err != nil {
		return errors.Wrap(err, "create sheet")
	}

	if err := book.SetSheetRow(summarySheet, "A1", &summaryHeader); err != nil {
		return errors.Wrap(err, "write summary header")
	}
	if err := book.SetSheetRow(detailedSheet, "A1", &detailedHeader); err != nil {
		return errors.Wrap(err, "write detailed header")
	}

	var lastUUID string
	summaryRow, detailRow := 1, 1
	counts := []int{}
	for _, row := range rows {
		submissionCells := []any{
			row.SubmissionUUID, row.SubmittedAt.Format(timestampFormat),
			row.CustomerID, row.CustomerCompany,
			row.PartnerName, row.PartnerCompany,
			row.TemplateName,
		}

		if row.SubmissionUUID != lastUUID {
			lastUUID = row.SubmissionUUID
			summaryRow++
			counts = append(counts, 0)
			cells := append(append([]any{}, submissionCells...), row.IsUpdate, 0)
			cell, _ := excelize.CoordinatesToCellName(1, summaryRow)
			if err := book.SetSheetRow(summarySheet, cell, &cells); err != nil {
				return errors.Wrap(err, "write summary row")
			}
		}

		if row.QuestionID.Valid {
			counts[len(counts)-1]++
			detailRow++
			cells := append(append([]any{}, submissionCells...),
				row.Section.String, row.QuestionID.String, row.QuestionText.String,
				row.Value.String, row.Type.String,
			)
			cell, _ := excelize.CoordinatesToCellName(1, detailRow)
			if err := book.SetSheetRow(detailedSheet, cell, &cells); err != nil {
				return errors.Wrap(err, "write detailed row")
			}
		}
	}

	for i, count := range counts {
		cell, _ := excelize.CoordinatesToCellName(len(summaryHeader), i+2)
		if err := book.SetCellValue(summarySheet, cell, count); err != nil {
			return errors.Wrap(err, "write response count")
		}
	}

	return errors.Wrap(book.Write(w), "write workbook")
}
