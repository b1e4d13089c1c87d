package xlsx

import (
	"bytes"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pvsarolkar/partner-survey/store"
)

func exportRow(uuid, questionID, value string) store.ExportRow {
	row := store.ExportRow{
		SubmissionUUID:  uuid,
		SubmittedAt:     time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
		CustomerID:      "42",
		CustomerCompany: "Acme Corp",
		PartnerName:     "Pat",
		PartnerCompany:  "Partner Inc",
		TemplateName:    "Partner Satisfaction",
	}
	if questionID != "" {
		row.QuestionID = sql.NullString{String: questionID, Valid: true}
		row.QuestionText = sql.NullString{String: "label of " + questionID, Valid: true}
		row.Value = sql.NullString{String: value, Valid: true}
		row.Type = sql.NullString{String: "text", Valid: true}
		row.Section = sql.NullString{String: "General", Valid: true}
	}
	return row
}

func TestWriteExportWorkbook(t *testing.T) {
	rows := []store.ExportRow{
		exportRow("uuid-1", "Q1", "Yes"),
		exportRow("uuid-1", "Q2", `["A","C"]`),
		exportRow("uuid-2", "Q1", "No"),
		exportRow("uuid-3", "", ""), // submission without responses
	}

	var buf bytes.Buffer
	require.NoError(t, WriteExport(&buf, rows))

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	assert.ElementsMatch(t, []string{summarySheet, detailedSheet}, book.GetSheetList())

	summary, err := book.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 4) // header + 3 submissions
	assert.Equal(t, "Submission UUID", summary[0][0])
	assert.Equal(t, "uuid-1", summary[1][0])
	assert.Equal(t, "2", summary[1][8]) // response count
	assert.Equal(t, "uuid-2", summary[2][0])
	assert.Equal(t, "1", summary[2][8])
	assert.Equal(t, "uuid-3", summary[3][0])
	assert.Equal(t, "0", summary[3][8])

	detailed, err := book.GetRows(detailedSheet)
	require.NoError(t, err)
	require.Len(t, detailed, 4) // header + 3 responses
	assert.Equal(t, "Q1", detailed[1][8])
	assert.Equal(t, `["A","C"]`, detailed[2][10])
	assert.Equal(t, "uuid-2", detailed[3][0])
}
