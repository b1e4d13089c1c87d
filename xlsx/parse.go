// Package xlsx converts between spreadsheets and the survey domain: parsing
// uploaded template workbooks into raw question rows and rendering the
// submissions export workbook.
package xlsx

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/pvsarolkar/partner-survey/model"
)

// Spreadsheet column headers, matched case-insensitively.
const (
	colQuestionID     = "questionid"
	colType           = "type"
	colQuestion       = "question"
	colSection        = "section"
	colRequired       = "required"
	colOptions        = "options"
	colMinRating      = "minrating"
	colMaxRating      = "maxrating"
	colMatrixRows     = "matrixrows"
	colMatrixCols     = "matrixcols"
	colDependsOn      = "dependson"
	colDependsOnValue = "dependsonvalue"
)

// Type spellings accepted in the Type column. Older template sheets use the
// multiple_choice_* names.
var typeAliases = map[string]model.QuestionType{
	"text":                          model.TypeText,
	"textarea":                      model.TypeTextarea,
	"single_select":                 model.TypeSingleSelect,
	"multiple_choice":               model.TypeSingleSelect,
	"multiple_choice_single_select": model.TypeSingleSelect,
	"multi_select":                  model.TypeMultiSelect,
	"multiple_choice_multi_select":  model.TypeMultiSelect,
	"rating":                        model.TypeRating,
	"matrix":                        model.TypeMatrix,
}

// ParseTemplateFile parses an uploaded template spreadsheet into raw
// question rows. The filename extension picks the format: .xlsx/.xlsm are
// read with excelize, .csv with the stdlib reader. The result still has to
// pass template validation before anything persists.
func ParseTemplateFile(filename string, r io.Reader) ([]model.Question, error) {
	switch {
	case hasExt(filename, ".xlsx", ".xlsm"):
		return parseWorkbook(r)
	case hasExt(filename, ".csv"):
		return parseCSV(r)
	}
	return nil, fmt.Errorf("unsupported file format %q: want .xlsx, .xlsm or .csv", filename)
}

func hasExt(filename string, exts ...string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func parseWorkbook(r io.Reader) ([]model.Question, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, "read sheet")
	}
	return questionRows(rows)
}

func parseCSV(r io.Reader) ([]model.Question, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	return questionRows(rows)
}

func questionRows(rows [][]string) ([]model.Question, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("no question rows below the header")
	}

	header := map[string]int{}
	for i, name := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := header[colQuestion]; !ok {
		return nil, fmt.Errorf("missing Question column")
	}

	questions := make([]model.Question, 0, len(rows)-1)
	for n, row := range rows[1:] {
		cell := func(name string) string {
			i, ok := header[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if blankRow(row) {
			continue
		}
		questions = append(questions, questionRow(n+1, cell))
	}
	return questions, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// questionRow maps one spreadsheet row onto a question. Values that cannot
// be interpreted are carried through as-is or zeroed and left for template
// validation to report, so the uploader sees every problem in one pass.
func questionRow(n int, cell func(string) string) model.Question {
	q := model.Question{
		ID:       cell(colQuestionID),
		Label:    cell(colQuestion),
		Section:  cell(colSection),
		Required: truthy(cell(colRequired)),
	}
	if q.ID == "" {
		q.ID = fmt.Sprintf("Q%d", n)
	}

	rawType := strings.ToLower(cell(colType))
	if rawType == "" {
		rawType = "text"
	}
	if mapped, ok := typeAliases[rawType]; ok {
		q.Type = mapped
	} else {
		q.Type = model.QuestionType(rawType)
	}

	switch q.Type {
	case model.TypeSingleSelect, model.TypeMultiSelect:
		q.Select = &model.SelectSettings{Options: splitList(cell(colOptions))}
	case model.TypeRating:
		q.Rating = &model.RatingSettings{
			Min: intCell(cell(colMinRating), 1),
			Max: intCell(cell(colMaxRating), 5),
		}
	case model.TypeMatrix:
		q.Matrix = &model.MatrixSettings{
			Rows:    splitList(cell(colMatrixRows)),
			Columns: splitList(cell(colMatrixCols)),
		}
	}

	if parent := cell(colDependsOn); parent != "" {
		q.DependsOn = &model.Dependency{
			QuestionID: parent,
			AnyOf:      splitList(cell(colDependsOnValue)),
		}
	}
	return q
}

func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "true", "y", "1":
		return true
	}
	return false
}

// splitList splits a list cell on the first separator present: pipe, then
// semicolon, then comma.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	sep := ","
	switch {
	case strings.Contains(s, "|"):
		sep = "|"
	case strings.Contains(s, ";"):
		sep = ";"
	}

	var values []string
	for _, v := range strings.Split(s, sep) {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func intCell(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
