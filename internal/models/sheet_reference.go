package models

import "regexp"

// Google Sheets URL shapes accepted as a spreadsheet reference:
//
//	https://docs.google.com/spreadsheets/d/SPREADSHEET_ID/edit
//	https://docs.google.com/spreadsheets/d/SPREADSHEET_ID/edit#gid=0
//	https://docs.google.com/spreadsheets/d/SPREADSHEET_ID
var (
	sheetURLPattern      = regexp.MustCompile(`^https://docs\.google\.com/spreadsheets/d/[a-zA-Z0-9_-]+`)
	spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)
)

// IsValidSheetURL reports whether the string looks like a Google Sheets URL.
func IsValidSheetURL(sheetURL string) bool {
	return sheetURLPattern.MatchString(sheetURL)
}

// ExtractSpreadsheetID derives the spreadsheet ID from a Google Sheets URL,
// empty when no ID can be found.
func ExtractSpreadsheetID(sheetURL string) string {
	match := spreadsheetIDPattern.FindStringSubmatch(sheetURL)
	if match == nil {
		return ""
	}
	return match[1]
}
