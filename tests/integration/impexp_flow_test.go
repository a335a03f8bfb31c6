package integration

import (
	"net/http"
	"strings"
	"testing"
)

func TestImportExportFlow(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t)

	// Template names the required columns.
	rec := app.request("GET", "/api/v1/import/template", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("template failed: %d %s", rec.Code, rec.Body.String())
	}
	tpl := parseJSON(t, rec)
	if !strings.Contains(tpl["header"].(string), "accountName") {
		t.Errorf("expected accountName in template header, got %v", tpl["header"])
	}

	// Import two good rows and one with a broken amount.
	csv := strings.Join([]string{
		"date,type,amount,accountName,categoryName,tagNames,note",
		"2025-01-01,EXPENSE,12.50,Cash,Dining,food,breakfast",
		"2025-01-02,EXPENSE,abc,Cash,Dining,,broken row",
		"2025-01-03,INCOME,8000.00,Cash,Salary,work,january salary",
	}, "\n")
	rec = app.requestRaw("POST", "/api/v1/import", csv, "text/csv", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("import failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["total"].(float64) != 3 || result["success"].(float64) != 2 || result["fail"].(float64) != 1 {
		t.Fatalf("expected 3/2/1, got %s", rec.Body.String())
	}
	rowErr := result["errors"].([]interface{})[0].(map[string]interface{})
	if rowErr["row"].(float64) != 3 {
		t.Errorf("expected failure on row 3, got %v", rowErr["row"])
	}

	// The surviving rows committed against the seeded Cash account.
	cashID := app.accountIDByName(t, token, "Cash")
	if balance := app.accountBalance(t, token, cashID); balance != 7987.50 {
		t.Errorf("expected Cash balance 7987.50, got %v", balance)
	}

	// Export returns the imported rows as a CSV attachment.
	rec = app.request("GET", "/api/v1/export", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("export failed: %d %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("expected text/csv, got %s", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "transactions.csv") {
		t.Errorf("expected attachment filename, got %s", cd)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Errorf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,date,type,amount") {
		t.Errorf("unexpected header: %s", lines[0])
	}

	// JSON export of only the january expenses.
	rec = app.request("GET", "/api/v1/export?format=json&from=2025-01-01&to=2025-01-02", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("json export failed: %d %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("expected application/json, got %s", ct)
	}
	if !strings.Contains(rec.Body.String(), "breakfast") {
		t.Error("expected the breakfast row in the JSON export")
	}
	if strings.Contains(rec.Body.String(), "january salary") {
		t.Error("expected the salary row filtered out by date range")
	}
}

func TestImportRejectsMissingColumn(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t)

	csv := "date,type,accountName,categoryName\n2025-01-01,EXPENSE,Cash,Dining"
	rec := app.requestRaw("POST", "/api/v1/import", csv, "text/csv", token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "INVALID_INPUT" {
		t.Errorf("expected INVALID_INPUT, got %v", errObj["code"])
	}
}
