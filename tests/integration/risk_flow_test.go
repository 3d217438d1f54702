package integration

import (
	"fmt"
	"net/http"
	"regexp"
	"testing"
	"time"
)

var riskIDPattern = regexp.MustCompile(`^RISK-\d{4}-\d{2}-\d{4}$`)

func TestRiskFlow_CreateToClosedWithTimeline(t *testing.T) {
	app := setupApp(t)
	adminToken, adminID := app.setupAdmin(t)

	// Create a Security risk.
	rec := app.request("POST", "/api/v1/risks", `{
		"risk_category": "Security",
		"risk_description": "Compromised credentials found on a paste site.",
		"risk_source": "Incident Report",
		"risk_trigger": "Dark web monitoring alert"
	}`, adminToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create risk failed: %d %s", rec.Code, rec.Body.String())
	}
	risk := parseJSON(t, rec)["risk"].(map[string]interface{})
	riskUUID := risk["id"].(string)

	if !riskIDPattern.MatchString(risk["risk_id"].(string)) {
		t.Errorf("risk_id %v does not match the expected format", risk["risk_id"])
	}
	if risk["status"] != "Identified" {
		t.Errorf("expected new risk in Identified, got %v", risk["status"])
	}
	if risk["risk_category"] != "Security" {
		t.Errorf("expected Security category, got %v", risk["risk_category"])
	}

	// Assign it; the risk advances to Assigned.
	deadline := time.Now().Add(7 * 24 * time.Hour).UTC().Format(time.RFC3339)
	rec = app.request("POST", "/api/v1/assignments", fmt.Sprintf(`{
		"risk_id": %q,
		"assigned_to": %q,
		"priority_level": "Critical",
		"deadline_date": %q,
		"notes": "Rotate all exposed credentials"
	}`, riskUUID, adminID, deadline), adminToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create assignment failed: %d %s", rec.Code, rec.Body.String())
	}
	assignment := parseJSON(t, rec)["assignment"].(map[string]interface{})
	assignmentID := assignment["assignment_id"].(string)

	rec = app.request("GET", "/api/v1/risks/"+riskUUID, "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("get risk failed: %d %s", rec.Code, rec.Body.String())
	}
	risk = parseJSON(t, rec)["risk"].(map[string]interface{})
	if risk["status"] != "Assigned" {
		t.Errorf("expected risk to advance to Assigned, got %v", risk["status"])
	}

	// Move the risk through mitigation to Resolved.
	for _, status := range []string{"In Mitigation", "Resolved"} {
		rec = app.request("PUT", "/api/v1/risks/"+riskUUID,
			fmt.Sprintf(`{"status":%q}`, status), adminToken)
		if rec.Code != http.StatusOK {
			t.Fatalf("update to %s failed: %d %s", status, rec.Code, rec.Body.String())
		}
	}

	// Complete the assignment so the risk can be deleted later.
	assignmentUUID := assignment["id"].(string)
	rec = app.request("PUT", "/api/v1/assignments/"+assignmentUUID,
		`{"assignment_status":"Completed"}`, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete assignment failed: %d %s", rec.Code, rec.Body.String())
	}

	// The timeline records everything that happened, newest first.
	rec = app.request("GET", "/api/v1/risks/"+riskUUID+"/updates", "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("get timeline failed: %d %s", rec.Code, rec.Body.String())
	}
	data := parseJSON(t, rec)["data"].([]interface{})
	if len(data) != 4 {
		t.Fatalf("expected 4 timeline records, got %d", len(data))
	}

	types := make(map[string]int)
	for _, item := range data {
		record := item.(map[string]interface{})
		types[record["update_type"].(string)]++
	}
	if types["Assignment Created"] != 1 {
		t.Errorf("expected 1 Assignment Created record, got %d", types["Assignment Created"])
	}
	if types["Status Change"] != 2 {
		t.Errorf("expected 2 Status Change records, got %d", types["Status Change"])
	}
	if types["Assignment Status Change"] != 1 {
		t.Errorf("expected 1 Assignment Status Change record, got %d", types["Assignment Status Change"])
	}

	oldest := data[len(data)-1].(map[string]interface{})
	if oldest["update_type"] != "Assignment Created" || oldest["new_value"] != assignmentID {
		t.Errorf("expected the oldest record to be the assignment creation, got %v", oldest)
	}
}

func TestRiskFlow_SequentialIdentifiers(t *testing.T) {
	app := setupApp(t)
	adminToken, _ := app.setupAdmin(t)

	_, first := app.createRisk(t, adminToken)
	_, second := app.createRisk(t, adminToken)

	if first == second {
		t.Fatalf("expected distinct risk IDs, both were %s", first)
	}
	if first[len(first)-4:] != "0001" || second[len(second)-4:] != "0002" {
		t.Errorf("expected sequential numbering, got %s then %s", first, second)
	}
}

func TestRiskFlow_DeleteBlockedByActiveAssignment(t *testing.T) {
	app := setupApp(t)
	adminToken, adminID := app.setupAdmin(t)

	riskUUID, _ := app.createRisk(t, adminToken)

	deadline := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	rec := app.request("POST", "/api/v1/assignments", fmt.Sprintf(`{
		"risk_id": %q,
		"assigned_to": %q,
		"priority_level": "Medium",
		"deadline_date": %q
	}`, riskUUID, adminID, deadline), adminToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create assignment failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("DELETE", "/api/v1/risks/"+riskUUID, "", adminToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "RISK_HAS_ACTIVE_ASSIGNMENTS" {
		t.Errorf("expected RISK_HAS_ACTIVE_ASSIGNMENTS, got %v", errObj["code"])
	}

	// The risk is still there.
	rec = app.request("GET", "/api/v1/risks/"+riskUUID, "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected risk to survive, got %d", rec.Code)
	}
}

func TestRiskFlow_RejectsShortDescription(t *testing.T) {
	app := setupApp(t)
	adminToken, _ := app.setupAdmin(t)

	rec := app.request("POST", "/api/v1/risks", `{
		"risk_category": "Security",
		"risk_description": "Too short.",
		"risk_source": "Internal Audit"
	}`, adminToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/risks", "", adminToken)
	result := parseJSON(t, rec)
	if result["total_items"].(float64) != 0 {
		t.Errorf("expected no risks after rejected create, got %v", result["total_items"])
	}
}
