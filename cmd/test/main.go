package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
)

type TestClient struct {
	baseURL string
	client  *http.Client
	count   int
}

func NewTestClient(baseURL string, count int) *TestClient {
	jar, _ := cookiejar.New(nil)
	return &TestClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 90 * time.Second,
			Jar:     jar,
		},
		count: count,
	}
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the persona studio server")
	testType := flag.String("test", "all", "Test type: all, health, generate, filter, export, delete")
	count := flag.Int("count", 3, "Number of personas to generate")
	flag.Parse()

	client := NewTestClient(*baseURL, *count)

	printHeader("Persona Studio - Smoke Test")
	fmt.Printf("%sBase URL: %s%s\n\n", colorCyan, *baseURL, colorReset)

	switch *testType {
	case "all":
		client.runAllTests()
	case "health":
		client.testHealthCheck()
	case "generate":
		client.testGenerate()
	case "filter":
		client.testGenerate()
		client.testFilter()
	case "export":
		client.testGenerate()
		client.testExport("csv")
		client.testExport("xlsx")
	case "delete":
		client.testDeleteAll()
	default:
		printError(fmt.Sprintf("Unknown test type: %s", *testType))
		fmt.Println("\nAvailable tests: all, health, generate, filter, export, delete")
		os.Exit(1)
	}
}

func (tc *TestClient) runAllTests() {
	tests := []struct {
		name string
		fn   func() bool
	}{
		{"Health Check", tc.testHealthCheck},
		{"Validation", tc.testValidation},
		{"Generation", tc.testGenerate},
		{"Filter", tc.testFilter},
		{"CSV Export", func() bool { return tc.testExport("csv") }},
		{"XLSX Export", func() bool { return tc.testExport("xlsx") }},
		{"Delete All", tc.testDeleteAll},
	}

	passed := 0
	failed := 0

	for _, test := range tests {
		if test.fn() {
			passed++
		} else {
			failed++
		}
		fmt.Println()
	}

	printHeader("Test Summary")
	fmt.Printf("%sPassed: %d%s\n", colorGreen, passed, colorReset)
	fmt.Printf("%sFailed: %d%s\n", colorRed, failed, colorReset)
	fmt.Printf("Total: %d\n", passed+failed)

	if failed > 0 {
		os.Exit(1)
	}
}

func (tc *TestClient) testHealthCheck() bool {
	printTestHeader("Testing Health Check Endpoint")

	status, body, err := tc.do(http.MethodGet, "/health", nil)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		return false
	}
	if string(body) != "OK" {
		printError(fmt.Sprintf("Expected body 'OK', got '%s'", string(body)))
		return false
	}

	printSuccess("Health check passed")
	return true
}

func (tc *TestClient) testValidation() bool {
	printTestHeader("Testing Form Validation")

	status, body, err := tc.do(http.MethodPost, "/api/personas/generate", map[string]interface{}{
		"count":         "5",
		"age_range_min": "40",
		"age_range_max": "30",
	})
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusBadRequest {
		printError(fmt.Sprintf("Expected status 400, got %d", status))
		printJSON(body)
		return false
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(body, &resp); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}
	if resp["code"] != "invalid_age_range" {
		printError(fmt.Sprintf("Expected code 'invalid_age_range', got '%v'", resp["code"]))
		return false
	}

	printSuccess("Inverted age range rejected")
	return true
}

func (tc *TestClient) testGenerate() bool {
	printTestHeader("Testing Persona Generation")

	request := map[string]interface{}{
		"count":         fmt.Sprint(tc.count),
		"age_range_min": "20",
		"age_range_max": "29",
	}
	jsonData, _ := json.MarshalIndent(request, "", "  ")
	fmt.Printf("%sRequest:%s\n%s\n\n", colorYellow, colorReset, string(jsonData))

	status, body, err := tc.do(http.MethodPost, "/api/personas/generate", request)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		printJSON(body)
		return false
	}

	var resp struct {
		Message  string `json:"message"`
		Personas []struct {
			Name string `json:"name"`
			Age  int    `json:"age"`
		} `json:"personas"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}

	for _, p := range resp.Personas {
		if p.Age < 20 || p.Age > 29 {
			printError(fmt.Sprintf("Persona %s has age %d outside [20, 29]", p.Name, p.Age))
			return false
		}
	}

	printSuccess(resp.Message)
	fmt.Printf("\n%sGenerated Personas:%s\n", colorGreen, colorReset)
	fmt.Println(strings.Repeat("=", 80))
	for i, p := range resp.Personas {
		fmt.Printf("%2d. %s (%d)\n", i+1, p.Name, p.Age)
	}
	fmt.Println(strings.Repeat("=", 80))
	return true
}

func (tc *TestClient) testFilter() bool {
	printTestHeader("Testing Filter")

	status, body, err := tc.do(http.MethodPost, "/api/personas/filter", map[string]interface{}{
		"age_min": 25,
	})
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		printJSON(body)
		return false
	}

	var view struct {
		Total    int `json:"total"`
		Filtered int `json:"filtered"`
	}
	if err := json.Unmarshal(body, &view); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}
	if view.Filtered > view.Total {
		printError(fmt.Sprintf("Filtered count %d exceeds total %d", view.Filtered, view.Total))
		return false
	}
	printSuccess(fmt.Sprintf("%d of %d personas aged 25 or older", view.Filtered, view.Total))

	_, stats, err := tc.do(http.MethodGet, "/api/personas/stats", nil)
	if err == nil {
		printJSON(stats)
	}

	if _, _, err := tc.do(http.MethodDelete, "/api/personas/filter", nil); err != nil {
		printError(fmt.Sprintf("Failed to clear filter: %v", err))
		return false
	}
	return true
}

func (tc *TestClient) testExport(format string) bool {
	printTestHeader(fmt.Sprintf("Testing %s Export", strings.ToUpper(format)))

	url := fmt.Sprintf("%s/api/personas/export/%s", tc.baseURL, format)
	fmt.Printf("GET %s\n", url)

	resp, err := tc.client.Get(url)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", resp.StatusCode))
		printJSON(body)
		return false
	}

	disposition := resp.Header.Get("Content-Disposition")
	if !strings.Contains(disposition, "Virtual_People_Data_") {
		printError(fmt.Sprintf("Unexpected Content-Disposition: %q", disposition))
		return false
	}

	switch format {
	case "csv":
		if !bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}) {
			printError("CSV export is missing the UTF-8 byte order mark")
			return false
		}
	case "xlsx":
		if !bytes.HasPrefix(body, []byte("PK")) {
			printError("XLSX export is not a zip container")
			return false
		}
	}

	printSuccess(fmt.Sprintf("Received %d bytes (%s)", len(body), disposition))
	return true
}

func (tc *TestClient) testDeleteAll() bool {
	printTestHeader("Testing Delete All")

	status, body, err := tc.do(http.MethodPost, "/api/personas/delete_all", nil)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusBadRequest {
		printError(fmt.Sprintf("Unconfirmed delete: expected status 400, got %d", status))
		return false
	}
	printSuccess("Unconfirmed delete rejected")

	status, body, err = tc.do(http.MethodPost, "/api/personas/delete_all", map[string]interface{}{"confirm": true})
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		printJSON(body)
		return false
	}
	printJSON(body)

	_, body, err = tc.do(http.MethodGet, "/api/personas", nil)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	var view struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(body, &view); err != nil || view.Total != 0 {
		printError(fmt.Sprintf("Expected an empty working set, got %s", string(body)))
		return false
	}

	printSuccess("All personas deleted")
	return true
}

func (tc *TestClient) do(method, path string, payload interface{}) (int, []byte, error) {
	url := tc.baseURL + path
	fmt.Printf("%s %s\n", method, url)

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, body, err
}

func printHeader(text string) {
	fmt.Printf("\n%s%s%s\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
	fmt.Printf("%s= %s =%s\n", colorBlue, text, colorReset)
	fmt.Printf("%s%s%s\n\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
}

func printTestHeader(text string) {
	fmt.Printf("%s[TEST] %s%s\n", colorCyan, text, colorReset)
	fmt.Println(strings.Repeat("-", 80))
}

func printSuccess(text string) {
	fmt.Printf("%s✓ %s%s\n", colorGreen, text, colorReset)
}

func printError(text string) {
	fmt.Printf("%s✗ %s%s\n", colorRed, text, colorReset)
}

func printJSON(data []byte) {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, data, "", "  "); err == nil {
		fmt.Printf("\n%sResponse:%s\n%s\n", colorYellow, colorReset, prettyJSON.String())
	}
}
