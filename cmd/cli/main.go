package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"rankcet/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type predictRequest struct {
	Rank            float64 `json:"rank"`
	Category        string  `json:"category"`
	Gender          string  `json:"gender"`
	YearPreference  int     `json:"year_preference"`
	PhasePreference string  `json:"phase_preference"`
}

type predictResponse struct {
	Predictions []models.Prediction `json:"predictions"`
	Count       int                 `json:"count"`
	Message     string              `json:"message,omitempty"`
}

func main() {
	global := flag.NewFlagSet("rankcet", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	client := &http.Client{Timeout: 15 * time.Second}

	switch args[0] {
	case "predict":
		handlePredict(ctx, client, *baseURL, args[1:])
	case "options":
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, *baseURL+"/options", nil, &resp); err != nil {
			log.Fatalf("options failed: %v", err)
		}
		printJSON(resp)
	default:
		printUsage()
		os.Exit(1)
	}
}

func handlePredict(ctx context.Context, client *http.Client, baseURL string, args []string) {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	rank := fs.Float64("rank", 0, "exam rank")
	category := fs.String("category", "OC", "category (OC, BC-A .. BC-E, SC, ST, EWS)")
	gender := fs.String("gender", "BOYS", "BOYS or GIRLS")
	year := fs.Int("year", time.Now().Year()-1, "admission year")
	phase := fs.String("phase", "Phase 1", `"Phase 1", "Phase 2" or "Final Phase"`)
	format := fs.String("format", "table", "table|json|csv")
	_ = fs.Parse(args)

	if *rank <= 0 {
		log.Fatal("-rank is required")
	}

	var resp predictResponse
	err := doJSON(ctx, client, http.MethodPost, baseURL+"/predict", predictRequest{
		Rank:            *rank,
		Category:        *category,
		Gender:          *gender,
		YearPreference:  *year,
		PhasePreference: *phase,
	}, &resp)
	if err != nil {
		log.Fatalf("predict failed: %v", err)
	}

	switch *format {
	case "json":
		printJSON(resp)
	case "csv":
		if err := writeCSV(os.Stdout, resp.Predictions); err != nil {
			log.Fatalf("write csv: %v", err)
		}
	default:
		if len(resp.Predictions) == 0 {
			fmt.Println(resp.Message)
			return
		}
		writeTable(os.Stdout, resp.Predictions)
	}
}

func writeTable(w io.Writer, items []models.Prediction) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tCOLLEGE\tBRANCH\tCLOSING RANK")
	for _, p := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.CollegeCode, p.CollegeName, p.BranchName, formatRank(p.ClosingRank))
	}
	_ = tw.Flush()
}

func writeCSV(w io.Writer, items []models.Prediction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"college_code", "college_name", "branch_name", "closing_rank", "admission_year", "admission_phase", "category", "gender"}); err != nil {
		return err
	}
	for _, p := range items {
		if err := cw.Write([]string{
			p.CollegeCode,
			p.CollegeName,
			p.BranchName,
			formatRank(p.ClosingRank),
			strconv.Itoa(p.AdmissionYear),
			string(p.AdmissionPhase),
			p.Category,
			p.Gender,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatRank(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func doJSON(ctx context.Context, client *http.Client, method, endpoint string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func printUsage() {
	fmt.Println("rankcet [-api URL] <command> [flags]")
	fmt.Println("commands:")
	fmt.Println("  predict -rank N [-category OC] [-gender BOYS] [-year 2024] [-phase \"Phase 1\"] [-format table|json|csv]")
	fmt.Println("  options")
}
