// send-plates triggers a synchronization on a running plate-pusher service
// from the command line.
//
// Usage:
//
//	send-plates -ids 1001,1002,1003 [-entity-type Element] [-debug]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	serviceURL := flag.String("url", defaultServiceURL(), "base URL of the plate-pusher service")
	entityType := flag.String("entity-type", "Element", "ShotGrid entity type to sync")
	ids := flag.String("ids", "", "comma-separated ShotGrid ids (required)")
	debug := flag.Bool("debug", false, "include FileMaker diagnostics in the result")
	flag.Parse()

	if strings.TrimSpace(*ids) == "" {
		flag.Usage()
		os.Exit(2)
	}

	params := url.Values{}
	params.Set("entity_type", *entityType)
	params.Set("selected_ids", *ids)
	if *debug {
		params.Set("debug", "1")
	}

	endpoint := strings.TrimRight(*serviceURL, "/") + "/send_plates?" + params.Encode()

	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Post(endpoint, "application/json", nil)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed to read response: %v", err)
	}

	var pretty map[string]interface{}
	if err := json.Unmarshal(body, &pretty); err != nil {
		fmt.Println(string(body))
	} else {
		out, _ := json.MarshalIndent(pretty, "", "  ")
		fmt.Println(string(out))
	}

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}

func defaultServiceURL() string {
	if v := os.Getenv("PLATE_PUSHER_URL"); v != "" {
		return v
	}
	return "http://localhost:5000"
}
