package mail

import (
	"strings"
	"testing"
)

func TestBuildMessageMultipartAlternative(t *testing.T) {
	msg, err := buildMessage("Billing <billing@example.com>", "manager@example.com", "Monthly report", "<h1>Report</h1>", "Report text")
	if err != nil {
		t.Fatalf("buildMessage: %v", err)
	}
	for _, want := range []string{
		"From: Billing <billing@example.com>",
		"To: manager@example.com",
		"Subject: Monthly report",
		"Content-Type: multipart/alternative; boundary=",
		"text/plain; charset=utf-8",
		"text/html; charset=utf-8",
		"Report text",
		"<h1>Report</h1>",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
	// Text alternative must come before the HTML part.
	if strings.Index(msg, "Report text") > strings.Index(msg, "<h1>Report</h1>") {
		t.Error("plain-text part should precede HTML part")
	}
}

func TestParseAddress(t *testing.T) {
	if got := parseAddress("Billing <billing@example.com>"); got != "billing@example.com" {
		t.Errorf("parseAddress with display name = %q", got)
	}
	if got := parseAddress("billing@example.com"); got != "billing@example.com" {
		t.Errorf("parseAddress bare = %q", got)
	}
}
