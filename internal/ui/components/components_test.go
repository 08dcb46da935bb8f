// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/YatinKande/aws-docs-rag-bot/internal/evidence"
	"github.com/YatinKande/aws-docs-rag-bot/internal/ui/styles"
)

func TestBannerLifecycle(t *testing.T) {
	var b Banner

	if b.Visible() {
		t.Error("zero banner should not be visible")
	}

	b.ShowSuccess("uploaded report.pdf")
	if !b.Visible() {
		t.Error("banner should be visible after ShowSuccess")
	}
	if b.Message() != "uploaded report.pdf" {
		t.Errorf("Message() = %q", b.Message())
	}

	b.ShowError("upload failed")
	if b.Message() != "upload failed" {
		t.Error("later message should replace earlier one")
	}

	b.Dismiss()
	if b.Visible() {
		t.Error("banner should be hidden after Dismiss")
	}
	if b.View(80) != "" {
		t.Error("hidden banner should render empty")
	}
}

func TestBannerViewContainsMessage(t *testing.T) {
	var b Banner
	b.ShowInfo("refreshing documents")

	out := b.View(80)
	if !strings.Contains(out, "refreshing documents") {
		t.Errorf("View() missing message: %q", out)
	}
}

func TestSpinnerInactiveByDefault(t *testing.T) {
	s := NewSpinner("Thinking")
	if s.IsActive() {
		t.Error("new spinner should be inactive")
	}
	if s.View() != "" {
		t.Error("inactive spinner should render empty")
	}
}

func TestSpinnerStartStop(t *testing.T) {
	s := NewSpinner("Thinking")

	cmd := s.Start()
	if cmd == nil {
		t.Fatal("Start should return a tick command")
	}
	if !s.IsActive() {
		t.Error("spinner should be active after Start")
	}
	if !strings.Contains(s.View(), "Thinking") {
		t.Errorf("active spinner view missing message: %q", s.View())
	}

	s.Stop()
	if s.IsActive() {
		t.Error("spinner should be inactive after Stop")
	}
}

func TestEvidencePanelEmptyState(t *testing.T) {
	p := NewEvidencePanel(styles.NewTheme())

	out := p.Render(evidence.View{Kind: evidence.KindNone}, 40, 20)
	if !strings.Contains(out, "No context available for this request.") {
		t.Errorf("empty panel missing neutral message: %q", out)
	}
}

func TestEvidencePanelCitations(t *testing.T) {
	p := NewEvidencePanel(styles.NewTheme())

	view := evidence.View{
		Kind: evidence.KindCitations,
		Citations: []evidence.Citation{
			{Title: "Amazon S3 User Guide", Section: "Bucket policies", Snippet: "Grant access with a policy.", Relevance: 0.85},
		},
	}
	out := p.Render(view, 60, 20)

	for _, want := range []string{"Amazon S3 User Guide", "Bucket policies", "85% relevance"} {
		if !strings.Contains(out, want) {
			t.Errorf("panel missing %q:\n%s", want, out)
		}
	}
}

func TestEvidencePanelMetrics(t *testing.T) {
	p := NewEvidencePanel(styles.NewTheme())

	view := evidence.View{
		Kind: evidence.KindMetrics,
		Metrics: []evidence.Metric{
			{Service: "EC2", Label: "month-to-date", Value: "$142.07"},
		},
	}
	out := p.Render(view, 60, 20)

	if !strings.Contains(out, "EC2") || !strings.Contains(out, "$142.07") {
		t.Errorf("panel missing metric content:\n%s", out)
	}
}

func TestCodeBlockFallsBackToPlainText(t *testing.T) {
	c := NewCodeBlock("nosuchlanguage", "plain text body")
	out := c.Render()
	if !strings.Contains(out, "plain text body") {
		t.Errorf("Render() should always include the source text: %q", out)
	}
}
