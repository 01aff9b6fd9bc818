package report

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const styleCSS = `body{font-family:Georgia,serif;max-width:840px;margin:2rem auto;padding:0 1rem;color:#1c1917;}
h1{border-bottom:2px solid #a8a29e;padding-bottom:0.3rem;}
table{width:100%;border-collapse:collapse;font-size:0.9rem;}
th,td{border:1px solid #a8a29e;padding:0.35rem 0.45rem;text-align:left;vertical-align:top;}
thead th{background:#f1f5f9;font-weight:700;}
code{background:#f5f5f4;padding:0.1rem 0.25rem;border-radius:3px;}`

// RenderHTML converts the run report markdown into a standalone HTML page.
func RenderHTML(markdown string) (string, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>Triage Report</title>" +
		"<style>" + styleCSS + "</style></head><body>" +
		content.String() +
		"</body></html>", nil
}
