package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelkehle/revenue-readiness/internal/revenue"
)

const yamlInput = `product_name: Acme
description: Increase MRR 30% in 30 days for SaaS founders.
target_user_guess: SaaS founders
monthly_price: 49
feature_list:
  - AI diagnosis
  - Dashboard
competitors: [Baremetrics]
`

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadInputYAMLAndJSON(t *testing.T) {
	in, err := loadInput(writeTemp(t, "in.yaml", yamlInput))
	require.NoError(t, err)
	assert.Equal(t, "Acme", in.ProductName)
	assert.Equal(t, 49.0, in.MonthlyPrice)
	assert.Equal(t, []string{"Baremetrics"}, in.Competitors)

	in, err = loadInput(writeTemp(t, "in.json", `{"product_name":"Beta","feature_list":["a","b"]}`))
	require.NoError(t, err)
	assert.Equal(t, "Beta", in.ProductName)
	assert.Len(t, in.FeatureList, 2)

	_, err = loadInput(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWriteFormats(t *testing.T) {
	color.NoColor = true
	in, err := loadInput(writeTemp(t, "in.yaml", yamlInput))
	require.NoError(t, err)
	report, err := revenue.NewEngine().Run(t.Context(), in)
	require.NoError(t, err)

	var text bytes.Buffer
	require.NoError(t, write(&text, "text", report))
	assert.Contains(t, text.String(), "Revenue Readiness Score: ")
	assert.Contains(t, text.String(), revenue.CategoryNicheClarity)

	var js bytes.Buffer
	require.NoError(t, write(&js, "json", report))
	var decoded revenue.Report
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, report.Score.TotalScore, decoded.Score.TotalScore)

	var md bytes.Buffer
	require.NoError(t, write(&md, "md", revenue.BuildPreview(report)))
	assert.True(t, strings.HasPrefix(md.String(), "# Revenue Readiness Report"))
	assert.Contains(t, md.String(), "- View: preview")

	assert.Error(t, write(&bytes.Buffer{}, "xml", report))
}
