package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.in))
		})
	}
}

func TestClampMaturityStage(t *testing.T) {
	assert.Equal(t, 1, clampMaturityStage(0))
	assert.Equal(t, 1, clampMaturityStage(-4))
	assert.Equal(t, 4, clampMaturityStage(4))
	assert.Equal(t, 7, clampMaturityStage(12))
}

func TestParseExtractionResponseDefaults(t *testing.T) {
	raw := "We are hiring, apply now"

	parsed, err := parseExtractionResponse(`{"company_name":"","job_title":"","job_description":"","application_link":""}`, raw)
	require.NoError(t, err)

	assert.Equal(t, "Unknown", parsed.CompanyName)
	assert.Equal(t, "Product Role", parsed.JobTitle)
	assert.Equal(t, raw, parsed.JobDescription)
	assert.Nil(t, parsed.ApplicationLink)
}

func TestParseExtractionResponseComplete(t *testing.T) {
	parsed, err := parseExtractionResponse("```json\n{\"company_name\":\"Acme\",\"job_title\":\"PM\",\"job_description\":\"Build things\",\"application_link\":\"https://acme.example/apply\"}\n```", "ignored")
	require.NoError(t, err)

	assert.Equal(t, "Acme", parsed.CompanyName)
	assert.Equal(t, "PM", parsed.JobTitle)
	assert.Equal(t, "Build things", parsed.JobDescription)
	require.NotNil(t, parsed.ApplicationLink)
	assert.Equal(t, "https://acme.example/apply", *parsed.ApplicationLink)
}

func TestParseExtractionResponseInvalidJSON(t *testing.T) {
	_, err := parseExtractionResponse("not json at all", "raw")
	assert.Error(t, err)
}

func TestParseAnalysisResponse(t *testing.T) {
	intel, err := parseAnalysisResponse(`{
		"core_product_focus": "recommendations",
		"maturity_stage": 9,
		"strategic_opportunity_gap": "gap",
		"competitive_positioning": "position",
		"hidden_transformation_opportunity": "opportunity"
	}`)
	require.NoError(t, err)

	assert.Equal(t, "recommendations", intel.CoreProductFocus)
	// Out-of-band stages are clamped, never rejected
	assert.Equal(t, 7, intel.MaturityStage)
}

func TestParseAnalysisResponseMissingFields(t *testing.T) {
	_, err := parseAnalysisResponse(`{"core_product_focus":"x","maturity_stage":3}`)
	assert.Error(t, err)
}
