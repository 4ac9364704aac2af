package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"cqa/internal/report"
	"cqa/internal/rules"
	"cqa/internal/version"
)

// SARIF 2.1.0 schema types, the subset the analyzer emits.
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID                   string           `json:"id"`
	ShortDescription     *sarifMessage    `json:"shortDescription,omitempty"`
	DefaultConfiguration *sarifRuleConfig `json:"defaultConfiguration,omitempty"`
	Properties           map[string]any   `json:"properties,omitempty"`
}

type sarifRuleConfig struct {
	Level string `json:"level,omitempty"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	Level               string            `json:"level,omitempty"`
	Message             sarifMessage      `json:"message"`
	Locations           []sarifLocation   `json:"locations,omitempty"`
	PartialFingerprints map[string]string `json:"partialFingerprints,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation *sarifPhysicalLocation `json:"physicalLocation,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation *sarifArtifactLocation `json:"artifactLocation,omitempty"`
	Region           *sarifRegion           `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri,omitempty"`
}

type sarifRegion struct {
	StartLine int `json:"startLine,omitempty"`
}

// sarifLevel maps issue severity to the SARIF level vocabulary.
func sarifLevel(sev rules.Severity) string {
	switch sev {
	case rules.SeverityCritical, rules.SeverityHigh:
		return "error"
	case rules.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

// renderSARIF converts a batch of reports into one SARIF run.
func renderSARIF(reports []*report.QualityReport) (string, error) {
	ruleIndex := map[string]bool{}
	var sarifRules []sarifRule
	var results []sarifResult

	for _, r := range reports {
		for _, issue := range r.Issues {
			if !ruleIndex[issue.RuleID] {
				ruleIndex[issue.RuleID] = true
				sarifRules = append(sarifRules, sarifRule{
					ID:                   issue.RuleID,
					ShortDescription:     &sarifMessage{Text: issue.Message},
					DefaultConfiguration: &sarifRuleConfig{Level: sarifLevel(issue.Severity)},
					Properties:           map[string]any{"category": string(issue.Category)},
				})
			}

			result := sarifResult{
				RuleID:  issue.RuleID,
				Level:   sarifLevel(issue.Severity),
				Message: sarifMessage{Text: issue.Message},
				PartialFingerprints: map[string]string{
					"primaryLocationLineHash": fingerprint(r.Unit, issue),
				},
			}
			if issue.Line > 0 {
				result.Locations = []sarifLocation{{
					PhysicalLocation: &sarifPhysicalLocation{
						ArtifactLocation: &sarifArtifactLocation{URI: r.Unit},
						Region:           &sarifRegion{StartLine: issue.Line},
					},
				}}
			}
			results = append(results, result)
		}
	}

	doc := sarifReport{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    "cqa",
				Version: version.Version,
				Rules:   sarifRules,
			}},
			Results: results,
		}},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func fingerprint(unit string, issue rules.Issue) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d|%s", unit, issue.RuleID, issue.Line, issue.Message)))
	return hex.EncodeToString(sum[:8])
}
