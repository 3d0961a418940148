package qafmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"qawarn/internal/qa"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"

	sarifPropSeverity = "qawarn/severity"
	sarifPropBucket   = "qawarn/bucketId"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool         `json:"tool"`
	AutomationDetails sarifAutomation   `json:"automationDetails"`
	Invocations       []sarifInvocation `json:"invocations,omitempty"`
	Results           []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifAutomation struct {
	GUID string `json:"guid"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           int               `json:"ruleIndex"`
	Level               string            `json:"level"`
	Message             sarifMessage      `json:"message"`
	OccurrenceCount     int               `json:"occurrenceCount"`
	PartialFingerprints map[string]string `json:"partialFingerprints"`
	Properties          map[string]any    `json:"properties,omitempty"`
}

// SarifLevel maps a severity onto the SARIF result levels.
func SarifLevel(sev qa.Severity) string {
	switch sev {
	case qa.SevCritical, qa.SevImportant:
		return "error"
	case qa.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// Sarif writes the set as a SARIF v2.1.0 log with one rule per warning
// type and one result per group.
func Sarif(w io.Writer, set *qa.Set, meta SarifRunMeta) error {
	toolName := meta.ToolName
	if toolName == "" {
		toolName = "qawarn"
	}
	runID := meta.RunID
	if runID == "" {
		runID = NewRunID()
	}

	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:    toolName,
			Version: meta.ToolVersion,
			Rules:   []sarifRule{},
		}},
		AutomationDetails: sarifAutomation{GUID: runID},
		Results:           make([]sarifResult, 0, set.Len()),
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{
			Arguments:           append([]string(nil), meta.InvocationArgs...),
			ExecutionSuccessful: true,
		}}
	}

	ruleIndex := make(map[string]int)
	for _, it := range set.Items() {
		idx, ok := ruleIndex[it.Type()]
		if !ok {
			idx = len(run.Tool.Driver.Rules)
			ruleIndex[it.Type()] = idx
			run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule{
				ID:               it.Type(),
				ShortDescription: sarifMessage{Text: strings.ReplaceAll(it.Type(), "-", " ")},
			})
		}

		props := it.Properties()
		// namespaced so user properties of the same name survive
		props[sarifPropSeverity] = it.Severity().String()
		if it.HasBucket() {
			props[sarifPropBucket] = it.BucketID()
		}

		run.Results = append(run.Results, sarifResult{
			RuleID:          it.Type(),
			RuleIndex:       idx,
			Level:           SarifLevel(it.Severity()),
			Message:         sarifMessage{Text: resultMessage(it)},
			OccurrenceCount: it.Count(),
			PartialFingerprints: map[string]string{
				"aggregationId/v1": it.AggregationID(),
			},
			Properties: props,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs:    []sarifRun{run},
	})
}

func resultMessage(w *qa.Warning) string {
	noun := "occurrences"
	if w.Count() == 1 {
		noun = "occurrence"
	}
	return fmt.Sprintf("%s: %d %s", w.AggregationID(), w.Count(), noun)
}
