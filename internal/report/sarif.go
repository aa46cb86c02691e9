package report

import (
	"io"

	"github.com/tinyrange/safecpp/internal/diag"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	toolName     = "safecpp"
)

var ruleText = map[diag.Kind]string{
	diag.OutOfBounds:                           "Array accessed outside its declared capacity",
	diag.MemoryLeak:                            "Allocation overwritten before it was freed",
	diag.DoubleFree:                            "Memory freed more than once",
	diag.InvalidFree:                           "Free of a pointer that was never allocated",
	diag.UninitializedAccess:                   "Variable read before it was initialized",
	diag.NullPointerDereference:                "Dereference of a null or released pointer",
	diag.IncorrectNumberOfArguments:            "Call with the wrong number of arguments",
	diag.NonPointerArgumentForPointerParameter: "Non-pointer argument for a pointer parameter",
	diag.Unsupported:                           "Construct not modeled by a checker",
}

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
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
	Name  string      `json:"name"`
	Rules []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID     string            `json:"ruleId"`
	RuleIndex  int               `json:"ruleIndex"`
	Level      string            `json:"level"`
	Message    sarifMessage      `json:"message"`
	Locations  []sarifLocation   `json:"locations"`
	Properties map[string]string `json:"properties"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical  `json:"physicalLocation"`
	LogicalLocations []sarifLogical `json:"logicalLocations,omitempty"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifLogical struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// SARIF writes a SARIF 2.1.0 log with one run. Diagnostics carry no
// positions, so each result points at the whole file and names the
// offending variable or function as a logical location.
type SARIF struct{}

func (SARIF) Write(w io.Writer, r Report) error {
	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: toolName, Rules: rules()}},
		Results: []sarifResult{},
	}
	for _, d := range r.Diagnostics {
		loc := sarifLocation{PhysicalLocation: sarifPhysical{ArtifactLocation: sarifArtifact{URI: r.File}}}
		if d.Name != "" {
			loc.LogicalLocations = []sarifLogical{{Name: d.Name, Kind: "variable"}}
		}
		level := "error"
		if d.Kind == diag.Unsupported {
			level = "note"
		}
		run.Results = append(run.Results, sarifResult{
			RuleID:     d.Kind.String(),
			RuleIndex:  int(d.Kind),
			Level:      level,
			Message:    sarifMessage{Text: d.Message},
			Locations:  []sarifLocation{loc},
			Properties: map[string]string{"checker": d.Checker},
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sarifLog{Version: sarifVersion, Schema: sarifSchema, Runs: []sarifRun{run}})
}

// rules lists every diagnostic kind in declaration order, so a kind's value
// is its rule index.
func rules() []sarifRule {
	rs := make([]sarifRule, 0, len(ruleText))
	for k := diag.OutOfBounds; k <= diag.Unsupported; k++ {
		rs = append(rs, sarifRule{ID: k.String(), ShortDescription: sarifMessage{Text: ruleText[k]}})
	}
	return rs
}
