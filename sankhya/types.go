// Package sankhya defines the contract between sankhya-tui and the
// automation backend: request/response types, push events, and the service
// interfaces the views depend on.
package sankhya

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for planning dates.
const DateLayout = "2006-01-02"

// FlexString is a JSON scalar the backend sends either as a number or as a
// string (NUPLAN and IDIPROC come straight from the database, the current
// round is "-" before the first round starts).
type FlexString string

// UnmarshalJSON accepts strings, numbers and null.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*f = ""
		return nil
	case strings.HasPrefix(s, `"`):
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("flex string: unsupported value %s", s)
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the value, or "-" when empty.
func (f FlexString) String() string {
	if f == "" {
		return "-"
	}
	return string(f)
}

// SearchParams scopes a plan search or an automation run.
type SearchParams struct {
	Date       string `json:"data_planejamento"`
	Branch     int    `json:"braco"`
	RoundStart int    `json:"rodada_inicial"`
	RoundEnd   int    `json:"rodada_final"`
}

// Validate checks the parameters locally before any request is made.
func (p SearchParams) Validate() error {
	if strings.TrimSpace(p.Date) == "" {
		return &ValidationError{Field: "date", Reason: "is required"}
	}
	if p.RoundStart > p.RoundEnd {
		return &ValidationError{Field: "rounds", Reason: fmt.Sprintf("start %d is after end %d", p.RoundStart, p.RoundEnd)}
	}
	return nil
}

// ParseSearchParams builds SearchParams from raw form input.
func ParseSearchParams(date, branch, roundStart, roundEnd string) (SearchParams, error) {
	p := SearchParams{Date: strings.TrimSpace(date)}
	if p.Date != "" {
		if _, err := time.Parse(DateLayout, p.Date); err != nil {
			return p, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
		}
	}

	fields := []struct {
		name string
		raw  string
		dst  *int
	}{
		{"branch", branch, &p.Branch},
		{"round start", roundStart, &p.RoundStart},
		{"round end", roundEnd, &p.RoundEnd},
	}
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f.raw))
		if err != nil || n < 0 {
			return p, &ValidationError{Field: f.name, Reason: "must be a whole number"}
		}
		*f.dst = n
	}
	return p, nil
}

// Result is the common envelope returned by the control endpoints.
type Result struct {
	Success bool   `json:"sucesso"`
	Message string `json:"mensagem,omitempty"`
	Error   string `json:"erro,omitempty"`
	Total   int    `json:"total,omitempty"`
}

// Text returns whichever of the message fields the backend filled in.
func (r Result) Text() string {
	if r.Success && r.Message != "" {
		return r.Message
	}
	if r.Error != "" {
		return r.Error
	}
	return r.Message
}

// CreatedOp pairs a plan with the production order created for it.
type CreatedOp struct {
	PlanID FlexString `json:"nuplan" yaml:"nuplan"`
	OpID   FlexString `json:"idiproc" yaml:"idiproc"`
}

// Failure records a plan the backend could not convert.
type Failure struct {
	PlanID FlexString `json:"nuplan" yaml:"nuplan"`
	Error  string     `json:"erro" yaml:"erro"`
}

// Summary is the end-of-run report.
type Summary struct {
	TotalCreated  int         `json:"total_ops_criadas" yaml:"total_ops_criadas"`
	Created       []CreatedOp `json:"ops_criadas_sucesso" yaml:"ops_criadas_sucesso"`
	TotalFailures int         `json:"total_falhas" yaml:"total_falhas"`
	Failures      []Failure   `json:"detalhes_falhas" yaml:"detalhes_falhas"`
}
