package domain

import (
	"encoding/json"

	jsoniter "github.com/json-iterator/go"

	"github.com/olusolaa/helm-guard/pkg/compare"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

type DiffAction string

const (
	ActionWarn   DiffAction = "WARN"
	ActionFail   DiffAction = "FAIL"
	ActionIgnore DiffAction = "IGNORE"
)

type ResourceStatus string

const (
	StatusMatch       ResourceStatus = "MATCH"
	StatusDrift       ResourceStatus = "DRIFT"
	StatusMissingLive ResourceStatus = "MISSING_LIVE"
	StatusMissingHelm ResourceStatus = "MISSING_HELM"
)

// DiffItem is one difference at Path. DesiredValue or LiveValue hold
// compare.Undefined when the field is absent on that side.
type DiffItem struct {
	Path         DiffPath
	DesiredValue any
	LiveValue    any
	Action       DiffAction
}

type diffItemJSON struct {
	Path         string          `json:"path"`
	DesiredValue json.RawMessage `json:"desiredValue,omitempty"`
	LiveValue    json.RawMessage `json:"liveValue,omitempty"`
	Action       DiffAction      `json:"action"`
}

// MarshalJSON omits absent sides and keeps explicit nulls.
func (d DiffItem) MarshalJSON() ([]byte, error) {
	out := diffItemJSON{Path: d.Path.String(), Action: d.Action}
	var err error
	if out.DesiredValue, err = encodeSide(d.DesiredValue); err != nil {
		return nil, err
	}
	if out.LiveValue, err = encodeSide(d.LiveValue); err != nil {
		return nil, err
	}
	return jsonAPI.Marshal(out)
}

func encodeSide(v any) (json.RawMessage, error) {
	if compare.IsUndefined(v) {
		return nil, nil
	}
	return jsonAPI.Marshal(v)
}

type ResourceResult struct {
	Resource    ResourceIdentifier `json:"resource"`
	Scope       Scope              `json:"scope"`
	Status      ResourceStatus     `json:"status"`
	Differences []DiffItem         `json:"differences"`
}

// Informational reports whether the result is excluded from pass/fail.
func (r ResourceResult) Informational() bool {
	return r.Scope == ScopeCluster
}
