// Package critique implements the critique & disposition pipeline: a
// content-addressed item store, a DAG of derivations, authority-ranked
// dispositions, active-set/convergence computation, the severity-downgrade
// gate, and lineage-card assembly for synthesis.
//
// The package holds no mutable state of its own. Every operation is a pure
// function of the stores and raw inputs the caller passes in; callers own
// persistence and must supply a consistent snapshot on each call.
package critique

import "time"

// Role identifies which of the two debating agents emitted an item.
type Role string

const (
	RoleA Role = "A"
	RoleB Role = "B"
)

// Severity ranks a critique's blocking weight. Ordering: Blocking > Important > Minor.
type Severity string

const (
	SeverityBlocking  Severity = "blocking"
	SeverityImportant Severity = "important"
	SeverityMinor     Severity = "minor"
)

var severityRank = map[Severity]int{
	SeverityBlocking:  3,
	SeverityImportant: 2,
	SeverityMinor:     1,
}

// higherSeverity returns the more severe of a and b.
func higherSeverity(a, b Severity) Severity {
	if severityRank[a] >= severityRank[b] {
		return a
	}
	return b
}

// Decision is the tagged-variant outcome of a DispositionRecord.
type Decision string

const (
	DecisionAccepted             Decision = "accepted"
	DecisionRejected              Decision = "rejected"
	DecisionDeferred              Decision = "deferred"
	DecisionTransformed           Decision = "transformed"
	DecisionPendingTransformation Decision = "pending_transformation"
)

// DecidedBy identifies the authority that produced a DispositionRecord.
type DecidedBy string

const (
	DecidedByModelA DecidedBy = "A"
	DecidedByModelB DecidedBy = "B"
	DecidedByHuman  DecidedBy = "human"
	DecidedByHost   DecidedBy = "host"
)

// authorityRank implements the human > host > model precedence from §4.4.
// Both model roles share rank 1 — neither role outranks the other.
var authorityRank = map[DecidedBy]int{
	DecidedByHuman:  3,
	DecidedByHost:   2,
	DecidedByModelA: 1,
	DecidedByModelB: 1,
}

const normalizationSpecVersion = "v1"

// NormalizationSpecVersion returns the pinned normalizer version stamped
// onto every minted item. A behavior change to the normalizer always comes
// with a new version literal — never a silent change (§4.1).
func NormalizationSpecVersion() string { return normalizationSpecVersion }

// CritiqueItem is a single concern raised by a model, content-addressed and
// immutable once inserted. No field is ever mutated after minting.
type CritiqueItem struct {
	ID                       string
	ProposalID               string
	Role                     Role
	Round                    int
	Severity                 Severity
	Title                    string
	Detail                   string
	NormalizedText           string
	NormalizationSpecVersion string
	DerivedFrom              []string // nil when the item is a root
	RootIDs                  []string
	RootSeverity             *Severity
	SimilarityWarn           []string // closed-item IDs flagged as likely re-raises
	MintedAt                 time.Time
	MintedBy                 string // always "host"
}

// DisplayID returns the first 12 characters of id ("blk_" + 8 hex chars).
func DisplayID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12]
}

// Transformation is the sub-record present only on `transformed` and
// `pending_transformation` dispositions.
type Transformation struct {
	ChildIDs                  []string
	Rationale                 string
	ProposedSeverityDowngrade bool
}

// DispositionRecord is an append-only decision about an item. Multiple
// records may exist per item; see EffectiveDisposition for how the system
// resolves them to a single authoritative view.
type DispositionRecord struct {
	DispositionID   string
	ItemID          string
	Round           int
	DecidedBy       DecidedBy
	Decision        Decision
	Rationale       string
	Transformation  *Transformation
	ProposedAt      time.Time
	TerminalAt      *time.Time
}

// ConvergenceState reports whether a round still has blocking work.
type ConvergenceState string

const (
	ConvergenceOpen   ConvergenceState = "open"
	ConvergenceClosed ConvergenceState = "closed"
)

// RoundArtifact is a per-round derived snapshot, written once and immutable.
type RoundArtifact struct {
	ProposalID          string
	Round               int
	ArtifactID          string
	ProducedAt          time.Time
	RawPlanText         map[Role]string
	EmittedItemIDs      map[Role][]string
	DispositionsByItem  map[string][]DispositionRecord
	NormalizationSpecVersion string
	ActiveSet           []string
	PendingFlags        []string
	ConvergenceState    ConvergenceState
	DAGValidated        bool
	DAGValidatedAt       time.Time
}
