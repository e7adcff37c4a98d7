// Package crucible re-exports the critique & disposition pipeline core
// (internal/critique) as the module's public library surface, the way the
// teacher repo exposes its domain types from a thin root package rather
// than making every collaborator import internal/ directly.
//
// Everything here is a type alias or thin wrapper; the implementation lives
// in internal/critique and is never duplicated.
package crucible

import "github.com/kodevadam/crucible/internal/critique"

type (
	Role                = critique.Role
	Severity             = critique.Severity
	Decision             = critique.Decision
	DecidedBy            = critique.DecidedBy
	ConvergenceState     = critique.ConvergenceState
	CritiqueItem         = critique.CritiqueItem
	DispositionRecord    = critique.DispositionRecord
	Transformation       = critique.Transformation
	RoundArtifact        = critique.RoundArtifact
	RawCritique          = critique.RawCritique
	RawDisposition       = critique.RawDisposition
	RoundInput           = critique.RoundInput
	IngestResult         = critique.IngestResult
	ItemStore            = critique.ItemStore
	DispositionStore     = critique.DispositionStore
	ClosedItem           = critique.ClosedItem
	ItemAppender         = critique.ItemAppender
	DispositionAppender  = critique.DispositionAppender
	LineageCard          = critique.LineageCard
	LineageEntry         = critique.LineageEntry
	LineageInput         = critique.LineageInput
	SupersededRecord     = critique.SupersededRecord
	SynthesisPlan        = critique.SynthesisPlan
	CycleError           = critique.CycleError
	ItemError            = critique.ItemError
)

const (
	RoleA = critique.RoleA
	RoleB = critique.RoleB

	SeverityBlocking  = critique.SeverityBlocking
	SeverityImportant = critique.SeverityImportant
	SeverityMinor     = critique.SeverityMinor

	DecisionAccepted             = critique.DecisionAccepted
	DecisionRejected             = critique.DecisionRejected
	DecisionDeferred             = critique.DecisionDeferred
	DecisionTransformed          = critique.DecisionTransformed
	DecisionPendingTransformation = critique.DecisionPendingTransformation

	DecidedByModelA = critique.DecidedByModelA
	DecidedByModelB = critique.DecidedByModelB
	DecidedByHuman  = critique.DecidedByHuman
	DecidedByHost   = critique.DecidedByHost

	ConvergenceOpen   = critique.ConvergenceOpen
	ConvergenceClosed = critique.ConvergenceClosed
)

var (
	// ErrInvalidArgument through ErrCycleDetected are the sentinel errors
	// from §7 of the specification; see internal/critique/errors.go for
	// the authoritative documentation of each.
	ErrInvalidArgument             = critique.ErrInvalidArgument
	ErrDerivedFromMissing           = critique.ErrDerivedFromMissing
	ErrForwardReferenceInResponse   = critique.ErrForwardReferenceInResponse
	ErrClosedIDReactivation         = critique.ErrClosedIDReactivation
	ErrUnknownDisposition           = critique.ErrUnknownDisposition
	ErrTransformedWithoutChildren   = critique.ErrTransformedWithoutChildren
	ErrBlockingCannotDefer          = critique.ErrBlockingCannotDefer
	ErrCycleDetected                = critique.ErrCycleDetected
)

// Normalize applies the v1 text-normalization rules (§4.1).
func Normalize(text string) string { return critique.Normalize(text) }

// MintID computes the content-addressed item ID for (proposalID, role,
// round, normalizedText) (§4.2).
func MintID(proposalID string, role Role, round int, normalizedText string) string {
	return critique.MintID(proposalID, role, round, normalizedText)
}

// DisplayID returns the first 12 characters of an item ID.
func DisplayID(id string) string { return critique.DisplayID(id) }

// NormalizationSpecVersion returns the pinned normalizer version stamped
// onto every minted item.
func NormalizationSpecVersion() string { return critique.NormalizationSpecVersion() }

// ValidateDAG runs the three-color cycle check over every item's
// derived_from edges (§4.3).
func ValidateDAG(items []CritiqueItem) (valid bool, cycle []string) {
	return critique.ValidateDAG(items)
}

// EffectiveDisposition resolves the authority-ranked, most-recent
// disposition among records (§4.4).
func EffectiveDisposition(records []DispositionRecord) *DispositionRecord {
	return critique.EffectiveDisposition(records)
}

// ProcessCritiqueRound is the central write path of the pipeline (§4.5).
func ProcessCritiqueRound(input RoundInput) (*IngestResult, error) {
	return critique.ProcessCritiqueRound(input)
}

// ComputeRootSeverity returns the maximum severity among rootIDs that
// resolve in the store or the in-flight composed set (§4.6).
func ComputeRootSeverity(rootIDs []string, store ItemStore, composed map[string]CritiqueItem) *Severity {
	return critique.ComputeRootSeverity(rootIDs, store, composed)
}

// ComputeActiveSet returns the non-terminal leaves of the derivation DAG
// (§4.7).
func ComputeActiveSet(store ItemStore, dispositions DispositionStore, children map[string][]string) []string {
	return critique.ComputeActiveSet(store, dispositions, children)
}

// ComputeConvergenceState reports whether activeSet still carries a
// blocking item (§4.7).
func ComputeConvergenceState(activeSet []string, store ItemStore) ConvergenceState {
	return critique.ComputeConvergenceState(activeSet, store)
}

// ComputePendingFlags lists items whose effective disposition is the open
// ⚑ gate, pending_transformation (§4.7).
func ComputePendingFlags(store ItemStore, dispositions DispositionStore) []string {
	return critique.ComputePendingFlags(store, dispositions)
}

// RoundClosedForSynthesis reports whether a round is ready for the
// synthesis call (§4.11).
func RoundClosedForSynthesis(activeSet []string, store ItemStore, dispositions DispositionStore) bool {
	return critique.RoundClosedForSynthesis(activeSet, store, dispositions)
}

// ComputeSimilarityWarn flags closed items whose normalized text is a
// likely re-raise of newText via 3-gram Jaccard similarity (§4.8).
func ComputeSimilarityWarn(newText string, closedItems []ClosedItem, threshold float64) []string {
	return critique.ComputeSimilarityWarn(newText, closedItems, threshold)
}

// BuildLineageCards assembles one lineage card per active item for the
// synthesis prompt (§4.9).
func BuildLineageCards(input LineageInput) []LineageCard {
	return critique.BuildLineageCards(input)
}

// ComputeSynthesisGaps returns every blocking active item not addressed by
// plan, the canonical anti-fraud check (§4.10).
func ComputeSynthesisGaps(activeSet []string, store ItemStore, plan SynthesisPlan) []CritiqueItem {
	return critique.ComputeSynthesisGaps(activeSet, store, plan)
}
