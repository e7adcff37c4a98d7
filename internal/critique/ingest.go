package critique

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RawCritique is one model-emitted concern as parsed by the host from raw
// model text, ahead of minting (§6).
type RawCritique struct {
	Severity    Severity
	Title       string
	Detail      string
	DerivedFrom []string // nil for a root item
	Disposition *RawDisposition
}

// RawDisposition is the optional disposition a raw critique carries.
type RawDisposition struct {
	DecidedBy               DecidedBy
	Decision                Decision
	Rationale               string
	TransformationRationale string   // rationale attached to transformation sub-record, if any
	SeverityDowngradeTo     *Severity // triggers the ⚑ gate when strictly lower than current severity
}

// RoundInput bundles everything ProcessCritiqueRound needs: the raw
// critiques from one role's response, read-only store snapshots, and the
// host's append callbacks (§6).
type RoundInput struct {
	ProposalID   string
	Role         Role
	Round        int
	RawCritiques []RawCritique

	Items        ItemStore
	Dispositions DispositionStore
	ClosedItems  []ClosedItem

	InsertItems         ItemAppender
	InsertDispositions  DispositionAppender

	SimilarityThreshold float64 // 0 selects DefaultSimilarityThreshold

	// Now is an injectable clock, defaulting to time.Now. Tests pass a fixed
	// clock for deterministic MintedAt/ProposedAt values.
	Now func() time.Time
}

// IngestResult is the output of ProcessCritiqueRound (§6). MintedItems and
// DispositionRecords are populated, and the append callbacks invoked, only
// when Errors is empty.
type IngestResult struct {
	MintedItems        []CritiqueItem
	DispositionRecords []DispositionRecord
	Warnings           []string
	Errors             []error
}

// ProcessCritiqueRound is the central write path (§4.5): it validates one
// role's raw critiques for a round, mints content-addressed items, resolves
// derived_from and root_ids, runs the similarity warner, records
// dispositions (enforcing the severity-downgrade ⚑ gate), and — only if no
// structural error occurred anywhere in the batch — appends everything via
// the host's callbacks. Parse order is preserved throughout.
func ProcessCritiqueRound(input RoundInput) (*IngestResult, error) {
	if input.Items == nil || input.Dispositions == nil {
		return nil, fmt.Errorf("critique: item store and disposition store are required")
	}
	now := input.Now
	if now == nil {
		now = time.Now
	}

	result := &IngestResult{}

	if input.ProposalID == "" {
		result.Errors = append(result.Errors, fmt.Errorf("%w: proposal_id is required", ErrInvalidArgument))
	}
	if input.Round < 1 {
		result.Errors = append(result.Errors, fmt.Errorf("%w: round must be positive", ErrInvalidArgument))
	}
	if input.Role != RoleA && input.Role != RoleB {
		result.Errors = append(result.Errors, fmt.Errorf("%w: role must be A or B", ErrInvalidArgument))
	}
	if len(result.Errors) > 0 {
		return result, nil
	}

	type staged struct {
		raw        RawCritique
		id         string
		normalized string
	}

	stagedItems := make([]staged, len(input.RawCritiques))
	indexByID := make(map[string]int, len(input.RawCritiques))
	for i, raw := range input.RawCritiques {
		normalized := Normalize(raw.Title + " " + raw.Detail)
		id := MintID(input.ProposalID, input.Role, input.Round, normalized)
		stagedItems[i] = staged{raw: raw, id: id, normalized: normalized}
		indexByID[id] = i
	}

	canonicalChildren := buildChildrenMap(input.Items, nil)
	composed := make(map[string]CritiqueItem, len(stagedItems))
	mintedItems := make([]CritiqueItem, 0, len(stagedItems))

	for i, st := range stagedItems {
		var itemErrs []error
		var rootIDs []string

		if len(st.raw.DerivedFrom) == 0 {
			rootIDs = []string{st.id}
		} else {
			seen := make(map[string]bool, len(st.raw.DerivedFrom))
			addRoots := func(roots []string, fallback string) {
				if len(roots) == 0 {
					roots = []string{fallback}
				}
				for _, r := range roots {
					if !seen[r] {
						seen[r] = true
						rootIDs = append(rootIDs, r)
					}
				}
			}

			for _, parentID := range st.raw.DerivedFrom {
				if parent, ok := input.Items.GetItem(parentID); ok {
					if isTerminal(parentID, input.Dispositions, canonicalChildren, make(terminalMemo)) {
						eff := EffectiveDisposition(input.Dispositions.DispositionsFor(parentID))
						itemErrs = append(itemErrs, fmt.Errorf(
							"%w: parent %s is terminal (decision=%s, round=%d); mint a new root item if the concern re-emerges",
							ErrClosedIDReactivation, DisplayID(parentID), eff.Decision, eff.Round))
						continue
					}
					addRoots(parent.RootIDs, parentID)
					continue
				}
				if parentIdx, ok := indexByID[parentID]; ok {
					if parentIdx < i {
						addRoots(composed[parentID].RootIDs, parentID)
						continue
					}
					itemErrs = append(itemErrs, fmt.Errorf("%w: %s derived_from %s",
						ErrForwardReferenceInResponse, DisplayID(st.id), DisplayID(parentID)))
					continue
				}
				itemErrs = append(itemErrs, fmt.Errorf("%w: %s derived_from %s",
					ErrDerivedFromMissing, DisplayID(st.id), DisplayID(parentID)))
			}
		}

		var similarityWarn []string
		if len(st.raw.DerivedFrom) == 0 {
			similarityWarn = ComputeSimilarityWarn(st.normalized, input.ClosedItems, input.SimilarityThreshold)
			if len(similarityWarn) > 0 {
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"%s: possible re-raise of closed item(s): %s", DisplayID(st.id), strings.Join(similarityWarn, ", ")))
			}
		}

		if len(itemErrs) > 0 {
			for _, e := range itemErrs {
				result.Errors = append(result.Errors, &ItemError{Index: i, Err: e})
			}
			continue
		}

		// A self-rooted item (derived_from empty) can never resolve through
		// input.Items or composed — it isn't inserted into either until after
		// this point — so its root_severity is its own severity, not null
		// (§4.6: null is reserved for "no roots resolve", e.g. an opaque
		// cross-proposal parent, never for a root item referencing itself).
		var rootSeverity *Severity
		if len(st.raw.DerivedFrom) == 0 {
			sev := st.raw.Severity
			rootSeverity = &sev
		} else {
			rootSeverity = ComputeRootSeverity(rootIDs, input.Items, composed)
		}

		item := CritiqueItem{
			ID:                       st.id,
			ProposalID:               input.ProposalID,
			Role:                     input.Role,
			Round:                    input.Round,
			Severity:                 st.raw.Severity,
			Title:                    st.raw.Title,
			Detail:                   st.raw.Detail,
			NormalizedText:           st.normalized,
			NormalizationSpecVersion: NormalizationSpecVersion(),
			RootIDs:                  rootIDs,
			RootSeverity:             rootSeverity,
			SimilarityWarn:           similarityWarn,
			MintedAt:                 now(),
			MintedBy:                 "host",
		}
		if len(st.raw.DerivedFrom) > 0 {
			item.DerivedFrom = append([]string{}, st.raw.DerivedFrom...)
		}

		composed[st.id] = item
		mintedItems = append(mintedItems, item)
	}

	if len(result.Errors) > 0 {
		return result, nil
	}

	// §4.5 step 6: children, including items newly minted this call, for
	// the transformed-disposition child check.
	children := buildChildrenMap(input.Items, mintedItems)

	var dispositionRecords []DispositionRecord
	for i, st := range stagedItems {
		if st.raw.Disposition == nil {
			continue
		}
		d := st.raw.Disposition
		item := composed[st.id]

		if !isValidDecision(d.Decision) {
			result.Errors = append(result.Errors, &ItemError{Index: i,
				Err: fmt.Errorf("%w: %q", ErrUnknownDisposition, d.Decision)})
			continue
		}

		decision := d.Decision
		var transformation *Transformation

		if decision == DecisionTransformed {
			childIDs := children[st.id]
			if len(childIDs) == 0 {
				result.Errors = append(result.Errors, &ItemError{Index: i,
					Err: fmt.Errorf("%w: %s", ErrTransformedWithoutChildren, DisplayID(st.id))})
				continue
			}
			rationale := d.TransformationRationale
			if rationale == "" {
				rationale = d.Rationale
			}
			transformation = &Transformation{ChildIDs: append([]string{}, childIDs...), Rationale: rationale}
		}

		if decision == DecisionDeferred && item.Severity == SeverityBlocking {
			result.Errors = append(result.Errors, &ItemError{Index: i,
				Err: fmt.Errorf("%w: %s", ErrBlockingCannotDefer, DisplayID(st.id))})
			continue
		}

		if d.SeverityDowngradeTo != nil && severityRank[*d.SeverityDowngradeTo] < severityRank[item.Severity] {
			decision = DecisionPendingTransformation
			if transformation == nil {
				transformation = &Transformation{Rationale: d.TransformationRationale}
			}
			transformation.ProposedSeverityDowngrade = true
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"%s: severity downgrade to %s held pending host/human resolution (⚑ gate)",
				DisplayID(st.id), *d.SeverityDowngradeTo))
		}

		var terminalAt *time.Time
		if decision == DecisionAccepted || decision == DecisionRejected || decision == DecisionDeferred {
			t := now()
			terminalAt = &t
		}

		dispositionRecords = append(dispositionRecords, DispositionRecord{
			DispositionID:  newDispositionID(),
			ItemID:         st.id,
			Round:          input.Round,
			DecidedBy:      d.DecidedBy,
			Decision:       decision,
			Rationale:      d.Rationale,
			Transformation: transformation,
			ProposedAt:     now(),
			TerminalAt:     terminalAt,
		})
	}

	if len(result.Errors) > 0 {
		return result, nil
	}

	result.MintedItems = mintedItems
	result.DispositionRecords = dispositionRecords

	if len(mintedItems) > 0 && input.InsertItems != nil {
		if err := input.InsertItems(mintedItems); err != nil {
			return result, fmt.Errorf("critique: append items: %w", err)
		}
	}
	if len(dispositionRecords) > 0 && input.InsertDispositions != nil {
		if err := input.InsertDispositions(dispositionRecords); err != nil {
			return result, fmt.Errorf("critique: append dispositions: %w", err)
		}
	}

	return result, nil
}

func isValidDecision(d Decision) bool {
	switch d {
	case DecisionAccepted, DecisionRejected, DecisionDeferred, DecisionTransformed, DecisionPendingTransformation:
		return true
	default:
		return false
	}
}

// newDispositionID generates a unique, unordered identifier for a
// DispositionRecord. Unlike item IDs these are not content-addressed —
// multiple dispositions may legitimately share every other field.
func newDispositionID() string {
	return "disp_" + uuid.NewString()
}
