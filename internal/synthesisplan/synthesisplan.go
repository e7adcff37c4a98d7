// Package synthesisplan parses the host's synthesis write-up — free-form
// markdown produced once a round has converged — into the two suggestion
// arrays critique.ComputeSynthesisGaps checks blocking items against.
package synthesisplan

import (
	"bufio"
	"strings"

	"github.com/kodevadam/crucible/internal/critique"
)

// acceptedHeadings and rejectedHeadings are matched case-insensitively
// against a markdown "## Heading" line to decide which section following
// bullets belong to.
var (
	acceptedHeadings = []string{"accepted", "incorporated", "addressed"}
	rejectedHeadings = []string{"rejected", "declined", "out of scope", "deferred"}
)

type section int

const (
	sectionNone section = iota
	sectionAccepted
	sectionRejected
)

// Parse reads a synthesis write-up and extracts its accepted/rejected
// suggestion bullets into a critique.SynthesisPlan. Lines outside a
// recognized heading are ignored; a plan with no recognized headings is
// returned with both arrays empty rather than an error, since
// ComputeSynthesisGaps treats an empty plan as "nothing addressed."
func Parse(text string) critique.SynthesisPlan {
	var plan critique.SynthesisPlan
	current := sectionNone

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if heading, ok := asHeading(line); ok {
			current = classifyHeading(heading)
			continue
		}

		bullet, ok := asBullet(line)
		if !ok || current == sectionNone {
			continue
		}
		switch current {
		case sectionAccepted:
			plan.AcceptedSuggestions = append(plan.AcceptedSuggestions, bullet)
		case sectionRejected:
			plan.RejectedSuggestions = append(plan.RejectedSuggestions, bullet)
		}
	}
	return plan
}

func asHeading(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, "#")
	if trimmed == line {
		return "", false
	}
	return strings.TrimSpace(trimmed), true
}

func classifyHeading(heading string) section {
	lower := strings.ToLower(heading)
	for _, h := range acceptedHeadings {
		if strings.Contains(lower, h) {
			return sectionAccepted
		}
	}
	for _, h := range rejectedHeadings {
		if strings.Contains(lower, h) {
			return sectionRejected
		}
	}
	return sectionNone
}

func asBullet(line string) (string, bool) {
	for _, prefix := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix)), true
		}
	}
	return "", false
}
