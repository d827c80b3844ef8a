package classify

import (
	"regexp"
	"strconv"
	"strings"
)

// Pattern extractors. Each returns its zero/absent value on no match and
// never fails; ambiguity is resolved by omission, downstream consumers treat
// absence as "no data". Inputs are WhatsApp messages, bounded to a few KB,
// so the regexes here carry no backtracking risk at realistic sizes.

var (
	// Task id tokens as embedded in outbound assignment footers
	// ("Task ID: #3F9A2C1B") and in the legacy TSK-dddd-dddd format.
	// The footer format in templates.go must stay in lockstep with these.
	taskIDHashRe   = regexp.MustCompile(`#([A-Za-z0-9]{8})\b`)
	taskIDPrefixRe = regexp.MustCompile(`(?i)task\s*#([A-Za-z0-9]{8})\b`)
	taskIDLegacyRe = regexp.MustCompile(`\b(TSK-\d{4}-\d{4})\b`)

	durationUnitRe = regexp.MustCompile(`(?i)\b(\d+)\s*(minutes?|mins?|m|hours?|hrs?|h|days?|d)\b`)
	durationBareRe = regexp.MustCompile(`(?i)\b(?:in|within|about)\s*(\d+)\b`)

	// Three alternative budget phrasings:
	//   "need BD12 for taxi", "budget: 12 for prints", "12 BD for taxi"
	budgetNeedRe   = regexp.MustCompile(`(?i)\bneed\s+(?:BD|USD|\$)\s*(\d+(?:\.\d+)?)(?:\s+for\s+(.+))?`)
	budgetLabelRe  = regexp.MustCompile(`(?i)\bbudget:?\s*(?:BD|USD|\$)?\s*(\d+(?:\.\d+)?)(?:\s+for\s+(.+))?`)
	budgetAmountRe = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:BD|USD|dollars?|dinars?)\s+for\s+(.+)`)

	contactPhoneRe = regexp.MustCompile(`(?i)(?:phone|number|mobile|reach (?:him|her|them) (?:at|on))[:\s]+(\+?\d[\d\s\-]{6,}\d)`)
	contactNameRe  = regexp.MustCompile(`(?i:spoke to|met with|contacted|talked to)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)
)

// ExtractTaskID pulls a task id token out of free text. Returns "" when no
// recognizable token is present.
func ExtractTaskID(text string) string {
	if m := taskIDPrefixRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := taskIDHashRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := taskIDLegacyRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// ExtractTimeEstimate finds a duration mention and normalizes it to minutes.
// A bare "in/within/about N" with no unit is treated as minutes.
func ExtractTimeEstimate(text string) *int {
	if m := durationUnitRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		switch strings.ToLower(string(m[2][0])) {
		case "h":
			n *= 60
		case "d":
			n *= 1440
		}
		return &n
	}
	if m := durationBareRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		return &n
	}
	return nil
}

// ExtractBudgetRequest finds an expense request in one of three phrasings.
// The description defaults to "Expense request" when no trailing clause is
// captured.
func ExtractBudgetRequest(text string) *BudgetRequest {
	for _, re := range []*regexp.Regexp{budgetAmountRe, budgetLabelRe, budgetNeedRe} {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		amount, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		desc := "Expense request"
		if len(m) > 2 && strings.TrimSpace(m[2]) != "" {
			desc = strings.TrimSpace(strings.TrimRight(m[2], ".!"))
		}
		return &BudgetRequest{Amount: amount, Description: desc}
	}
	return nil
}

// ExtractContactInfo finds a labeled phone number and/or a capitalized name
// following a contact verb ("spoke to Ahmed Khalil"). Returns nil when
// neither is present.
func ExtractContactInfo(text string) *ContactInfo {
	info := &ContactInfo{}
	if m := contactPhoneRe.FindStringSubmatch(text); m != nil {
		info.Phone = strings.TrimSpace(m[1])
	}
	if m := contactNameRe.FindStringSubmatch(text); m != nil {
		info.Name = m[1]
	}
	if info.Phone == "" && info.Name == "" {
		return nil
	}
	return info
}
