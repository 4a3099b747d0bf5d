package query

import (
	"context"
	"fmt"
	"strings"
)

// RuleAgent is a keyword-matching Agent. It recognises a fixed set of
// age, gender, and major phrases (English and Chinese) and is the
// default parser when no LLM is configured.
type RuleAgent struct{}

// NewRuleAgent returns a ready-to-use keyword parser.
func NewRuleAgent() *RuleAgent {
	return &RuleAgent{}
}

// ParseQuery scans the text for known phrases and builds Filters from
// the matches. Text that produces no filter at all fails with
// ErrUnparseable rather than returning an empty result.
func (a *RuleAgent) ParseQuery(_ context.Context, text string) (Filters, error) {
	lower := strings.ToLower(text)
	var f Filters

	// Age phrases.
	if containsAny(lower, "greater than 20", "over 20", "20+", "大于20", "20岁以上") {
		f.AgeMin = 20
	}
	if containsAny(lower, "less than 18", "under 18", "小于18", "18岁以下") {
		f.AgeMax = 18
	}

	// Gender words. "female" contains "male", so check it first.
	if containsAny(lower, "female", "girl", "女生", "女性") {
		f.Gender = "Female"
	} else if containsAny(lower, "male", "boy", "男生", "男性") {
		f.Gender = "Male"
	}

	// Major names.
	if containsAny(lower, "computer science", "cs", "software engineering", "计算机", "软件工程") {
		f.Major = "Computer Science"
	} else if containsAny(lower, "finance", "business", "金融") {
		f.Major = "Finance"
	}

	if f.IsZero() {
		if containsAny(lower, "about", "who is", "关于", "谁是") {
			return Filters{}, fmt.Errorf(
				"no filtering parameters recognised in %q, try a more specific query: %w",
				text, ErrUnparseable)
		}
		return Filters{}, fmt.Errorf("no filtering conditions recognised: %w", ErrUnparseable)
	}

	return f, nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
