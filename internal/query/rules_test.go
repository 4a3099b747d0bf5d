package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleAgentParse(t *testing.T) {
	agent := NewRuleAgent()

	tests := []struct {
		name string
		text string
		want Filters
	}{
		{"age and gender", "all females over 20", Filters{AgeMin: 20, Gender: "Female"}},
		{"age max", "students under 18", Filters{AgeMax: 18}},
		{"male keyword", "every boy in the class", Filters{Gender: "Male"}},
		{"female wins over embedded male", "female students", Filters{Gender: "Female"}},
		{"major computer science", "computer science students", Filters{Major: "Computer Science"}},
		{"major finance", "anyone studying finance", Filters{Major: "Finance"}},
		{"chinese keywords", "所有20岁以上的女生", Filters{AgeMin: 20, Gender: "Female"}},
		{"mixed case", "ALL FEMALES OVER 20", Filters{AgeMin: 20, Gender: "Female"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := agent.ParseQuery(context.Background(), tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRuleAgentUnparseable(t *testing.T) {
	agent := NewRuleAgent()

	// The contract forbids returning an empty Filters with a nil error:
	// text with no recognised condition must fail with ErrUnparseable.
	for _, text := range []string{
		"",
		"tell me a joke",
		"who is the dean",
		"something about the weather",
	} {
		t.Run("text "+text, func(t *testing.T) {
			_, err := agent.ParseQuery(context.Background(), text)
			assert.ErrorIs(t, err, ErrUnparseable)
		})
	}
}
