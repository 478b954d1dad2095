package assistant

import (
	"testing"

	"jetset/models"
)

func TestParseExtraction(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		wantInt  string
		wantUpd  int
		wantExpr string
	}{
		{
			name:     "plain json",
			raw:      `{"intent":"book","updates":[{"field":"activity","value":"quad"}],"date_expression":"tomorrow at 4pm"}`,
			wantInt:  IntentBook,
			wantUpd:  1,
			wantExpr: "tomorrow at 4pm",
		},
		{
			name:    "json fence",
			raw:     "```json\n{\"intent\":\"packages\"}\n```",
			wantInt: IntentPackages,
		},
		{
			name:    "bare fence",
			raw:     "```\n{\"intent\":\"location\"}\n```",
			wantInt: IntentLocation,
		},
		{
			name:    "missing intent defaults to chat",
			raw:     `{"updates":[{"field":"quantity","value":"3"}]}`,
			wantInt: IntentChat,
			wantUpd: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ex, err := parseExtraction(tc.raw)
			if err != nil {
				t.Fatalf("parseExtraction: %v", err)
			}
			if ex.Intent != tc.wantInt {
				t.Errorf("intent = %q, want %q", ex.Intent, tc.wantInt)
			}
			if len(ex.Updates) != tc.wantUpd {
				t.Errorf("got %d updates, want %d", len(ex.Updates), tc.wantUpd)
			}
			if ex.DateExpression != tc.wantExpr {
				t.Errorf("date_expression = %q, want %q", ex.DateExpression, tc.wantExpr)
			}
			if tc.wantUpd > 0 && ex.Updates[0].Field == models.Field("") {
				t.Errorf("first update lost its field: %+v", ex.Updates[0])
			}
		})
	}
}

func TestParseExtractionRejectsGarbage(t *testing.T) {
	if _, err := parseExtraction("I would love to help with that!"); err == nil {
		t.Fatal("prose reply parsed as an extraction")
	}
}
