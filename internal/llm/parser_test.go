package llm

import "testing"

func TestExtractCode(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "javascript fence",
			text:     "Here is the code:\n```javascript\ndf.numRows\n```\nDone.",
			expected: "df.numRows",
		},
		{
			name:     "js fence",
			text:     "```js\nprint(1)\n```",
			expected: "print(1)",
		},
		{
			name:     "plain fence",
			text:     "```\nvar x = 1\nprint(x)\n```",
			expected: "var x = 1\nprint(x)",
		},
		{
			name:     "no fence returns text",
			text:     "df.col('amount')",
			expected: "df.col('amount')",
		},
		{
			name:     "first fence wins",
			text:     "```javascript\nfirst\n```\n```javascript\nsecond\n```",
			expected: "first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCode(tt.text)
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
