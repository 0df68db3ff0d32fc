// Package prompt builds the prompts sent to the code-generation model:
// initial generation, error correction and answer rephrasing.
package prompt

import (
	"fmt"
	"strings"
	"time"
)

const environmentDescription = `Available in the execution environment:
- df.numRows, df.numColumns: row and column counts
- df.columns: array of column names
- df.col(name): array with the values of one column
- df.records(): array of {column: value} objects, one per row
- stats module: const stats = require('stats') with sum, mean, median, min, max, stddev, count
- re module: const re = require('re') with findAll, search, split, replace
- print(...): write a value to the output

Only the 'stats' and 're' modules may be required; 'dataframe' is already bound.
End the script with a bare expression holding the answer, or print the answer.`

// Generate builds the prompt for the first script against a single frame.
func Generate(question, preview string, numRows, numColumns int) string {
	return fmt.Sprintf(`Today is %s.
You are provided with a dataframe (df) with %d rows and %d columns.
This is the result of df.head(5):
%s

%s

When asked about the data, reply with a JavaScript program that answers
the question, inside a single `+"```javascript"+` code block, and nothing else.

Question: %s`,
		time.Now().Format("2006-01-02"), numRows, numColumns, preview,
		environmentDescription, question)
}

// GenerateMulti builds the prompt for the first script against a list of
// frames, bound as df1..dfN.
func GenerateMulti(question string, previews []string) string {
	var heads strings.Builder
	for i, p := range previews {
		fmt.Fprintf(&heads, "df%d.head(5):\n%s\n\n", i+1, p)
	}

	desc := strings.ReplaceAll(environmentDescription, "df.", "df1.")
	return fmt.Sprintf(`Today is %s.
You are provided with %d dataframes, bound as df1..df%d.
%s
%s

When asked about the data, reply with a JavaScript program that answers
the question, inside a single `+"```javascript"+` code block, and nothing else.

Question: %s`,
		time.Now().Format("2006-01-02"), len(previews), len(previews),
		heads.String(), desc, question)
}

// CorrectError builds the self-correction prompt: the original question
// context plus the failing script and its error.
func CorrectError(question string, previews []string, numRows, numColumns int, failingScript, errorMessage string) string {
	var heads strings.Builder
	if len(previews) == 1 {
		fmt.Fprintf(&heads, "You are provided with a dataframe (df) with %d rows and %d columns.\nThis is the result of df.head(5):\n%s\n", numRows, numColumns, previews[0])
	} else {
		fmt.Fprintf(&heads, "You are provided with %d dataframes, bound as df1..df%d.\n", len(previews), len(previews))
		for i, p := range previews {
			fmt.Fprintf(&heads, "df%d.head(5):\n%s\n\n", i+1, p)
		}
	}

	return fmt.Sprintf(`Today is %s.
%s
%s

The user asked the following question:
%s

You generated this JavaScript code:
%s

It fails with the following error:
%s

Correct the code and return a fixed JavaScript program that answers the
original question, inside a single `+"```javascript"+` code block, and
nothing else.`,
		time.Now().Format("2006-01-02"), heads.String(), environmentDescription,
		question, failingScript, errorMessage)
}

// Response builds the prompt that rephrases a computed answer
// conversationally.
func Response(question, answer string) string {
	return fmt.Sprintf(`The user asked: %s
The computed answer was: %s

Rewrite the answer as a single short conversational sentence. Reply with
the sentence only.`, question, answer)
}
