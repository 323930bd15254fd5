package schema_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"pg-typemap/internal/schema"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scan(text string) *schema.ScanResult {
	return schema.NewScanner().Scan(text)
}

func TestScan_SingleLineEnum(t *testing.T) {
	res := scan("CREATE TYPE t AS ENUM ('a','b','c');")

	require.Len(t, res.Enums, 1)
	assert.Equal(t, schema.EnumType{Name: "t", Values: []string{"a", "b", "c"}}, res.Enums[0])
	assert.False(t, res.UsesVector)
	assert.Empty(t, res.VectorUsages())
}

func TestScan_MultiLineEnumWithCommentAndVector(t *testing.T) {
	text := `CREATE TYPE status AS ENUM (
  'active', -- comment
  'inactive'
);

CREATE TABLE documents (
  id BIGSERIAL PRIMARY KEY,
  state status NOT NULL,
  embedding VECTOR(384)
);`

	res := scan(text)

	require.Len(t, res.Enums, 1)
	assert.Equal(t, "status", res.Enums[0].Name)
	assert.Equal(t, []string{"active", "inactive"}, res.Enums[0].Values)
	assert.True(t, res.UsesVector)
	assert.Equal(t, []schema.VectorUsage{{Name: "vector"}}, res.VectorUsages())
}

func TestScan_SchemaQualifiedName(t *testing.T) {
	res := scan("CREATE TYPE public.mood AS ENUM ('sad', 'ok', 'happy');")

	require.Len(t, res.Enums, 1)
	assert.Equal(t, "mood", res.Enums[0].Name)
	assert.Equal(t, []string{"sad", "ok", "happy"}, res.Enums[0].Values)
}

func TestScan_LowercaseKeywords(t *testing.T) {
	res := scan("create type app.Mood as enum ('a', 'b');\nalter table x add column v vector(3);")

	require.Len(t, res.Enums, 1)
	assert.Equal(t, "Mood", res.Enums[0].Name)
	assert.Equal(t, []string{"a", "b"}, res.Enums[0].Values)
	assert.True(t, res.UsesVector)
}

func TestScan_EnumWithoutLabelsIsDropped(t *testing.T) {
	text := "CREATE TYPE empty AS ENUM ();\nCREATE TYPE unquoted AS ENUM (a, b);\nCREATE TYPE kept AS ENUM ('x');"

	res := scan(text)

	require.Len(t, res.Enums, 1)
	assert.Equal(t, "kept", res.Enums[0].Name)
}

func TestScan_EmptyQuotedLabelIsRejected(t *testing.T) {
	res := scan("CREATE TYPE t AS ENUM ('a', '', 'b');")

	require.Len(t, res.Enums, 1)
	assert.Equal(t, []string{"a", "b"}, res.Enums[0].Values)

	res = scan("CREATE TYPE t AS ENUM (\n  '',\n  'only'\n);")
	require.Len(t, res.Enums, 1)
	assert.Equal(t, []string{"only"}, res.Enums[0].Values)
}

func TestScan_VectorRecordedOnce(t *testing.T) {
	text := `CREATE TABLE a (v VECTOR(3));
CREATE TABLE b (v vector(1536));
CREATE TABLE c (
  v1 Vector(8),
  v2 VECTOR(8)
);`

	res := scan(text)

	assert.True(t, res.UsesVector)
	assert.Len(t, res.VectorUsages(), 1)
	assert.Empty(t, res.Enums)
}

func TestScan_MalformedWithoutTerminator(t *testing.T) {
	res := scan("CREATE TABLE t (id int);\nCREATE TYPE broken AS ENUM (")

	assert.Empty(t, res.Enums)
	assert.False(t, res.UsesVector)
}

func TestScan_UnterminatedEnumConsumesRestOfInput(t *testing.T) {
	text := "CREATE TYPE broken AS ENUM (\n  'a',\n  'b'\nCREATE TABLE t (v VECTOR(3))"

	res := scan(text)

	// Labels collected before end of input are still reported.
	require.Len(t, res.Enums, 1)
	assert.Equal(t, []string{"a", "b"}, res.Enums[0].Values)
	assert.False(t, res.UsesVector, "lines after an unterminated enum are not rescanned")
}

func TestScan_CommentMarkerInsideQuotes(t *testing.T) {
	// "--" always starts a comment, even inside a quoted label.
	res := scan("CREATE TYPE t AS ENUM ('a--b', 'c');")
	assert.Empty(t, res.Enums)

	res = scan("CREATE TYPE t AS ENUM (\n  'x--y',\n  'z'\n);")
	require.Len(t, res.Enums, 1)
	assert.Equal(t, []string{"z"}, res.Enums[0].Values)
}

func TestScan_LabelsOnParenthesisLines(t *testing.T) {
	res := scan("CREATE TYPE size AS ENUM ('s',\n  'm',\n  'l');")

	require.Len(t, res.Enums, 1)
	assert.Equal(t, []string{"s", "m", "l"}, res.Enums[0].Values)
}

func TestScan_TrailingCommentAfterTerminatorSwallowsNextStatement(t *testing.T) {
	text := `CREATE TYPE a AS ENUM (
  'x'
); -- end of a
CREATE TYPE b AS ENUM ('y');
CREATE TYPE c AS ENUM ('z');`

	res := scan(text)

	assert.Equal(t, []string{"a", "c"}, res.EnumNames())
}

func TestScan_IgnoresOtherStatements(t *testing.T) {
	text := `-- schema
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TYPE point3 AS (x float8, y float8, z float8);
CREATE TABLE t (id int PRIMARY KEY, name text);
SELEC broken syntax here;`

	res := scan(text)

	assert.Empty(t, res.Enums)
	assert.False(t, res.UsesVector)
}

func TestScan_CRLFLineEndings(t *testing.T) {
	res := scan("CREATE TYPE t AS ENUM (\r\n  'a',\r\n  'b'\r\n);\r\nCREATE TYPE u AS ENUM ('c');\r\n")

	assert.Equal(t, []string{"t", "u"}, res.EnumNames())
	assert.Equal(t, []string{"a", "b"}, res.Enums[0].Values)
}

func TestScan_EmptyInput(t *testing.T) {
	res := scan("")

	assert.Empty(t, res.Enums)
	assert.False(t, res.UsesVector)
}

func TestParseEnum_CursorStopsOnTerminator(t *testing.T) {
	lines := schema.SplitLines("-- header\nCREATE TYPE s AS ENUM (\n  'a',\n  'b'\n);\nSELECT 1;")
	cursor := 1

	enum, ok := schema.NewScanner().ParseEnum(lines, &cursor)

	require.True(t, ok)
	assert.Equal(t, "s", enum.Name)
	assert.Equal(t, []string{"a", "b"}, enum.Values)
	assert.Equal(t, 4, cursor)
}

func TestParseEnum_MissingKeywords(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"no AS ENUM", "CREATE TYPE mood ENUM ('a');"},
		{"no CREATE TYPE", "ALTER TYPE mood AS ENUM ('a');"},
		{"empty name", "CREATE TYPE AS ENUM ('a');"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cursor := 0
			_, ok := schema.NewScanner().ParseEnum([]string{tt.line}, &cursor)
			assert.False(t, ok)
			assert.Equal(t, 0, cursor)
		})
	}
}

func TestCleanTypeName(t *testing.T) {
	assert.Equal(t, "mood", schema.CleanTypeName("mood"))
	assert.Equal(t, "mood", schema.CleanTypeName("public.mood"))
	assert.Equal(t, "mood", schema.CleanTypeName("db.public.mood"))
	assert.Equal(t, "", schema.CleanTypeName("public."))
}

func TestScanner_ProgressAndTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var calls, lastDone, lastTotal int
	s := schema.NewScanner(
		schema.WithLogger(logger),
		schema.WithProgress(func(done, total int) {
			calls++
			lastDone, lastTotal = done, total
		}),
	)

	res := s.Scan("CREATE TYPE t AS ENUM ('a');\nCREATE TABLE x (v VECTOR(2));\n")

	require.Len(t, res.Enums, 1)
	assert.Positive(t, calls)
	assert.Equal(t, 2, lastTotal)
	assert.Equal(t, lastTotal, lastDone)
	assert.Contains(t, buf.String(), "parsed enum type")
	assert.Contains(t, buf.String(), "found vector column")
}

func TestScan_RandomizedDeclarations(t *testing.T) {
	faker := gofakeit.New(20240601)

	for round := 0; round < 50; round++ {
		name := "t_" + faker.LetterN(uint(faker.Number(1, 10)))
		labels := make([]string, faker.Number(1, 8))
		for i := range labels {
			labels[i] = faker.LetterN(uint(faker.Number(1, 12)))
		}

		single := fmt.Sprintf("CREATE TYPE %s AS ENUM (%s);", name, quoteAll(labels, ", "))
		multi := multiLineDeclaration(faker, "public."+name, labels)

		for form, text := range map[string]string{"single": single, "multi": multi} {
			res := scan("CREATE TABLE before (id int);\n" + text + "\nCREATE TABLE after (v VECTOR(4));")

			require.Len(t, res.Enums, 1, "%s form:\n%s", form, text)
			assert.Equal(t, name, res.Enums[0].Name, "%s form:\n%s", form, text)
			assert.Equal(t, labels, res.Enums[0].Values, "%s form:\n%s", form, text)
			assert.True(t, res.UsesVector, "%s form:\n%s", form, text)
		}
	}
}

// multiLineDeclaration spreads labels over lines in random groups.
func multiLineDeclaration(faker *gofakeit.Faker, name string, labels []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TYPE %s AS ENUM (", name)

	for i := 0; i < len(labels); {
		n := faker.Number(1, len(labels)-i)
		b.WriteString("\n  ")
		b.WriteString(quoteAll(labels[i:i+n], ", "))
		i += n
		if i < len(labels) {
			b.WriteString(",")
		}
		if faker.Bool() {
			b.WriteString(" -- " + faker.LetterN(5))
		}
	}

	b.WriteString("\n);")
	return b.String()
}

func quoteAll(values []string, sep string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, sep)
}
